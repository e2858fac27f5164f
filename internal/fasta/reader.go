// internal/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Record is one FASTA entry; ID is the first word of the header.
type Record struct {
	ID  string
	Seq []byte
}

// multiReadCloser closes every closer, gzip stream first.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader for path. Gzip input is detected by its magic
// number or a .gz suffix. "-" reads STDIN.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	var sig [2]byte
	n, _ := io.ReadFull(fh, sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		fh.Close()
		return nil, err
	}
	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}

// Scan calls fn for every record in r. Sequence lines are upper-cased and
// joined; blank lines are skipped.
func Scan(r io.Reader, fn func(Record) error) error {
	br := bufio.NewReaderSize(r, 1<<16)
	var (
		id  string
		buf []byte
		ln  int
	)
	flush := func() error {
		if id == "" {
			return nil
		}
		return fn(Record{ID: id, Seq: bytes.Clone(buf)})
	}
	for {
		line, err := br.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return err
		}
		eof := err == io.EOF
		ln++
		line = bytes.TrimRight(line, "\r\n")
		switch {
		case len(line) == 0:
		case line[0] == '>':
			if err := flush(); err != nil {
				return err
			}
			fields := strings.Fields(string(line[1:]))
			if len(fields) == 0 {
				return fmt.Errorf("line %d: empty FASTA header", ln)
			}
			id, buf = fields[0], buf[:0]
		default:
			if id == "" {
				return fmt.Errorf("line %d: sequence before first header", ln)
			}
			buf = append(buf, bytes.ToUpper(bytes.TrimSpace(line))...)
		}
		if eof {
			break
		}
	}
	return flush()
}

// ReadAll loads every record of path keyed by id. Duplicate ids are an error.
func ReadAll(path string) (map[string]string, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	out := map[string]string{}
	err = Scan(rc, func(r Record) error {
		if _, dup := out[r.ID]; dup {
			return fmt.Errorf("duplicate FASTA id %q", r.ID)
		}
		out[r.ID] = string(r.Seq)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
