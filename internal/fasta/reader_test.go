// internal/fasta/reader_test.go
package fasta

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const plain = `>seq1 some description
ACGT
acgt
>seq2

NNnn
`

func writeGz(t *testing.T, name string, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("tmp: %v", err)
	}
	gw := gzip.NewWriter(fh)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gz: %v", err)
	}
	gw.Close()
	fh.Close()
	return path
}

func TestReadAllGzip(t *testing.T) {
	got, err := ReadAll(writeGz(t, "test.fa.gz", plain))
	if err != nil {
		t.Fatalf("read gz: %v", err)
	}
	if len(got) != 2 || got["seq1"] != "ACGTACGT" || got["seq2"] != "NNNN" {
		t.Fatalf("gzip parse failed: %v", got)
	}
}

func TestReadAllStdin(t *testing.T) {
	orig := os.Stdin
	r, w, _ := os.Pipe()
	os.Stdin = r
	defer func() { os.Stdin = orig }()
	go func() { io.WriteString(w, plain); w.Close() }()

	got, err := ReadAll("-")
	if err != nil {
		t.Fatalf("read stdin: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records from stdin, got %d", len(got))
	}
}

func TestScanErrors(t *testing.T) {
	cases := map[string]string{
		"sequence first": "ACGT\n>a\nA\n",
		"empty header":   ">\nACGT\n",
	}
	for name, in := range cases {
		if err := Scan(strings.NewReader(in), func(Record) error { return nil }); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}

	path := filepath.Join(t.TempDir(), "dup.fa")
	if err := os.WriteFile(path, []byte(">a\nA\n>a\nC\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadAll(path); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("duplicate ids: %v", err)
	}
}

func TestScanNoTrailingNewline(t *testing.T) {
	var recs []Record
	err := Scan(strings.NewReader(">x\nAC\nGT"), func(r Record) error {
		recs = append(recs, r)
		return nil
	})
	if err != nil || len(recs) != 1 || string(recs[0].Seq) != "ACGT" {
		t.Fatalf("got %v err=%v", recs, err)
	}
}

func TestOpenDetectsGzipWithoutSuffix(t *testing.T) {
	path := writeGz(t, "graph.jsonl", plain)
	rc, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil || string(b) != plain {
		t.Fatalf("gzip not detected: err=%v got=%q", err, b)
	}
}
