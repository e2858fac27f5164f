package snapshot

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"chaincomp/internal/graph"
)

func partName(p int) string { return fmt.Sprintf("part-%05d.mpk", p) }

// writePartition stores nodes as a msgpack array header followed by one
// record per node. The header lets readers detect truncated files.
func writePartition(path string, nodes []graph.Node) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	w := bufio.NewWriterSize(f, 1<<16)
	enc := msgpack.NewEncoder(w)
	if err := enc.EncodeArrayLen(len(nodes)); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	for i := range nodes {
		if err := enc.Encode(&nodes[i]); err != nil {
			return errors.Wrapf(err, "encode node %q into %s", nodes[i].ID, path)
		}
	}
	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "flush %s", path)
	}
	return errors.Wrapf(f.Sync(), "sync %s", path)
}

func readPartition(path string) ([]graph.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	dec := msgpack.NewDecoder(bufio.NewReaderSize(f, 1<<16))
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return nil, errors.Wrapf(err, "read header of %s", path)
	}
	if n < 0 {
		n = 0
	}
	out := make([]graph.Node, n)
	for i := range out {
		if err := dec.Decode(&out[i]); err != nil {
			return nil, errors.Wrapf(err, "decode record %d of %s", i, path)
		}
	}
	return out, nil
}
