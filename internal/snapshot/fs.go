package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"chaincomp/internal/graph"
)

const (
	snapshotsDir = "snapshots"
	ledgerFile   = "ledger.db"
	stagingExt   = ".tmp"
)

// Options tunes an FSStore.
type Options struct {
	KeepSnapshots int // committed rounds to keep on disk besides round 0; 0 keeps all
	Threads       int // concurrent partition files per load/commit
	Log           logrus.FieldLogger
}

// FSStore keeps each round under snapshots/round-NNNNNN/ and the commit
// history in ledger.db.
type FSStore struct {
	dir     string
	keep    int
	threads int
	ledger  *Ledger
	log     logrus.FieldLogger
}

// IsStore reports whether dir already holds a ledger.
func IsStore(dir string) bool {
	st, err := os.Stat(filepath.Join(dir, ledgerFile))
	return err == nil && st.Mode().IsRegular()
}

// Open creates or reopens the store rooted at dir and clears staging
// directories left behind by interrupted commits.
func Open(dir string, opts Options) (*FSStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, snapshotsDir), 0o755); err != nil {
		return nil, errors.Wrapf(err, "create store %q", dir)
	}
	l, err := OpenLedger(filepath.Join(dir, ledgerFile))
	if err != nil {
		return nil, err
	}
	if opts.Threads < 1 {
		opts.Threads = 4
	}
	if opts.Log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		opts.Log = discard
	}
	s := &FSStore{
		dir:     dir,
		keep:    opts.KeepSnapshots,
		threads: opts.Threads,
		ledger:  l,
		log:     opts.Log.WithField("store", dir),
	}
	if err := s.sweepStaging(); err != nil {
		l.Close()
		return nil, err
	}
	return s, nil
}

func (s *FSStore) Dir() string { return s.dir }

func (s *FSStore) roundDir(round int) string {
	return filepath.Join(s.dir, snapshotsDir, fmt.Sprintf("round-%06d", round))
}

func (s *FSStore) sweepStaging() error {
	root := filepath.Join(s.dir, snapshotsDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		return errors.Wrapf(err, "list %s", root)
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), stagingExt) {
			s.log.WithField("dir", e.Name()).Warn("removing interrupted commit")
			if err := os.RemoveAll(filepath.Join(root, e.Name())); err != nil {
				return errors.Wrapf(err, "remove %s", e.Name())
			}
		}
	}
	return nil
}

func (s *FSStore) Meta(context.Context) (Meta, bool, error) { return s.ledger.Meta() }

func (s *FSStore) SetMeta(_ context.Context, m Meta) error {
	if m.Format == 0 {
		m.Format = FormatVersion
	}
	return s.ledger.PutMeta(m)
}

func (s *FSStore) Latest(context.Context) (Record, bool, error) { return s.ledger.Latest() }

func (s *FSStore) Records(context.Context) ([]Record, error) { return s.ledger.Records() }

func (s *FSStore) Load(ctx context.Context, round int) (*graph.Snapshot, error) {
	rec, ok, err := s.ledger.Get(round)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrNoSnapshot, "round %d", round)
	}
	if rec.Pruned {
		return nil, errors.Wrapf(ErrNoSnapshot, "round %d was pruned", round)
	}
	meta, _, err := s.ledger.Meta()
	if err != nil {
		return nil, err
	}
	if meta.Format > FormatVersion {
		return nil, errors.Errorf("store format %d is newer than supported %d", meta.Format, FormatVersion)
	}

	dir := s.roundDir(round)
	parts := make([][]graph.Node, rec.Partitions)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.threads)
	for p := range parts {
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			nodes, err := readPartition(filepath.Join(dir, partName(p)))
			if err != nil {
				return err
			}
			parts[p] = nodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrapf(err, "load round %d", round)
	}
	return &graph.Snapshot{Round: round, Overlap: meta.Overlap, Partitions: parts}, nil
}

// Commit writes snap into a staging directory, renames it into place and
// then appends the ledger record. Only the ledger write makes the round
// visible.
func (s *FSStore) Commit(ctx context.Context, snap *graph.Snapshot, rec Record) error {
	if _, ok, err := s.ledger.Get(snap.Round); err != nil {
		return err
	} else if ok {
		return errors.Wrapf(ErrCommitted, "round %d", snap.Round)
	}

	root := filepath.Join(s.dir, snapshotsDir)
	staging, err := os.MkdirTemp(root, fmt.Sprintf("round-%06d-*%s", snap.Round, stagingExt))
	if err != nil {
		return errors.Wrap(err, "create staging dir")
	}
	defer os.RemoveAll(staging)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.threads)
	for p := range snap.Partitions {
		p := p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return writePartition(filepath.Join(staging, partName(p)), snap.Partitions[p])
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrapf(err, "write round %d", snap.Round)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	final := s.roundDir(snap.Round)
	// A directory without a ledger record is an earlier commit that crashed
	// before the ledger write.
	if err := os.RemoveAll(final); err != nil {
		return errors.Wrapf(err, "clear %s", final)
	}
	if err := os.Rename(staging, final); err != nil {
		return errors.Wrapf(err, "publish round %d", snap.Round)
	}

	rec = completeRecord(snap, rec)
	if err := s.ledger.Append(rec); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"round": rec.Round, "nodes": rec.Nodes}).Debug("committed snapshot")
	// The round is committed at this point; a failed prune is retried by the next commit.
	if err := s.prune(rec.Round); err != nil {
		s.log.WithError(err).WithField("round", rec.Round).Warn("prune failed")
	}
	return nil
}

// prune drops partition files of rounds older than the retention window.
// Round 0 is the imported graph and always stays.
func (s *FSStore) prune(latest int) error {
	if s.keep <= 0 {
		return nil
	}
	recs, err := s.ledger.Records()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if rec.Round == 0 || rec.Pruned || rec.Round > latest-s.keep {
			continue
		}
		if err := os.RemoveAll(s.roundDir(rec.Round)); err != nil {
			return errors.Wrapf(err, "prune round %d", rec.Round)
		}
		if err := s.ledger.MarkPruned(rec.Round); err != nil {
			return err
		}
		s.log.WithField("round", rec.Round).Debug("pruned snapshot")
	}
	return nil
}

func (s *FSStore) Close() error { return s.ledger.Close() }
