package snapshot

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
)

var (
	metaBucket   = []byte("meta")
	roundsBucket = []byte("rounds")
	metaKey      = []byte("meta")
)

// Ledger is the bbolt file recording store metadata and committed rounds.
// Round keys are big-endian so cursor order is round order.
type Ledger struct {
	db *bolt.DB
}

func OpenLedger(path string) (*Ledger, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open ledger %q", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{metaBucket, roundsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return errors.Wrapf(err, "create bucket %q", name)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Ledger{db: db}, nil
}

func roundKey(round int) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], uint64(round))
	return k[:]
}

func (l *Ledger) Meta() (Meta, bool, error) {
	var (
		m  Meta
		ok bool
	)
	err := l.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(metaBucket).Get(metaKey)
		if data == nil {
			return nil
		}
		ok = true
		return errors.Wrap(msgpack.Unmarshal(data, &m), "decode meta")
	})
	return m, ok, err
}

func (l *Ledger) PutMeta(m Meta) error {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "encode meta")
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put(metaKey, data)
	})
}

// Append records a newly committed round. Rounds are never overwritten.
func (l *Ledger) Append(rec Record) error {
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return errors.Wrapf(err, "encode round %d", rec.Round)
	}
	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(roundsBucket)
		if b.Get(roundKey(rec.Round)) != nil {
			return errors.Wrapf(ErrCommitted, "round %d", rec.Round)
		}
		return b.Put(roundKey(rec.Round), data)
	})
}

func (l *Ledger) Get(round int) (Record, bool, error) {
	var (
		rec Record
		ok  bool
	)
	err := l.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(roundsBucket).Get(roundKey(round))
		if data == nil {
			return nil
		}
		ok = true
		return errors.Wrapf(msgpack.Unmarshal(data, &rec), "decode round %d", round)
	})
	return rec, ok, err
}

func (l *Ledger) Latest() (Record, bool, error) {
	var (
		rec Record
		ok  bool
	)
	err := l.db.View(func(tx *bolt.Tx) error {
		_, data := tx.Bucket(roundsBucket).Cursor().Last()
		if data == nil {
			return nil
		}
		ok = true
		return errors.Wrap(msgpack.Unmarshal(data, &rec), "decode latest round")
	})
	return rec, ok, err
}

func (l *Ledger) Records() ([]Record, error) {
	var out []Record
	err := l.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(roundsBucket).ForEach(func(k, v []byte) error {
			var rec Record
			if err := msgpack.Unmarshal(v, &rec); err != nil {
				return errors.Wrapf(err, "decode round key %x", k)
			}
			out = append(out, rec)
			return nil
		})
	})
	return out, err
}

// MarkPruned flags a round whose partition files were removed.
func (l *Ledger) MarkPruned(round int) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(roundsBucket)
		data := b.Get(roundKey(round))
		if data == nil {
			return errors.Wrapf(ErrNoSnapshot, "round %d", round)
		}
		var rec Record
		if err := msgpack.Unmarshal(data, &rec); err != nil {
			return errors.Wrapf(err, "decode round %d", round)
		}
		rec.Pruned = true
		data, err := msgpack.Marshal(rec)
		if err != nil {
			return errors.Wrapf(err, "encode round %d", round)
		}
		return b.Put(roundKey(round), data)
	})
}

func (l *Ledger) Close() error { return l.db.Close() }
