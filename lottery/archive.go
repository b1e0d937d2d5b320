package lottery

import (
	"go.dedis.ch/cothority/v3"
	"go.dedis.ch/onet/v3/network"
	"go.dedis.ch/protobuf"
	"go.etcd.io/bbolt"
	"golang.org/x/xerrors"
)

// ErrUnknownDraw is returned when the archive has no draw with the given ID.
var ErrUnknownDraw = xerrors.New("unknown draw")

// archive keeps every draw a node conducted, keyed by the proof hash.
type archive struct {
	db     *bbolt.DB
	bucket []byte
}

func newArchive(db *bbolt.DB, bucket []byte) (*archive, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	})
	if err != nil {
		return nil, xerrors.Errorf("couldn't create bucket: %v", err)
	}
	return &archive{db: db, bucket: bucket}, nil
}

func (a *archive) put(id []byte, rec *DrawRecord) error {
	buf, err := protobuf.Encode(rec)
	if err != nil {
		return xerrors.Errorf("couldn't encode draw record: %v", err)
	}
	return a.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(a.bucket)
		if b == nil {
			return xerrors.New("missing archive bucket")
		}
		return b.Put(id, buf)
	})
}

func (a *archive) get(id []byte) (*DrawRecord, error) {
	var buf []byte
	err := a.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(a.bucket)
		if b == nil {
			return xerrors.New("missing archive bucket")
		}
		if v := b.Get(id); v != nil {
			buf = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if buf == nil {
		return nil, xerrors.Errorf("%x: %w", id, ErrUnknownDraw)
	}
	rec := &DrawRecord{}
	err = protobuf.DecodeWithConstructors(buf, rec, network.DefaultConstructors(cothority.Suite))
	if err != nil {
		return nil, xerrors.Errorf("couldn't decode draw record: %v", err)
	}
	return rec, nil
}

// ids returns the IDs of all archived draws in key order.
func (a *archive) ids() ([][]byte, error) {
	var ids [][]byte
	err := a.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(a.bucket)
		if b == nil {
			return xerrors.New("missing archive bucket")
		}
		return b.ForEach(func(k, _ []byte) error {
			ids = append(ids, append([]byte(nil), k...))
			return nil
		})
	})
	return ids, err
}
