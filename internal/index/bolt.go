package index

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// BoltFile is the database file name used by the bolt backend.
const BoltFile = "index.db"

var bucketIndexes = []byte("indexes")

// BoltStore keeps every index as one value in a single bbolt bucket, keyed by
// index name. Each Write is its own transaction.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(dir string) (*BoltStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(filepath.Join(dir, BoltFile), 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketIndexes)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Read(name string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketIndexes).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("index %s: %w", name, fs.ErrNotExist)
		}
		// bbolt memory is only valid inside the transaction
		out = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *BoltStore) Write(name string, data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketIndexes).Put([]byte(name), data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
