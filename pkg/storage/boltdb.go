package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/valkolaci/poolsched/pkg/types"
)

var (
	// Bucket names
	bucketResizes  = []byte("resizes")
	bucketObserved = []byte("observed_sizes")
)

// BoltStore implements Store using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "poolsched.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketResizes, bucketObserved} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// resizeKey orders records chronologically within one node pool
func resizeKey(record *types.ResizeRecord) []byte {
	return []byte(fmt.Sprintf("%s/%s/%s",
		record.NodePoolID,
		record.AppliedAt.UTC().Format(time.RFC3339Nano),
		record.ID,
	))
}

// RecordResize appends one resize audit entry
func (s *BoltStore) RecordResize(record *types.ResizeRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResizes)
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal resize record: %w", err)
		}
		return b.Put(resizeKey(record), data)
	})
}

// ListResizes returns the resize history of one node pool in
// chronological order
func (s *BoltStore) ListResizes(nodePoolID string) ([]*types.ResizeRecord, error) {
	var records []*types.ResizeRecord
	prefix := []byte(nodePoolID + "/")

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketResizes).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var record types.ResizeRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to unmarshal resize record: %w", err)
			}
			records = append(records, &record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListAllResizes returns every recorded resize
func (s *BoltStore) ListAllResizes() ([]*types.ResizeRecord, error) {
	var records []*types.ResizeRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketResizes).ForEach(func(k, v []byte) error {
			var record types.ResizeRecord
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to unmarshal resize record: %w", err)
			}
			records = append(records, &record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SetObservedSize stores the last seen size of a node pool
func (s *BoltStore) SetObservedSize(nodePoolID string, size int, seenAt time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketObserved)
		data, err := json.Marshal(&ObservedSize{
			NodePoolID: nodePoolID,
			Size:       size,
			SeenAt:     seenAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal observed size: %w", err)
		}
		return b.Put([]byte(nodePoolID), data)
	})
}

// GetObservedSize returns the last seen size of a node pool, or nil
// when the pool has never been observed
func (s *BoltStore) GetObservedSize(nodePoolID string) (*ObservedSize, error) {
	var observed *ObservedSize

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketObserved).Get([]byte(nodePoolID))
		if data == nil {
			return nil
		}
		observed = &ObservedSize{}
		if err := json.Unmarshal(data, observed); err != nil {
			return fmt.Errorf("failed to unmarshal observed size: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return observed, nil
}
