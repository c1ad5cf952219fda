package storage

import (
	"time"

	"github.com/valkolaci/poolsched/pkg/types"
)

// ObservedSize is the last size seen for a node pool, kept so that
// operators can tell what "normal" was before a window forced a pool
// down.
type ObservedSize struct {
	NodePoolID string
	Size       int
	SeenAt     time.Time
}

// Store defines the interface for audit and observation storage
type Store interface {
	// Resize history
	RecordResize(record *types.ResizeRecord) error
	ListResizes(nodePoolID string) ([]*types.ResizeRecord, error)
	ListAllResizes() ([]*types.ResizeRecord, error)

	// Observed sizes
	SetObservedSize(nodePoolID string, size int, seenAt time.Time) error
	GetObservedSize(nodePoolID string) (*ObservedSize, error)

	// Utility
	Close() error
}
