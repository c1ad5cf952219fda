package config

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/valkolaci/poolsched/pkg/schedule"
	"github.com/valkolaci/poolsched/pkg/types"
)

// Snapshot is one fully validated configuration generation. It is
// immutable after construction; a reload produces a new Snapshot and
// never touches an existing one, so any number of concurrent
// resolutions can share a snapshot without locking.
type Snapshot struct {
	Location   *time.Location
	Catalog    schedule.Catalog
	Rules      []types.Rule
	Exceptions []types.Exception
}

// Now returns the current instant in the snapshot's timezone
func (s *Snapshot) Now() time.Time {
	return time.Now().In(s.Location)
}

// Dump renders the snapshot for the validate command
func (s *Snapshot) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "timezone=%s\n", s.Location)

	names := make([]string, 0, len(s.Catalog))
	for name := range s.Catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "schedule %s:\n", name)
		for _, entry := range s.Catalog[name].Entries {
			fmt.Fprintf(&b, "  size=%d start=%q end=%q\n", entry.Size, entry.Start, entry.End)
		}
	}

	for i, rule := range s.Rules {
		fmt.Fprintf(&b, "rule[%d]: schedule=%s compartment=%q cluster=%q nodepool=%q\n",
			i+1, rule.Schedule, rule.Filter.Compartment, rule.Filter.Cluster, rule.Filter.NodePool)
	}

	for i, exc := range s.Exceptions {
		size := "on"
		if exc.Size != nil {
			size = fmt.Sprintf("%d", *exc.Size)
		}
		fmt.Fprintf(&b, "exception[%d]: start=%s end=%s compartment=%q cluster=%q nodepool=%q size=%s comment=%q\n",
			i+1, formatBound(exc.Start), formatBound(exc.End),
			exc.Filter.Compartment, exc.Filter.Cluster, exc.Filter.NodePool, size, exc.Comment)
	}
	return b.String()
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

// Store hands out the current Snapshot and swaps in replacements
// atomically. Readers that already hold a snapshot keep resolving
// against it; a swap never mixes two generations.
type Store struct {
	snap atomic.Pointer[Snapshot]
}

// NewStore creates a store seeded with the given snapshot
func NewStore(snap *Snapshot) *Store {
	s := &Store{}
	s.snap.Store(snap)
	return s
}

// Snapshot returns the current configuration generation
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Swap replaces the current generation wholesale
func (s *Store) Swap(snap *Snapshot) {
	s.snap.Store(snap)
}
