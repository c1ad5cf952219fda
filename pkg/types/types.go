package types

import (
	"fmt"
	"time"
)

// Target identifies one managed node pool by its compartment path,
// cluster name and node pool name.
type Target struct {
	Compartment string
	Cluster     string
	NodePool    string
}

func (t Target) String() string {
	return fmt.Sprintf("%s/%s/%s", t.Compartment, t.Cluster, t.NodePool)
}

// DecisionAction defines what the actuator should do with a target
type DecisionAction string

const (
	ActionNone    DecisionAction = "none"
	ActionSetSize DecisionAction = "set-size"
)

// Decision is the resolver's verdict for one target at one instant
type Decision struct {
	Action DecisionAction
	Size   int    // desired size, valid only when Action == ActionSetSize
	Reason string // human-readable origin of the decision
}

// NoAction returns a decision that leaves the target untouched
func NoAction(reason string) Decision {
	return Decision{Action: ActionNone, Reason: reason}
}

// SetSize returns a decision that enforces the given size
func SetSize(size int, reason string) Decision {
	return Decision{Action: ActionSetSize, Size: size, Reason: reason}
}

func (d Decision) String() string {
	if d.Action == ActionSetSize {
		return fmt.Sprintf("set-size(%d): %s", d.Size, d.Reason)
	}
	return fmt.Sprintf("no-action: %s", d.Reason)
}

// TargetFilter selects targets by exact identity match. An empty field
// matches any value.
type TargetFilter struct {
	Compartment string
	Cluster     string
	NodePool    string
}

// Matches reports whether the filter selects the given target. Every
// non-empty filter field must equal the target's field exactly.
func (f TargetFilter) Matches(target Target) bool {
	if f.Compartment != "" && f.Compartment != target.Compartment {
		return false
	}
	if f.Cluster != "" && f.Cluster != target.Cluster {
		return false
	}
	if f.NodePool != "" && f.NodePool != target.NodePool {
		return false
	}
	return true
}

// Rule binds a target filter to a named schedule. The first rule whose
// filter matches a target selects the schedule that governs it.
type Rule struct {
	Filter   TargetFilter
	Schedule string
}

// Exception is a time-bounded, filter-scoped override that preempts
// rule and schedule resolution. A nil Size suspends management for the
// duration instead of forcing a size; Size 0 is a real override.
type Exception struct {
	Filter  TargetFilter
	Start   *time.Time // nil means unbounded
	End     *time.Time // nil means unbounded
	Size    *int       // nil means no override
	Comment string
}

// Matches reports whether the exception applies to the target at the
// given instant. Both time bounds are inclusive.
func (e Exception) Matches(target Target, at time.Time) bool {
	if !e.Filter.Matches(target) {
		return false
	}
	if e.Start != nil && at.Before(*e.Start) {
		return false
	}
	if e.End != nil && at.After(*e.End) {
		return false
	}
	return true
}

// Compartment is one entry of the tenancy compartment tree
type Compartment struct {
	ID       string
	Name     string
	ParentID string
	Path     string // slash-joined path from the tenancy root, e.g. "enap/cmp-tst"
}

// Cluster is one OKE cluster within a compartment
type Cluster struct {
	ID          string
	Name        string
	Compartment string // compartment path
}

// NodePool is one node pool of a cluster, with its live size
type NodePool struct {
	ID          string
	Name        string
	Compartment string // compartment path
	Cluster     string // cluster name
	Size        int
}

// Target returns the resolution identity of the node pool
func (n NodePool) Target() Target {
	return Target{Compartment: n.Compartment, Cluster: n.Cluster, NodePool: n.Name}
}

// ResizeRecord is one audit entry written after an applied (or dry-run)
// resize
type ResizeRecord struct {
	ID         string
	NodePoolID string
	Target     Target
	FromSize   int
	ToSize     int
	Reason     string
	DryRun     bool
	AppliedAt  time.Time
}
