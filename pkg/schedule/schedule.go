package schedule

import (
	"time"

	"github.com/valkolaci/poolsched/pkg/cronspec"
)

// scanHorizon bounds the backward activity scan to slightly over one
// year of minutes. Windows that recur less often than that are out of
// scope.
const scanHorizon = 366 * 24 * 60

// WindowEntry defines one recurring capacity window: the pool is held
// at Size from a minute matching Start until a minute matching End.
type WindowEntry struct {
	Size  int
	Start cronspec.WindowSpec
	End   cronspec.WindowSpec
}

// ActiveAt reports whether the window is open at the given instant.
//
// The entry describes a recurring interval, not a single point: it is
// open at t if the nearest boundary event at or before t is a start
// match rather than an end match. The scan walks minute-granularity
// instants backward from t and stops at the first boundary found:
//
//   - a start match opens the window (and wins when start and end
//     match the same minute),
//   - an end match strictly before t's minute closes it,
//   - no boundary within the horizon means the window never opened.
//
// The instant must already be in the configuration timezone; field
// matching follows t's location.
func (e WindowEntry) ActiveAt(t time.Time) bool {
	now := t.Truncate(time.Minute)
	m := now
	for i := 0; i < scanHorizon; i++ {
		if e.Start.Matches(m) {
			return true
		}
		if m.Before(now) && e.End.Matches(m) {
			return false
		}
		m = m.Add(-time.Minute)
	}
	return false
}

// Schedule is an ordered list of capacity windows. Order is
// significant: the first active window decides the size.
type Schedule struct {
	Entries []WindowEntry
}

// Evaluate returns the size of the first active window at the given
// instant. The second return is false when no window is active and the
// schedule places no constraint on the pool.
func (s Schedule) Evaluate(t time.Time) (int, bool) {
	for _, entry := range s.Entries {
		if entry.ActiveAt(t) {
			return entry.Size, true
		}
	}
	return 0, false
}

// Catalog maps schedule names to schedules. Names are unique within
// one configuration snapshot; an empty schedule never activates.
type Catalog map[string]Schedule

// Lookup returns the named schedule
func (c Catalog) Lookup(name string) (Schedule, bool) {
	s, ok := c[name]
	return s, ok
}
