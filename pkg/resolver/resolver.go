package resolver

import (
	"fmt"
	"time"

	"github.com/valkolaci/poolsched/pkg/config"
	"github.com/valkolaci/poolsched/pkg/types"
)

// ResolveException returns the first exception whose filter matches
// the target and whose time range contains the instant
func ResolveException(exceptions []types.Exception, target types.Target, at time.Time) (types.Exception, bool) {
	for _, exc := range exceptions {
		if exc.Matches(target, at) {
			return exc, true
		}
	}
	return types.Exception{}, false
}

// ResolveSchedule returns the schedule name bound by the first rule
// whose filter matches the target
func ResolveSchedule(rules []types.Rule, target types.Target) (string, bool) {
	for _, rule := range rules {
		if rule.Filter.Matches(target) {
			return rule.Schedule, true
		}
	}
	return "", false
}

// Decide resolves the desired size for one target at one instant.
//
// Precedence is exceptions, then rules, then schedules:
//
//  1. A matching exception short-circuits everything. With a size it
//     forces that size; without one it suspends management for the
//     duration of the exception.
//  2. Without a matching rule the target is unmanaged.
//  3. Otherwise the rule's schedule is evaluated; the first active
//     window forces its size. No active window leaves the pool at its
//     current size: schedules only force down, restoring the normal
//     size after a window closes is an operational concern.
//
// Decide is a pure function of its arguments; it performs no I/O and
// mutates nothing, so any number of calls may run concurrently
// against the same snapshot.
func Decide(snap *config.Snapshot, target types.Target, at time.Time) types.Decision {
	at = at.In(snap.Location)

	if exc, ok := ResolveException(snap.Exceptions, target, at); ok {
		if exc.Size != nil {
			return types.SetSize(*exc.Size, exceptionReason(exc))
		}
		return types.NoAction(exceptionReason(exc) + ": management suspended")
	}

	name, ok := ResolveSchedule(snap.Rules, target)
	if !ok {
		return types.NoAction("no matching rule")
	}

	sched, ok := snap.Catalog.Lookup(name)
	if !ok {
		// Load-time validation rejects unknown schedule references,
		// so this cannot happen with a snapshot built by pkg/config.
		return types.NoAction(fmt.Sprintf("unknown schedule %q", name))
	}

	if size, active := sched.Evaluate(at); active {
		return types.SetSize(size, fmt.Sprintf("schedule %q window active", name))
	}
	return types.NoAction(fmt.Sprintf("schedule %q has no active window", name))
}

func exceptionReason(exc types.Exception) string {
	if exc.Comment != "" {
		return fmt.Sprintf("exception %q", exc.Comment)
	}
	return "exception"
}
