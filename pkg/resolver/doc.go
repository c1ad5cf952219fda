/*
Package resolver combines exceptions, rules and schedules into a
single desired-size decision per target.

Decide is the decision core of poolsched: given an immutable
configuration snapshot, a target identity and an instant, it returns
either NoAction or SetSize(n). Exceptions preempt rules, the first
matching rule selects the governing schedule, and the schedule's first
active window dictates the size. The function is pure and lock-free;
the evaluation loop calls it concurrently for every node pool in the
inventory against one shared snapshot.
*/
package resolver
