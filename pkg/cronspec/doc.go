/*
Package cronspec parses cron-style time field expressions and matches
instants against them.

A FieldSpec is the expanded integer set behind one cron field; a
WindowSpec combines the five fields (minute, hour, day-of-month, month,
day-of-week) into a minute-granularity point-in-time matcher.

# Grammar

	field  = entry ("," entry)*
	entry  = range ("/" step)?
	range  = "*" | value | value "-" value

"*" is the full bounded span of the field, "a-b" is an inclusive range,
and "/n" keeps every n-th value starting at the range's low bound. A
step applies to "*" as well, so stepping over the whole field works:

	spec, err := cronspec.ParseField("0-59/15", 0, 59) // {0,15,30,45}
	spec, err = cronspec.ParseField("1-3,10", 0, 59)   // {1,2,3,10}

# Matching semantics

WindowSpec.Matches requires all five fields to match simultaneously.
Unlike traditional cron, a restricted day-of-month and a restricted
day-of-week are ANDed, not ORed. Schedules in this system rely on that
conjunction; it must not be "fixed" to match cron tools.

Day-of-week uses the Go convention shared with cron: 0 is Sunday.
*/
package cronspec
