/*
Package schedule turns pairs of cron-style matchers into recurring
capacity windows and evaluates them.

A WindowEntry carries a start matcher, an end matcher and the size to
enforce while the window is open. Windows are expressed the way an
operator thinks about them ("20:00 on the 5th" until "06:00 on the
1st") rather than as explicit date ranges, so membership is computed
with a bounded backward scan: walk minutes back from the queried
instant and let the nearest boundary event decide.

	start, _ := cronspec.ParseWindowSpec("0 20 5 * *")
	end, _ := cronspec.ParseWindowSpec("0 6 1 * *")
	entry := schedule.WindowEntry{Size: 0, Start: start, End: end}
	entry.ActiveAt(now) // open between the 5th 20:00 and the 1st 06:00

The scan is stateless and needs no pre-expanded calendar. Its horizon
is just over one year of minutes; a window whose most recent boundary
lies further back than that is treated as never opened.

A Schedule is an ordered window list (first active wins) and a Catalog
is the name-keyed schedule collection of one configuration snapshot.
*/
package schedule
