package cronspec

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Field bounds for the five cron-style components
const (
	MinuteLow, MinuteHigh = 0, 59
	HourLow, HourHigh     = 0, 59
	DayLow, DayHigh       = 1, 31
	MonthLow, MonthHigh   = 1, 12
	DowLow, DowHigh       = 0, 6 // Sunday = 0
)

// FieldSpec is the parsed form of one cron field: the set of allowed
// integers within the field's bounds. Immutable once parsed.
type FieldSpec struct {
	values  map[int]bool
	lowest  int
	highest int
}

// ParseField parses one cron-style field expression into a FieldSpec.
//
// Grammar: comma-separated entries, each a range with an optional step.
// A range is "*" (the full bounded span), a single value, or "low-high"
// inclusive. "/step" selects every step-th value starting at the range's
// low bound. Results of all entries are unioned.
func ParseField(text string, lowest, highest int) (FieldSpec, error) {
	spec := FieldSpec{
		values:  make(map[int]bool),
		lowest:  lowest,
		highest: highest,
	}

	for _, entry := range strings.Split(text, ",") {
		low, high, step, err := parseEntry(entry, lowest, highest)
		if err != nil {
			return FieldSpec{}, err
		}
		for v := low; v <= high; v += step {
			spec.values[v] = true
		}
	}

	if len(spec.values) == 0 {
		return FieldSpec{}, fmt.Errorf("field %q matches no values", text)
	}
	return spec, nil
}

// parseEntry parses one comma-separated entry into its expanded bounds
// and step.
func parseEntry(entry string, lowest, highest int) (low, high, step int, err error) {
	parts := strings.Split(entry, "/")
	rangeText := parts[0]
	step = 1
	switch len(parts) {
	case 1:
	case 2:
		step, err = parseValue(parts[1], 1, highest)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("invalid step in entry %q: %w", entry, err)
		}
	default:
		return 0, 0, 0, fmt.Errorf("invalid entry %q: more than one step separator", entry)
	}

	if rangeText == "*" {
		return lowest, highest, step, nil
	}

	bounds := strings.Split(rangeText, "-")
	switch len(bounds) {
	case 1:
		low, err = parseValue(bounds[0], lowest, highest)
		if err != nil {
			return 0, 0, 0, err
		}
		high = low
	case 2:
		low, err = parseValue(bounds[0], lowest, highest)
		if err != nil {
			return 0, 0, 0, err
		}
		high, err = parseValue(bounds[1], lowest, highest)
		if err != nil {
			return 0, 0, 0, err
		}
		if low > high {
			return 0, 0, 0, fmt.Errorf("invalid range %d-%d: low bound above high bound", low, high)
		}
	default:
		return 0, 0, 0, fmt.Errorf("invalid entry %q: more than one range separator", entry)
	}
	return low, high, step, nil
}

// parseValue parses a single integer literal and checks it against the
// inclusive bounds.
func parseValue(text string, lowest, highest int) (int, error) {
	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid field value %q: not an integer", text)
	}
	if value < lowest || value > highest {
		return 0, fmt.Errorf("invalid field value %d: outside %d-%d", value, lowest, highest)
	}
	return value, nil
}

// Contains reports whether the value is a member of the field set
func (f FieldSpec) Contains(value int) bool {
	return f.values[value]
}

// Values returns the members of the field set in ascending order
func (f FieldSpec) Values() []int {
	values := make([]int, 0, len(f.values))
	for v := range f.values {
		values = append(values, v)
	}
	sort.Ints(values)
	return values
}

func (f FieldSpec) String() string {
	values := f.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// WindowSpec is a five-field point-in-time matcher parsed from a
// cron-style expression "minute hour day month dow".
type WindowSpec struct {
	Minute FieldSpec
	Hour   FieldSpec
	Day    FieldSpec
	Month  FieldSpec
	Dow    FieldSpec
}

// ParseWindowSpec parses a five-field cron expression
func ParseWindowSpec(expr string) (WindowSpec, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return WindowSpec{}, fmt.Errorf("invalid cron expression %q: expected 5 fields, got %d", expr, len(fields))
	}

	var spec WindowSpec
	var err error
	parse := func(name, text string, lowest, highest int) FieldSpec {
		if err != nil {
			return FieldSpec{}
		}
		field, perr := ParseField(text, lowest, highest)
		if perr != nil {
			err = fmt.Errorf("invalid %s field: %w", name, perr)
		}
		return field
	}

	spec.Minute = parse("minute", fields[0], MinuteLow, MinuteHigh)
	spec.Hour = parse("hour", fields[1], HourLow, HourHigh)
	spec.Day = parse("day", fields[2], DayLow, DayHigh)
	spec.Month = parse("month", fields[3], MonthLow, MonthHigh)
	spec.Dow = parse("day-of-week", fields[4], DowLow, DowHigh)
	if err != nil {
		return WindowSpec{}, err
	}
	return spec, nil
}

// Matches reports whether the instant satisfies all five fields at
// once. Day-of-month and day-of-week are both required to match; this
// conjunction is intentional and differs from traditional cron, which
// ORs the two when both are restricted.
func (s WindowSpec) Matches(t time.Time) bool {
	return s.Minute.Contains(t.Minute()) &&
		s.Hour.Contains(t.Hour()) &&
		s.Day.Contains(t.Day()) &&
		s.Month.Contains(int(t.Month())) &&
		s.Dow.Contains(int(t.Weekday()))
}

func (s WindowSpec) String() string {
	return fmt.Sprintf("%s %s %s %s %s", s.Minute, s.Hour, s.Day, s.Month, s.Dow)
}
