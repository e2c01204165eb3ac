package daterange

import (
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
)

// Category is a named range code. Codes other than the ones declared below
// are carried through untouched and never move the dates.
type Category int

// Range categories
const (
	Unset     Category = -1
	Today     Category = 1
	TodayAM   Category = 2
	TodayPM   Category = 3
	Yesterday Category = 4
	Tomorrow  Category = 5
	ThisWeek  Category = 6
	LastWeek  Category = 7
)

var categoryLabels = map[Category]string{
	Unset:     "Custom",
	Today:     "Today",
	TodayAM:   "Today AM",
	TodayPM:   "Today PM",
	Yesterday: "Yesterday",
	Tomorrow:  "Tomorrow",
	ThisWeek:  "This Week",
	LastWeek:  "Last Week",
}

// Categories returns the range-bearing codes in display order.
func Categories() []Category {
	return []Category{Today, TodayAM, TodayPM, Yesterday, Tomorrow, ThisWeek, LastWeek}
}

func (c Category) String() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return "Category(" + strconv.Itoa(int(c)) + ")"
}

// Rule computes the range a category stands for relative to now.
type Rule func(now time.Time) (from, to time.Time)

// TODO(jask): give TodayAM and TodayPM half-day rules once the host forms
// agree on the noon boundary; both still resolve like Today.
var rules = map[Category]Rule{
	Today:     sameInstant,
	TodayAM:   sameInstant,
	TodayPM:   sameInstant,
	Yesterday: dayOffset(-1),
	Tomorrow:  dayOffset(1),
	ThisWeek:  isoWeek,
	LastWeek:  func(now time.Time) (time.Time, time.Time) { return isoWeek(now.AddDate(0, 0, -7)) },
}

// Resolve returns the range for c at now. ok is false when c does not carry
// a range and the caller must leave its dates alone.
func Resolve(c Category, now time.Time) (from, to time.Time, ok bool) {
	rule, found := rules[c]
	if !found {
		return time.Time{}, time.Time{}, false
	}
	from, to = rule(now)
	return from, to, true
}

// IsRangeBearing reports whether c resolves to a range.
func IsRangeBearing(c Category) bool {
	_, ok := rules[c]
	return ok
}

func sameInstant(now time.Time) (time.Time, time.Time) {
	return now, now
}

func dayOffset(days int) Rule {
	return func(now time.Time) (time.Time, time.Time) {
		d := now.AddDate(0, 0, days)
		return d, d
	}
}

// isoWeek spans Monday 00:00 through the last instant of Sunday.
func isoWeek(now time.Time) (time.Time, time.Time) {
	offset := int(now.Weekday())
	if offset == 0 {
		offset = 7 // Sunday
	}
	start := startOfDay(now).AddDate(0, 0, -(offset - 1))
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	return start, end
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

const maxLabelDistance = 2

// LookupCategory finds a category by label, ignoring case and spacing. When
// nothing matches exactly the closest label within two edits wins.
func LookupCategory(label string) (Category, bool) {
	want := normalizeLabel(label)
	if want == "" {
		return 0, false
	}
	best, bestDist := Category(0), maxLabelDistance+1
	for c, l := range categoryLabels {
		have := normalizeLabel(l)
		if have == want {
			return c, true
		}
		if d := levenshtein.ComputeDistance(want, have); d < bestDist || (d == bestDist && c < best) {
			best, bestDist = c, d
		}
	}
	if bestDist > maxLabelDistance {
		return 0, false
	}
	return best, true
}

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
