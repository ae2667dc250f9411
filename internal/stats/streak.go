package stats

import (
	"sort"
	"time"
)

// dayOf truncates a timestamp to its calendar date in the timestamp's
// location. Time-of-day never matters for streaks.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// distinctDays returns the distinct calendar dates in ts, ascending.
func distinctDays(ts []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(ts))
	var days []time.Time
	for _, t := range ts {
		d := dayOf(t)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// LongestStreak returns the longest run of consecutive calendar days with
// at least one entry. A single active day yields 1; no entries yields 0.
func LongestStreak(ts []time.Time) int {
	days := distinctDays(ts)
	if len(days) == 0 {
		return 0
	}
	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}

// ConsecutiveDaysEndingToday returns the length of the run of consecutive
// active days ending on now's calendar date. The streak is 0 the moment a
// day is skipped, including "not yet logged today".
func ConsecutiveDaysEndingToday(ts []time.Time, now time.Time) int {
	days := distinctDays(ts)
	if len(days) == 0 {
		return 0
	}
	today := dayOf(now)
	if !days[len(days)-1].Equal(today) {
		return 0
	}
	count := 1
	for i := len(days) - 1; i > 0; i-- {
		if !days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			break
		}
		count++
	}
	return count
}
