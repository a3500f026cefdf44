package grid

import (
	"sort"
	"time"
)

// Selection is one (date, time-or-whole-day) pair. A nil Time selects the whole day.
type Selection struct {
	Date time.Time
	Time *Clock
}

// WholeDay selects an entire date.
func WholeDay(date time.Time) Selection {
	return Selection{Date: DateOf(date)}
}

// At selects the slot starting at c on date.
func At(date time.Time, c Clock) Selection {
	return Selection{Date: DateOf(date), Time: ClockPtr(c)}
}

// IsWholeDay reports whether s carries no time of day.
func (s Selection) IsWholeDay() bool {
	return s.Time == nil
}

func (s Selection) String() string {
	if s.Time == nil {
		return dateKey(s.Date)
	}
	return dateKey(s.Date) + " " + s.Time.String()
}

// Submission is the set of slots a participant is available in.
type Submission struct {
	ParticipantName string
	Selections      []Selection
}

// Keys returns the distinct selections of s in a stable order.
func (s Submission) Keys() []string {
	seen := make(map[string]struct{}, len(s.Selections))
	keys := make([]string, 0, len(s.Selections))
	for _, sel := range s.Selections {
		k := sel.String()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether s and o select the same set of slots.
// Order and duplicates are ignored, participant names are not compared.
func (s Submission) Equal(o Submission) bool {
	a, b := s.Keys(), o.Keys()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsEmpty reports whether s selects nothing.
func (s Submission) IsEmpty() bool {
	return len(s.Selections) == 0
}
