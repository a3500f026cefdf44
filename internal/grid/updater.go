package grid

import (
	"strings"
	"time"
)

// SlotChange reports a slot whose membership changed during Apply.
type SlotChange struct {
	Date  time.Time
	Time  *Clock
	Count int
	Names []string
}

// Apply replaces the availability of name with next.
//
// Every selection of next is validated before any slot is touched; one bad
// selection rejects the whole submission and leaves the grid as it was.
// Afterwards name is a member of exactly the slots selected by next, on every
// date of the grid, whatever it was a member of before. previous is not
// consulted: the grid itself is scanned, so a stale or missing previous
// submission cannot leave name behind in a slot.
//
// The returned changes list every slot that gained or lost name, in grid order.
func (g *Grid) Apply(name string, previous *Submission, next Submission) ([]SlotChange, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyParticipant
	}

	selected := make(map[*TimeSlot]struct{}, len(next.Selections))
	for _, sel := range next.Selections {
		slot, err := g.resolve(sel)
		if err != nil {
			return nil, err
		}
		selected[slot] = struct{}{}
	}

	var changes []SlotChange
	for _, row := range g.rows {
		for _, slot := range row.Slots {
			_, want := selected[slot]

			var changed bool
			if want {
				changed = slot.add(name)
			} else {
				changed = slot.remove(name)
			}
			if !changed {
				continue
			}

			changes = append(changes, SlotChange{
				Date:  row.Date,
				Time:  copyClock(slot.Time),
				Count: slot.Count(),
				Names: slot.Names(),
			})
		}
	}

	return changes, nil
}
