package grid

import (
	"fmt"
	"sort"
	"time"
)

// SlotSummary is the read-side view of one slot.
type SlotSummary struct {
	Time  *Clock
	Count int
	Names []string
}

// DaySummary is the read-side view of one date.
type DaySummary struct {
	Date  time.Time
	Slots []SlotSummary
}

// Project copies the grid into per-date summaries, in room date order.
func (g *Grid) Project() []DaySummary {
	days := make([]DaySummary, 0, len(g.rows))
	for _, row := range g.rows {
		day := DaySummary{Date: row.Date, Slots: make([]SlotSummary, 0, len(row.Slots))}
		for _, slot := range row.Slots {
			day.Slots = append(day.Slots, SlotSummary{
				Time:  copyClock(slot.Time),
				Count: slot.Count(),
				Names: slot.Names(),
			})
		}
		days = append(days, day)
	}
	return days
}

// CurrentSubmission rebuilds the submission of name from slot memberships.
func (g *Grid) CurrentSubmission(name string) Submission {
	sub := Submission{ParticipantName: name}
	for _, row := range g.rows {
		for _, slot := range row.Slots {
			if slot.Has(name) {
				sub.Selections = append(sub.Selections, Selection{Date: row.Date, Time: copyClock(slot.Time)})
			}
		}
	}
	return sub
}

// Participants returns every name present in at least one slot, sorted.
func (g *Grid) Participants() []string {
	seen := make(map[string]struct{})
	for _, row := range g.rows {
		for _, slot := range row.Slots {
			for n := range slot.names {
				seen[n] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SlotRecord is the persisted form of one slot.
type SlotRecord struct {
	Date  time.Time
	Time  *Clock
	Names []string
}

// Records flattens the grid into one record per slot, in grid order.
func (g *Grid) Records() []SlotRecord {
	records := make([]SlotRecord, 0, g.SlotCount())
	for _, row := range g.rows {
		for _, slot := range row.Slots {
			records = append(records, SlotRecord{
				Date:  row.Date,
				Time:  copyClock(slot.Time),
				Names: slot.Names(),
			})
		}
	}
	return records
}

// ChangeRecords converts Apply output into slot records.
func ChangeRecords(changes []SlotChange) []SlotRecord {
	records := make([]SlotRecord, 0, len(changes))
	for _, c := range changes {
		records = append(records, SlotRecord{Date: c.Date, Time: copyClock(c.Time), Names: c.Names})
	}
	return records
}

// Restore rebuilds a grid from the room parameters and stored slot records.
// Slots without a record stay empty. A record that does not match a slot of
// the room is an error.
func Restore(roomID string, dates []time.Time, start, end *Clock, tick time.Duration, records []SlotRecord) (*Grid, error) {
	g, err := New(roomID, dates, start, end, tick)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		slot, err := g.resolve(Selection{Date: rec.Date, Time: rec.Time})
		if err != nil {
			return nil, fmt.Errorf("restore slot: %w", err)
		}
		for _, n := range rec.Names {
			slot.add(n)
		}
	}

	return g, nil
}

func copyClock(c *Clock) *Clock {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
