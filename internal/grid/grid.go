// Package grid holds the availability grid of a room: one row per room date,
// one slot per time tick (or a single whole-day slot), and the set of
// participants available in each slot.
//
// A Grid is not safe for concurrent use. Callers serialize mutations per room
// with Locks.
package grid

import (
	"fmt"
	"sort"
	"time"
)

// DefaultTick is the slot resolution used when none is configured.
const DefaultTick = 30 * time.Minute

// Mode is the granularity of every row of a grid.
type Mode int

const (
	ModeWholeDay Mode = iota
	ModeTimeGranular
)

func (m Mode) String() string {
	switch m {
	case ModeWholeDay:
		return "whole_day"
	case ModeTimeGranular:
		return "time_granular"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// TimeSlot is the smallest schedulable unit. Time is nil for a whole-day slot.
type TimeSlot struct {
	Time  *Clock
	names map[string]struct{}
}

func newTimeSlot(t *Clock) *TimeSlot {
	return &TimeSlot{Time: t, names: make(map[string]struct{})}
}

// Count is the number of participants available in the slot.
func (s *TimeSlot) Count() int {
	return len(s.names)
}

// Has reports whether name is available in the slot.
func (s *TimeSlot) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Names returns the participants of the slot, sorted.
func (s *TimeSlot) Names() []string {
	names := make([]string, 0, len(s.names))
	for n := range s.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *TimeSlot) add(name string) bool {
	if s.Has(name) {
		return false
	}
	s.names[name] = struct{}{}
	return true
}

func (s *TimeSlot) clone() *TimeSlot {
	c := newTimeSlot(copyClock(s.Time))
	for n := range s.names {
		c.names[n] = struct{}{}
	}
	return c
}

func (s *TimeSlot) remove(name string) bool {
	if !s.Has(name) {
		return false
	}
	delete(s.names, name)
	return true
}

// DateRow is every slot of one calendar date, ordered by time.
type DateRow struct {
	Date  time.Time
	Slots []*TimeSlot
}

func (r *DateRow) clone() *DateRow {
	c := &DateRow{Date: r.Date, Slots: make([]*TimeSlot, len(r.Slots))}
	for i, s := range r.Slots {
		c.Slots[i] = s.clone()
	}
	return c
}

// Grid is the availability grid of one room.
type Grid struct {
	RoomID string
	Mode   Mode
	Start  *Clock
	End    *Clock
	// Tick is zero for whole-day grids.
	Tick time.Duration

	rows  []*DateRow
	index map[string]int
}

// New builds an empty grid for a room. Both start and end must be given for a
// time-granular grid, neither for a whole-day grid. tick <= 0 means DefaultTick.
func New(roomID string, dates []time.Time, start, end *Clock, tick time.Duration) (*Grid, error) {
	if len(dates) == 0 {
		return nil, ErrEmptyDateList
	}

	g := &Grid{
		RoomID: roomID,
		Mode:   ModeWholeDay,
		rows:   make([]*DateRow, 0, len(dates)),
		index:  make(map[string]int, len(dates)),
	}

	if err := g.setWindow(start, end, tick); err != nil {
		return nil, err
	}

	for _, d := range dates {
		key := dateKey(d)
		if _, dup := g.index[key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDate, key)
		}
		g.index[key] = len(g.rows)
		g.rows = append(g.rows, &DateRow{Date: DateOf(d), Slots: g.emptySlots()})
	}

	return g, nil
}

func (g *Grid) setWindow(start, end *Clock, tick time.Duration) error {
	if start == nil && end == nil {
		return nil
	}
	if start == nil || end == nil {
		return fmt.Errorf("%w: start and end time must be given together", ErrInvalidWindow)
	}
	if !start.Valid() || !end.Valid() || *start == MinutesPerDay {
		return fmt.Errorf("%w: %d..%d is outside of a day", ErrInvalidWindow, int(*start), int(*end))
	}
	if *start >= *end {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidWindow, start, end)
	}

	if tick <= 0 {
		tick = DefaultTick
	}
	window := time.Duration(*end-*start) * time.Minute
	if tick%time.Minute != 0 || tick > window {
		return fmt.Errorf("%w: tick %s does not fit window %s-%s", ErrInvalidWindow, tick, start, end)
	}

	s, e := *start, *end
	g.Mode = ModeTimeGranular
	g.Start = &s
	g.End = &e
	g.Tick = tick
	return nil
}

func (g *Grid) emptySlots() []*TimeSlot {
	if g.Mode == ModeWholeDay {
		return []*TimeSlot{newTimeSlot(nil)}
	}
	step := Clock(g.Tick / time.Minute)
	slots := make([]*TimeSlot, 0, g.TicksPerDay())
	for t := *g.Start; t < *g.End; t += step {
		slots = append(slots, newTimeSlot(ClockPtr(t)))
	}
	return slots
}

// TicksPerDay is the number of slots in every row.
func (g *Grid) TicksPerDay() int {
	if g.Mode == ModeWholeDay {
		return 1
	}
	window := time.Duration(*g.End-*g.Start) * time.Minute
	n := int(window / g.Tick)
	if window%g.Tick != 0 {
		n++
	}
	return n
}

// Rows returns copies of the rows in room date order. Changing them does
// not change the grid.
func (g *Grid) Rows() []*DateRow {
	rows := make([]*DateRow, len(g.rows))
	for i, r := range g.rows {
		rows[i] = r.clone()
	}
	return rows
}

// Dates returns the room dates in their configured order.
func (g *Grid) Dates() []time.Time {
	dates := make([]time.Time, len(g.rows))
	for i, r := range g.rows {
		dates[i] = r.Date
	}
	return dates
}

// Row returns a copy of the row of a calendar date.
func (g *Grid) Row(date time.Time) (*DateRow, bool) {
	r, ok := g.row(date)
	if !ok {
		return nil, false
	}
	return r.clone(), true
}

func (g *Grid) row(date time.Time) (*DateRow, bool) {
	i, ok := g.index[dateKey(date)]
	if !ok {
		return nil, false
	}
	return g.rows[i], true
}

// SlotCount is the total number of slots in the grid.
func (g *Grid) SlotCount() int {
	return len(g.rows) * g.TicksPerDay()
}

// Slot resolves a selection to a copy of its slot.
func (g *Grid) Slot(sel Selection) (*TimeSlot, error) {
	slot, err := g.resolve(sel)
	if err != nil {
		return nil, err
	}
	return slot.clone(), nil
}

func (g *Grid) resolve(sel Selection) (*TimeSlot, error) {
	row, ok := g.row(sel.Date)
	if !ok {
		return nil, &SelectionError{Selection: sel, Err: ErrUnknownDate}
	}

	if g.Mode == ModeWholeDay {
		if sel.Time != nil {
			return nil, &SelectionError{Selection: sel, Err: ErrGranularityMismatch}
		}
		return row.Slots[0], nil
	}

	if sel.Time == nil {
		return nil, &SelectionError{Selection: sel, Err: ErrGranularityMismatch}
	}
	t := *sel.Time
	if t < *g.Start || t >= *g.End {
		return nil, &SelectionError{Selection: sel, Err: ErrMisalignedTime}
	}
	offset := time.Duration(t-*g.Start) * time.Minute
	if offset%g.Tick != 0 {
		return nil, &SelectionError{Selection: sel, Err: ErrMisalignedTime}
	}
	return row.Slots[int(offset/g.Tick)], nil
}
