package grid

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourGrid(t *testing.T) *Grid {
	t.Helper()
	start, end := NewClock(11, 0), NewClock(13, 0)
	g, err := New("room", []time.Time{feb10}, &start, &end, time.Hour)
	require.NoError(t, err)
	return g
}

func slotAt(t *testing.T, g *Grid, sel Selection) *TimeSlot {
	t.Helper()
	s, err := g.Slot(sel)
	require.NoError(t, err)
	return s
}

func TestApply_AddsParticipant(t *testing.T) {
	g := hourGrid(t)

	changes, err := g.Apply("Alice", nil, Submission{Selections: []Selection{At(feb10, NewClock(12, 0))}})
	require.NoError(t, err)

	noon := slotAt(t, g, At(feb10, NewClock(12, 0)))
	assert.Equal(t, 1, noon.Count())
	assert.Equal(t, []string{"Alice"}, noon.Names())
	assert.Equal(t, 0, slotAt(t, g, At(feb10, NewClock(11, 0))).Count())

	require.Len(t, changes, 1)
	assert.Equal(t, "12:00", changes[0].Time.String())
	assert.Equal(t, 1, changes[0].Count)
	assert.Equal(t, []string{"Alice"}, changes[0].Names)
}

func TestApply_ReplacesPreviousSubmission(t *testing.T) {
	g := hourGrid(t)
	first := Submission{Selections: []Selection{At(feb10, NewClock(12, 0))}}
	_, err := g.Apply("Alice", nil, first)
	require.NoError(t, err)

	changes, err := g.Apply("Alice", &first, Submission{Selections: []Selection{At(feb10, NewClock(11, 0))}})
	require.NoError(t, err)

	assert.Equal(t, 0, slotAt(t, g, At(feb10, NewClock(12, 0))).Count())
	assert.Equal(t, 1, slotAt(t, g, At(feb10, NewClock(11, 0))).Count())
	assert.Len(t, changes, 2)
}

func TestApply_UnknownDateLeavesGridUntouched(t *testing.T) {
	g := hourGrid(t)
	_, err := g.Apply("Alice", nil, Submission{Selections: []Selection{At(feb10, NewClock(12, 0))}})
	require.NoError(t, err)
	before := g.Project()

	_, err = g.Apply("Alice", nil, Submission{Selections: []Selection{
		At(feb10, NewClock(11, 0)),
		At(feb11, NewClock(11, 0)),
	}})

	require.ErrorIs(t, err, ErrUnknownDate)
	assert.True(t, IsValidationError(err))
	var selErr *SelectionError
	require.ErrorAs(t, err, &selErr)
	assert.Equal(t, "2023-02-11 11:00", selErr.Selection.String())
	assert.Equal(t, before, g.Project())
}

func TestApply_ValidationErrors(t *testing.T) {
	start, end := NewClock(11, 0), NewClock(13, 0)
	timed, err := New("room", []time.Time{feb10}, &start, &end, 30*time.Minute)
	require.NoError(t, err)
	whole, err := New("room", []time.Time{feb10}, nil, nil, 0)
	require.NoError(t, err)

	tests := []struct {
		name string
		g    *Grid
		sel  Selection
		want error
	}{
		{"unknown date", timed, At(feb09, NewClock(11, 0)), ErrUnknownDate},
		{"between ticks", timed, At(feb10, NewClock(11, 15)), ErrMisalignedTime},
		{"before window", timed, At(feb10, NewClock(10, 30)), ErrMisalignedTime},
		{"window end is exclusive", timed, At(feb10, NewClock(13, 0)), ErrMisalignedTime},
		{"whole day on timed grid", timed, WholeDay(feb10), ErrGranularityMismatch},
		{"time on whole-day grid", whole, At(feb10, NewClock(11, 0)), ErrGranularityMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.g.Apply("Alice", nil, Submission{Selections: []Selection{tt.sel}})
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, tt.g.Participants())
		})
	}
}

func TestApply_EmptyName(t *testing.T) {
	g := hourGrid(t)
	_, err := g.Apply("  ", nil, Submission{Selections: []Selection{At(feb10, NewClock(11, 0))}})
	require.ErrorIs(t, err, ErrEmptyParticipant)
}

func TestApply_EmptySubmissionClearsEveryDate(t *testing.T) {
	g, err := New("room", []time.Time{feb09, feb10}, nil, nil, 0)
	require.NoError(t, err)
	_, err = g.Apply("Alice", nil, Submission{Selections: []Selection{WholeDay(feb09), WholeDay(feb10)}})
	require.NoError(t, err)

	_, err = g.Apply("Alice", nil, Submission{Selections: []Selection{WholeDay(feb10)}})
	require.NoError(t, err)
	assert.Equal(t, 0, slotAt(t, g, WholeDay(feb09)).Count())
	assert.Equal(t, 1, slotAt(t, g, WholeDay(feb10)).Count())

	changes, err := g.Apply("Alice", nil, Submission{})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Empty(t, g.CurrentSubmission("Alice").Selections)
}

func TestApply_DuplicateSelectionsAreOneMembership(t *testing.T) {
	g := hourGrid(t)
	noon := At(feb10, NewClock(12, 0))

	_, err := g.Apply("Alice", nil, Submission{Selections: []Selection{noon, noon}})
	require.NoError(t, err)

	assert.Equal(t, 1, slotAt(t, g, noon).Count())
}

func TestApply_StalePreviousIsIgnored(t *testing.T) {
	g := hourGrid(t)
	_, err := g.Apply("Alice", nil, Submission{Selections: []Selection{At(feb10, NewClock(11, 0))}})
	require.NoError(t, err)

	stale := Submission{Selections: []Selection{At(feb10, NewClock(12, 0))}}
	_, err = g.Apply("Alice", &stale, Submission{})
	require.NoError(t, err)

	assert.Empty(t, g.Participants())
}

func TestApply_ChangesDoNotAliasGrid(t *testing.T) {
	g := hourGrid(t)
	noon := At(feb10, NewClock(12, 0))

	changes, err := g.Apply("Alice", nil, Submission{Selections: []Selection{noon}})
	require.NoError(t, err)
	require.Len(t, changes, 1)
	*changes[0].Time = NewClock(11, 0)

	rows := g.Rows()
	*rows[0].Slots[1].Time = NewClock(11, 0)
	rows[0].Slots[0].add("Mallory")

	row, ok := g.Row(feb10)
	require.True(t, ok)
	assert.Equal(t, NewClock(11, 0), *row.Slots[0].Time)
	assert.Equal(t, NewClock(12, 0), *row.Slots[1].Time)
	assert.Equal(t, []int{0, 1}, counts(g))
	assert.True(t, g.CurrentSubmission("Alice").Equal(Submission{Selections: []Selection{noon}}))
}

func TestRestore_RoundTripsRecords(t *testing.T) {
	g := hourGrid(t)
	_, err := g.Apply("Alice", nil, Submission{Selections: []Selection{At(feb10, NewClock(12, 0))}})
	require.NoError(t, err)
	_, err = g.Apply("Bob", nil, Submission{Selections: []Selection{At(feb10, NewClock(11, 0)), At(feb10, NewClock(12, 0))}})
	require.NoError(t, err)

	restored, err := Restore(g.RoomID, g.Dates(), g.Start, g.End, g.Tick, g.Records())
	require.NoError(t, err)

	assert.Equal(t, g.Project(), restored.Project())
	assert.Equal(t, []string{"Alice", "Bob"}, restored.Participants())
}

func TestRestore_RejectsForeignRecord(t *testing.T) {
	start, end := NewClock(11, 0), NewClock(13, 0)
	_, err := Restore("room", []time.Time{feb10}, &start, &end, time.Hour, []SlotRecord{
		{Date: feb11, Time: ClockPtr(NewClock(11, 0)), Names: []string{"Alice"}},
	})
	require.ErrorIs(t, err, ErrUnknownDate)
}

// randomSubmission picks a random subset of the slots of g.
func randomSubmission(r *rand.Rand, g *Grid) Submission {
	var sub Submission
	for _, row := range g.Rows() {
		for _, slot := range row.Slots {
			if r.Intn(3) == 0 {
				sub.Selections = append(sub.Selections, Selection{Date: row.Date, Time: slot.Time})
			}
		}
	}
	r.Shuffle(len(sub.Selections), func(i, j int) {
		sub.Selections[i], sub.Selections[j] = sub.Selections[j], sub.Selections[i]
	})
	return sub
}

func memberships(g *Grid, name string) map[string]bool {
	out := make(map[string]bool)
	for _, row := range g.Rows() {
		for _, slot := range row.Slots {
			out[Selection{Date: row.Date, Time: slot.Time}.String()] = slot.Has(name)
		}
	}
	return out
}

func TestApply_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	start, end := NewClock(9, 0), NewClock(18, 0)
	names := []string{"Alice", "Bob", "Carol", "Dave"}

	for _, window := range []struct {
		name       string
		start, end *Clock
	}{
		{"whole day", nil, nil},
		{"timed", &start, &end},
	} {
		t.Run(window.name, func(t *testing.T) {
			g, err := New("room", []time.Time{feb09, feb10, feb11}, window.start, window.end, 0)
			require.NoError(t, err)

			for i := 0; i < 200; i++ {
				p := names[r.Intn(len(names))]
				next := randomSubmission(r, g)

				others := make(map[string]map[string]bool)
				for _, q := range names {
					if q != p {
						others[q] = memberships(g, q)
					}
				}
				prev := g.CurrentSubmission(p)

				_, err := g.Apply(p, &prev, next)
				require.NoError(t, err)

				// round trip
				require.True(t, next.Equal(g.CurrentSubmission(p)))

				// isolation across participants
				for q, before := range others {
					require.Equal(t, before, memberships(g, q))
				}

				// idempotence
				snapshot := g.Project()
				changes, err := g.Apply(p, &next, next)
				require.NoError(t, err)
				require.Empty(t, changes)
				require.Equal(t, snapshot, g.Project())

				// count consistency
				for _, day := range g.Project() {
					for _, s := range day.Slots {
						require.Equal(t, len(s.Names), s.Count)
					}
				}
			}
		})
	}
}
