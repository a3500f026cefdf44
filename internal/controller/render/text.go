// Package render turns room projections into chat text and images.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/modutime/scheduler_bot/internal/grid"
	"github.com/modutime/scheduler_bot/internal/model"
)

const maxNamesPerSlot = 5

var weekdays = map[time.Weekday]string{
	time.Monday:    "Mon",
	time.Tuesday:   "Tue",
	time.Wednesday: "Wed",
	time.Thursday:  "Thu",
	time.Friday:    "Fri",
	time.Saturday:  "Sat",
	time.Sunday:    "Sun",
}

// DateLabel formats a room date as "2023-02-10 Fri".
func DateLabel(d time.Time) string {
	return grid.FormatDate(d) + " " + weekdays[d.Weekday()]
}

// SlotLabel formats the start of a slot, or "all day".
func SlotLabel(c *grid.Clock) string {
	if c == nil {
		return "all day"
	}
	return c.String()
}

// Table renders the per-slot counts of a room, one line per slot.
func Table(room *model.Room, days []grid.DaySummary, participants int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "📊 %s\n", room.Title)
	fmt.Fprintf(&sb, "👥 %d joined", participants)
	if room.HeadCount != nil {
		fmt.Fprintf(&sb, " of %d", *room.HeadCount)
	}
	sb.WriteString("\n")

	for _, day := range days {
		sb.WriteString("\n📅 ")
		sb.WriteString(DateLabel(day.Date))
		sb.WriteString("\n")
		for _, slot := range day.Slots {
			fmt.Fprintf(&sb, "  %-7s %s %d", SlotLabel(slot.Time), bar(slot.Count, participants), slot.Count)
			if len(slot.Names) > 0 {
				sb.WriteString("  ")
				sb.WriteString(names(slot.Names))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// Best returns the slots with the highest non-zero count, in grid order.
func Best(days []grid.DaySummary) []grid.Selection {
	top := 0
	for _, day := range days {
		for _, slot := range day.Slots {
			if slot.Count > top {
				top = slot.Count
			}
		}
	}
	if top == 0 {
		return nil
	}

	var best []grid.Selection
	for _, day := range days {
		for _, slot := range day.Slots {
			if slot.Count == top {
				best = append(best, grid.Selection{Date: day.Date, Time: slot.Time})
			}
		}
	}
	return best
}

// Summary is the closing message of a room: the best slots and the table.
func Summary(room *model.Room, days []grid.DaySummary, participants int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "⏰ Voting is closed for \"%s\"\n\n", room.Title)

	best := Best(days)
	if len(best) == 0 {
		sb.WriteString("Nobody submitted availability.\n")
	} else {
		sb.WriteString("🏆 Best slots:\n")
		for _, sel := range best {
			fmt.Fprintf(&sb, "  • %s %s\n", DateLabel(sel.Date), SlotLabel(sel.Time))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(Table(room, days, participants))
	return sb.String()
}

// Submission lists the selections of one participant grouped by date.
func Submission(sub grid.Submission) string {
	if sub.IsEmpty() {
		return "You have not selected any slot yet."
	}

	var (
		sb   strings.Builder
		last string
	)
	for _, sel := range sub.Selections {
		date := grid.FormatDate(sel.Date)
		if date != last {
			if last != "" {
				sb.WriteString("\n")
			}
			sb.WriteString(date)
			last = date
		}
		if sel.Time != nil {
			sb.WriteString(" ")
			sb.WriteString(sel.Time.String())
		}
	}
	return sb.String()
}

func bar(count, total int) string {
	const width = 8
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := count * width / total
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func names(list []string) string {
	if len(list) <= maxNamesPerSlot {
		return strings.Join(list, ", ")
	}
	return strings.Join(list[:maxNamesPerSlot], ", ") + fmt.Sprintf(" +%d", len(list)-maxNamesPerSlot)
}
