package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/modutime/scheduler_bot/internal/grid"
	"github.com/modutime/scheduler_bot/internal/service"
)

var errEmptyInput = errors.New("empty input")

// fieldsFunc splits on whitespace and commas
func fieldsFunc(r rune) bool {
	return unicode.IsSpace(r) || r == ','
}

// parseSelections reads "2023-02-10 11:00 11:30; 2023-02-11".
// Each group is a date followed by zero or more slot starts; a bare date
// selects the whole day. Groups are separated by ';' or new lines.
func parseSelections(text string) ([]grid.Selection, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyInput
	}
	if strings.EqualFold(text, clearSelections) {
		return []grid.Selection{}, nil
	}

	groups := strings.FieldsFunc(text, func(r rune) bool { return r == ';' || r == '\n' })

	var selections []grid.Selection
	for _, group := range groups {
		fields := strings.FieldsFunc(group, fieldsFunc)
		if len(fields) == 0 {
			continue
		}

		date, err := grid.ParseDate(fields[0])
		if err != nil {
			return nil, err
		}

		if len(fields) == 1 {
			selections = append(selections, grid.WholeDay(date))
			continue
		}
		for _, f := range fields[1:] {
			c, err := grid.ParseClock(f)
			if err != nil {
				return nil, err
			}
			selections = append(selections, grid.At(date, c))
		}
	}

	if len(selections) == 0 {
		return nil, errEmptyInput
	}
	return selections, nil
}

// parseDates reads dates separated by spaces or commas. "A..B" expands to
// every day from A to B inclusive.
func parseDates(text string) ([]time.Time, error) {
	fields := strings.FieldsFunc(text, fieldsFunc)
	if len(fields) == 0 {
		return nil, errEmptyInput
	}

	var dates []time.Time
	for _, f := range fields {
		from, to, isRange := strings.Cut(f, "..")
		if !isRange {
			d, err := grid.ParseDate(f)
			if err != nil {
				return nil, err
			}
			dates = append(dates, d)
			continue
		}

		start, err := grid.ParseDate(from)
		if err != nil {
			return nil, err
		}
		end, err := grid.ParseDate(to)
		if err != nil {
			return nil, err
		}
		if end.Before(start) {
			return nil, fmt.Errorf("range %s ends before it starts", f)
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
			if len(dates) > RoomMaxDates {
				break
			}
		}
	}

	if len(dates) > RoomMaxDates {
		return nil, fmt.Errorf("at most %d dates per room", RoomMaxDates)
	}
	return dates, nil
}

// parseWindow reads "11:00-13:00" with an optional slot length in minutes,
// "11:00-13:00 60". "-" means whole-day slots and yields nil bounds.
func parseWindow(text string) (start, end *grid.Clock, tick time.Duration, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, 0, errEmptyInput
	}
	if text == skipInput {
		return nil, nil, 0, nil
	}

	fields := strings.Fields(text)
	if len(fields) > 2 {
		return nil, nil, 0, fmt.Errorf("unexpected %q", strings.Join(fields[2:], " "))
	}

	from, to, ok := strings.Cut(fields[0], "-")
	if !ok {
		return nil, nil, 0, fmt.Errorf("window %q: expected HH:MM-HH:MM", fields[0])
	}
	s, err := grid.ParseClock(from)
	if err != nil {
		return nil, nil, 0, err
	}
	e, err := grid.ParseClock(to)
	if err != nil {
		return nil, nil, 0, err
	}

	if len(fields) == 2 {
		minutes, err := strconv.Atoi(fields[1])
		if err != nil || minutes <= 0 {
			return nil, nil, 0, fmt.Errorf("slot length %q: expected minutes", fields[1])
		}
		tick = time.Duration(minutes) * time.Minute
	}

	return &s, &e, tick, nil
}

// parseLimits reads the deadline and head count of a room: "1d 2h 30m 10"
// closes voting in a day, two hours and a half and accepts 10 participants.
// Every part is optional; "-" sets none.
func parseLimits(text string) (*service.Timer, *int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, errEmptyInput
	}
	if text == skipInput {
		return nil, nil, nil
	}

	var (
		timer     service.Timer
		hasTimer  bool
		headCount *int
	)
	for _, f := range strings.FieldsFunc(strings.ToLower(text), fieldsFunc) {
		if n, err := strconv.Atoi(f); err == nil {
			if headCount != nil {
				return nil, nil, fmt.Errorf("head count given twice")
			}
			headCount = &n
			continue
		}

		unit := f[len(f)-1]
		n, err := strconv.Atoi(f[:len(f)-1])
		if err != nil || n < 0 {
			return nil, nil, fmt.Errorf("cannot read %q", f)
		}
		switch unit {
		case 'd':
			timer.Day = n
		case 'h':
			timer.Hour = n
		case 'm':
			timer.Minute = n
		default:
			return nil, nil, fmt.Errorf("cannot read %q", f)
		}
		hasTimer = true
	}

	if timer.Day > TimerMaxDays {
		return nil, nil, fmt.Errorf("deadline is limited to %d days", TimerMaxDays)
	}
	if !hasTimer {
		return nil, headCount, nil
	}
	return &timer, headCount, nil
}

// parseJoinArgs splits "<room> <name...> <pin>". The name may contain spaces.
func parseJoinArgs(args string) (room, name, pin string, err error) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "", "", "", errEmptyInput
	}
	return fields[0], strings.Join(fields[1:len(fields)-1], " "), fields[len(fields)-1], nil
}

// splitCommand returns the command without the leading slash and bot mention,
// and the rest of the message.
func splitCommand(text string) (cmd, args string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	head, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		head, rest = text[:i], text[i:]
	}
	head, _, _ = strings.Cut(head[1:], "@")
	return strings.ToLower(head), strings.TrimSpace(rest)
}
