package handlers

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/modutime/scheduler_bot/internal/grid"
	"github.com/modutime/scheduler_bot/internal/service"
)

func TestUserMessage(t *testing.T) {
	feb12 := time.Date(2023, 2, 12, 0, 0, 0, 0, time.UTC)
	noon := grid.NewClock(12, 15)

	tests := []struct {
		name     string
		err      error
		contains string
		expected bool
	}{
		{
			name:     "unknown date",
			err:      fmt.Errorf("apply availability: %w", &grid.SelectionError{Selection: grid.WholeDay(feb12), Err: grid.ErrUnknownDate}),
			contains: "2023-02-12 is not one of the room dates",
			expected: true,
		},
		{
			name:     "misaligned",
			err:      &grid.SelectionError{Selection: grid.At(feb12, noon), Err: grid.ErrMisalignedTime},
			contains: "2023-02-12 12:15 is not the start of a slot",
			expected: true,
		},
		{
			name:     "whole day in timed room",
			err:      &grid.SelectionError{Selection: grid.WholeDay(feb12), Err: grid.ErrGranularityMismatch},
			contains: "add times",
			expected: true,
		},
		{
			name:     "time in whole-day room",
			err:      &grid.SelectionError{Selection: grid.At(feb12, noon), Err: grid.ErrGranularityMismatch},
			contains: "without times",
			expected: true,
		},
		{
			name:     "configuration",
			err:      fmt.Errorf("create room: %w", grid.ErrInvalidWindow),
			contains: "time window",
			expected: true,
		},
		{
			name:     "closed room",
			err:      service.ErrRoomClosed,
			contains: "closed",
			expected: true,
		},
		{
			name:     "internal",
			err:      errors.New("connection refused"),
			contains: "Something went wrong",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, expected := userMessage(tt.err)
			assert.Contains(t, text, tt.contains)
			assert.Equal(t, tt.expected, expected)
		})
	}
}
