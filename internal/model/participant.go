package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	pinPattern   = regexp.MustCompile(`^[0-9]{4}$`)
	emailPattern = regexp.MustCompile(`^[_a-z0-9-]+(.[_a-z0-9-]+)*@(?:\w+\.)+\w+$`)
)

// Participant is a named contributor of availability within one room.
type Participant struct {
	ID           int64     `json:"id"`
	RoomID       uuid.UUID `json:"room_id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Email        *string   `json:"email"`
	TelegramID   int64     `json:"telegram_id"` // 0 when joined outside telegram
	CreatedAt    time.Time `json:"created_at"`
}

// HasEmail checks if the participant registered an email
func (p *Participant) HasEmail() bool {
	return p.Email != nil
}

// IsValidPIN checks the 4-digit room password format
func IsValidPIN(pin string) bool {
	return pinPattern.MatchString(pin)
}

// IsValidEmail checks the email format accepted for notifications
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
