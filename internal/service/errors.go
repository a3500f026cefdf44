package service

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomClosed          = errors.New("room is closed")
	ErrRoomFull            = errors.New("room head count reached")
	ErrInvalidHeadCount    = errors.New("head count must be positive")
	ErrInvalidTimer        = errors.New("timer values must not be negative")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrInvalidName         = errors.New("participant name must be 1-50 characters")
	ErrInvalidPIN          = errors.New("password must be 4 digits")
	ErrWrongPassword       = errors.New("wrong password")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrNameTaken           = errors.New("participant name is taken")
)
