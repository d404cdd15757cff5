package service

import (
	"errors"

	"github.com/iliyamo/stadium-entry/internal/repository"
)

// Failures reported by Ticketing.  Each one is permanent; callers map
// them to a response status and never retry.
var (
	ErrDuplicateNationalID = errors.New("national id already exists")
	ErrInvalidGateNumber   = errors.New("invalid gate number")
	ErrInvalidTicket       = errors.New("invalid ticket number")

	ErrUserNotFound    = repository.ErrUserNotFound
	ErrStadiumNotFound = repository.ErrStadiumNotFound
	ErrTicketNotFound  = repository.ErrTicketNotFound
)
