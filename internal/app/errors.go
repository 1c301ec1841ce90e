package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrInvalidSchedule = errors.New("invalid refresh schedule")
	ErrMissingPlayers  = errors.New("players list required")
)
