package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound          = errors.New("record not found")
	ErrUnknownCollection = errors.New("unknown collection")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrUnknownDriver     = errors.New("unknown store driver")
)
