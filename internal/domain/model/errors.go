package model

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrBadTimestamp marks a match completion time that cannot be converted.
	ErrBadTimestamp = errors.New("bad completion timestamp")
	// ErrMalformedRecord marks a match or participant missing a required field.
	ErrMalformedRecord = errors.New("malformed match record")
)
