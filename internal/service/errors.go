package service

import "errors"

var (
	// ErrInvalidConfiguration means the schedule configuration is malformed
	// (unknown timezone, unparsable time bounds, non-positive numbers).
	ErrInvalidConfiguration = errors.New("invalid schedule configuration")

	// ErrSlotUnavailable means the requested slot is blocked, booked, or not
	// offered at all.
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrUnknownUser means the requesting identity is not registered.
	ErrUnknownUser = errors.New("unknown user")

	// ErrInvalidTransition means the requested status change violates the
	// appointment state machine.
	ErrInvalidTransition = errors.New("invalid status transition")
)
