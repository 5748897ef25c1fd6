package models

import "time"

// BlockedSlot is an administrator-imposed unavailability. A nil TimeSlot
// blocks the entire date; otherwise exactly one slot is blocked. Blocks are
// immutable once created: they can only be deleted.
type BlockedSlot struct {
	ID        string    `json:"id"` // uuid
	Date      time.Time `json:"date"`
	TimeSlot  *string   `json:"time_slot,omitempty"` // "HH:MM", nil = whole day
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BlocksWholeDay reports whether the block covers every slot of its date.
func (b *BlockedSlot) BlocksWholeDay() bool {
	return b.TimeSlot == nil
}

// BlocksTime reports whether the block covers the given HH:MM slot.
func (b *BlockedSlot) BlocksTime(timeSlot string) bool {
	return b.TimeSlot == nil || *b.TimeSlot == timeSlot
}
