package models

// SlotStatus is the computed availability of one slot on one date.
type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
	SlotBlocked   SlotStatus = "blocked"
)

// SlotProjection is a derived, never-persisted availability record produced
// fresh on every read. Blocked takes priority over booked.
type SlotProjection struct {
	Date        string     `json:"date"` // YYYY-MM-DD in the business timezone
	Time        string     `json:"time"` // "HH:MM"
	DisplayTime string     `json:"display_time"`
	IsBooked    bool       `json:"is_booked"`
	IsBlocked   bool       `json:"is_blocked"`
	Status      SlotStatus `json:"status"`
}
