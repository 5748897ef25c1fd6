package models

import "time"

// ScheduleConfig holds the business calendar rules. Exactly one row exists;
// it is provisioned with defaults on first read.
type ScheduleConfig struct {
	ID                 int64     `json:"id"`
	SlotInterval       int       `json:"slot_interval"` // hours between slot starts
	StartTime          string    `json:"start_time"`    // "10:00"
	EndTime            string    `json:"end_time"`      // "18:00"
	HasLunchBreak      bool      `json:"has_lunch_break"`
	LunchStart         string    `json:"lunch_start,omitempty"`
	LunchEnd           string    `json:"lunch_end,omitempty"`
	WorkingDays        []int     `json:"working_days"`         // 0=Sunday..6=Saturday
	AvailableDaysRange int       `json:"available_days_range"` // horizon, days ahead incl. today
	Timezone           string    `json:"timezone"`             // IANA identifier
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultScheduleConfig returns the configuration provisioned when none
// exists yet.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		SlotInterval:       2,
		StartTime:          "10:00",
		EndTime:            "18:00",
		HasLunchBreak:      true,
		LunchStart:         "13:00",
		LunchEnd:           "14:00",
		WorkingDays:        []int{1, 2, 3, 4, 5},
		AvailableDaysRange: 14,
		Timezone:           "Europe/Moscow",
	}
}

// IsWorkingDay reports whether the given day of week (0=Sunday) is in the
// working-day set.
func (c *ScheduleConfig) IsWorkingDay(dayOfWeek int) bool {
	for _, d := range c.WorkingDays {
		if d == dayOfWeek {
			return true
		}
	}
	return false
}

// ScheduleConfigUpdate is a partial update: nil fields keep their prior
// values.
type ScheduleConfigUpdate struct {
	SlotInterval       *int    `json:"slot_interval,omitempty"`
	StartTime          *string `json:"start_time,omitempty"`
	EndTime            *string `json:"end_time,omitempty"`
	HasLunchBreak      *bool   `json:"has_lunch_break,omitempty"`
	LunchStart         *string `json:"lunch_start,omitempty"`
	LunchEnd           *string `json:"lunch_end,omitempty"`
	WorkingDays        []int   `json:"working_days,omitempty"`
	AvailableDaysRange *int    `json:"available_days_range,omitempty"`
	Timezone           *string `json:"timezone,omitempty"`
}
