package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Valid reports whether s is a known status value.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the pending -> confirmed -> completed
// forward chain (each step may also go straight to cancelled) permits
// moving from s to next.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed
	case StatusConfirmed:
		return next == StatusCompleted
	}
	return false
}

// Appointment is a persisted booking for one slot on one date.
type Appointment struct {
	ID              string            `json:"id"`   // uuid
	Code            string            `json:"code"` // human-readable, unique, e.g. APP-2026-X7K2P9
	ServiceID       string            `json:"service_id"`
	CustomService   string            `json:"custom_service,omitempty"`
	MaintenanceInfo string            `json:"maintenance_info,omitempty"`
	CarBrand        string            `json:"car_brand"`
	CustomCarBrand  string            `json:"custom_car_brand,omitempty"`
	CarModel        string            `json:"car_model,omitempty"`
	CarYear         string            `json:"car_year,omitempty"`
	LicensePlate    string            `json:"license_plate,omitempty"`
	Date            time.Time         `json:"date"`
	TimeSlot        string            `json:"time_slot"` // "HH:MM"
	ClientName      string            `json:"client_name"`
	ClientPhone     string            `json:"client_phone,omitempty"`
	Comment         string            `json:"comment,omitempty"`
	Status          AppointmentStatus `json:"status"`
	UserID          int64             `json:"user_id"`
	ReminderSent    bool              `json:"reminder_sent"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
