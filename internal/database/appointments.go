package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chuckk589/devovers/internal/models"
)

const appointmentColumns = `id, code, service_id, custom_service, maintenance_info,
	car_brand, custom_car_brand, car_model, car_year, license_plate,
	appointment_date, time_slot, client_name, client_phone, comment,
	status, user_id, reminder_sent, created_at, updated_at`

// CreateAppointment persists a new appointment. Alongside the full instant
// it stores date_key, the appointment's calendar date in its own timezone;
// all range queries compare that key, never the raw timestamp, because
// SQLite's date() renormalizes offset-carrying values to UTC and shifts
// business-midnight instants onto the previous day.
func (db *DB) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO appointments
			(id, code, service_id, custom_service, maintenance_info,
			 car_brand, custom_car_brand, car_model, car_year, license_plate,
			 appointment_date, date_key, time_slot, client_name, client_phone, comment,
			 status, user_id, reminder_sent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Code, a.ServiceID, nullString(a.CustomService), nullString(a.MaintenanceInfo),
		a.CarBrand, nullString(a.CustomCarBrand), nullString(a.CarModel), nullString(a.CarYear),
		nullString(a.LicensePlate), a.Date, a.Date.Format("2006-01-02"), a.TimeSlot, a.ClientName,
		nullString(a.ClientPhone), nullString(a.Comment), string(a.Status), a.UserID, a.ReminderSent,
	)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// GetAppointment returns an appointment by its uuid.
func (db *DB) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = ?`, id)
	return scanAppointment(row)
}

// GetActiveAppointmentsByDateRange returns all non-cancelled appointments
// whose date falls within [startKey, endKey] (YYYY-MM-DD, inclusive) in a
// single ranged fetch.
func (db *DB) GetActiveAppointmentsByDateRange(ctx context.Context, startKey, endKey string) ([]models.Appointment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE date_key >= ?
		  AND date_key <= ?
		  AND status != ?
		ORDER BY date_key, time_slot`,
		startKey, endKey, string(models.StatusCancelled),
	)
	if err != nil {
		return nil, fmt.Errorf("get appointments by date range: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListAppointments returns every appointment, newest dates first.
func (db *DB) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		ORDER BY date_key DESC, time_slot DESC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// GetUserAppointments returns appointments owned by the given user, newest
// dates first.
func (db *DB) GetUserAppointments(ctx context.Context, userID int64) ([]models.Appointment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE user_id = ?
		ORDER BY date_key DESC, time_slot DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get user appointments: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// AppointmentCodeExists reports whether the human-readable code is taken.
func (db *DB) AppointmentCodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM appointments WHERE code = ?`, code,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check appointment code: %w", err)
	}
	return count > 0, nil
}

// UpdateAppointmentStatus sets a new status; returns ErrNotFound for an
// unknown id.
func (db *DB) UpdateAppointmentStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	affected, err := db.execAffected(ctx, `
		UPDATE appointments SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		string(status), id,
	)
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkReminderSent flags the appointment so the reminder loop won't pick it
// up again.
func (db *DB) MarkReminderSent(ctx context.Context, id string) error {
	affected, err := db.execAffected(ctx, `
		UPDATE appointments SET reminder_sent = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, id,
	)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAppointments(rows *sql.Rows) ([]models.Appointment, error) {
	var out []models.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*models.Appointment, error) {
	var (
		a                                                     models.Appointment
		customService, maintenanceInfo, customCarBrand        sql.NullString
		carModel, carYear, licensePlate, clientPhone, comment sql.NullString
		userID                                                sql.NullInt64
		status                                                string
	)

	err := row.Scan(
		&a.ID, &a.Code, &a.ServiceID, &customService, &maintenanceInfo,
		&a.CarBrand, &customCarBrand, &carModel, &carYear, &licensePlate,
		&a.Date, &a.TimeSlot, &a.ClientName, &clientPhone, &comment,
		&status, &userID, &a.ReminderSent, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan appointment: %w", err)
	}

	a.CustomService = customService.String
	a.MaintenanceInfo = maintenanceInfo.String
	a.CustomCarBrand = customCarBrand.String
	a.CarModel = carModel.String
	a.CarYear = carYear.String
	a.LicensePlate = licensePlate.String
	a.ClientPhone = clientPhone.String
	a.Comment = comment.String
	a.UserID = userID.Int64
	a.Status = models.AppointmentStatus(status)

	return &a, nil
}
