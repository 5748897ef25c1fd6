package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/chuckk589/devovers/internal/models"
)

// GetScheduleConfig returns the singleton configuration row.
// Returns ErrNotFound if no row has been provisioned yet.
func (db *DB) GetScheduleConfig(ctx context.Context) (*models.ScheduleConfig, error) {
	var (
		cfg                    models.ScheduleConfig
		lunchStart, lunchEnd   sql.NullString
		workingDays            string
	)

	err := db.QueryRowContext(ctx, `
		SELECT id, slot_interval, start_time, end_time, has_lunch_break,
		       lunch_start, lunch_end, working_days, available_days_range,
		       timezone, created_at, updated_at
		FROM schedule_config
		ORDER BY id
		LIMIT 1`,
	).Scan(
		&cfg.ID, &cfg.SlotInterval, &cfg.StartTime, &cfg.EndTime, &cfg.HasLunchBreak,
		&lunchStart, &lunchEnd, &workingDays, &cfg.AvailableDaysRange,
		&cfg.Timezone, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule config: %w", err)
	}

	if lunchStart.Valid {
		cfg.LunchStart = lunchStart.String
	}
	if lunchEnd.Valid {
		cfg.LunchEnd = lunchEnd.String
	}
	cfg.WorkingDays = parseWorkingDays(workingDays)

	return &cfg, nil
}

// CreateScheduleConfig inserts the configuration row and returns it with
// generated fields populated.
func (db *DB) CreateScheduleConfig(ctx context.Context, cfg *models.ScheduleConfig) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO schedule_config
			(slot_interval, start_time, end_time, has_lunch_break,
			 lunch_start, lunch_end, working_days, available_days_range, timezone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.SlotInterval, cfg.StartTime, cfg.EndTime, cfg.HasLunchBreak,
		nullString(cfg.LunchStart), nullString(cfg.LunchEnd),
		formatWorkingDays(cfg.WorkingDays), cfg.AvailableDaysRange, cfg.Timezone,
	)
	if err != nil {
		return fmt.Errorf("create schedule config: %w", err)
	}

	cfg.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("schedule config id: %w", err)
	}
	return nil
}

// UpdateScheduleConfig persists the full merged configuration.
func (db *DB) UpdateScheduleConfig(ctx context.Context, cfg *models.ScheduleConfig) error {
	affected, err := db.execAffected(ctx, `
		UPDATE schedule_config SET
			slot_interval = ?, start_time = ?, end_time = ?, has_lunch_break = ?,
			lunch_start = ?, lunch_end = ?, working_days = ?,
			available_days_range = ?, timezone = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		cfg.SlotInterval, cfg.StartTime, cfg.EndTime, cfg.HasLunchBreak,
		nullString(cfg.LunchStart), nullString(cfg.LunchEnd),
		formatWorkingDays(cfg.WorkingDays), cfg.AvailableDaysRange, cfg.Timezone,
		cfg.ID,
	)
	if err != nil {
		return fmt.Errorf("update schedule config: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) execAffected(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Working days are stored as a comma-separated list, e.g. "1,2,3,4,5".
func formatWorkingDays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func parseWorkingDays(value string) []int {
	if value == "" {
		return nil
	}
	var days []int
	for _, part := range strings.Split(value, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		days = append(days, d)
	}
	return days
}
