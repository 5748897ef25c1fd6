package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chuckk589/devovers/internal/models"
)

// CreateBlockedSlot persists a new block.
func (db *DB) CreateBlockedSlot(ctx context.Context, b *models.BlockedSlot) error {
	var timeSlot sql.NullString
	if b.TimeSlot != nil {
		timeSlot = sql.NullString{String: *b.TimeSlot, Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO blocked_slots (id, date, date_key, time_slot) VALUES (?, ?, ?, ?)`,
		b.ID, b.Date, b.Date.Format("2006-01-02"), timeSlot,
	)
	if err != nil {
		return fmt.Errorf("create blocked slot: %w", err)
	}
	return nil
}

// GetBlockedSlotsByDateRange returns blocks within [startKey, endKey]
// (YYYY-MM-DD, inclusive) in a single ranged fetch.
func (db *DB) GetBlockedSlotsByDateRange(ctx context.Context, startKey, endKey string) ([]models.BlockedSlot, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, date, time_slot, created_at, updated_at
		FROM blocked_slots
		WHERE date_key >= ? AND date_key <= ?
		ORDER BY date_key, time_slot`,
		startKey, endKey,
	)
	if err != nil {
		return nil, fmt.Errorf("get blocked slots by date range: %w", err)
	}
	defer rows.Close()

	return scanBlockedSlots(rows)
}

// ListBlockedSlots returns every block, oldest dates first.
func (db *DB) ListBlockedSlots(ctx context.Context) ([]models.BlockedSlot, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, date, time_slot, created_at, updated_at
		FROM blocked_slots
		ORDER BY date_key, time_slot`)
	if err != nil {
		return nil, fmt.Errorf("list blocked slots: %w", err)
	}
	defer rows.Close()

	return scanBlockedSlots(rows)
}

// DeleteBlockedSlot removes a block; returns ErrNotFound for an unknown id.
func (db *DB) DeleteBlockedSlot(ctx context.Context, id string) error {
	affected, err := db.execAffected(ctx,
		`DELETE FROM blocked_slots WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete blocked slot: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBlockedSlots(rows *sql.Rows) ([]models.BlockedSlot, error) {
	var out []models.BlockedSlot
	for rows.Next() {
		var (
			b        models.BlockedSlot
			timeSlot sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.Date, &timeSlot, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan blocked slot: %w", err)
		}
		if timeSlot.Valid {
			value := timeSlot.String
			b.TimeSlot = &value
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
