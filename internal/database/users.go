package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chuckk589/devovers/internal/models"
)

// GetUserByTelegramID resolves the external messaging identity to an
// internal user. Returns ErrNotFound if the identity is not registered.
func (db *DB) GetUserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, telegram_id, username, first_name, last_name, phone,
		       is_manager, created_at, updated_at
		FROM users WHERE telegram_id = ?`,
		telegramID,
	)
	return scanUser(row)
}

// GetUserByID returns a user by internal id.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, telegram_id, username, first_name, last_name, phone,
		       is_manager, created_at, updated_at
		FROM users WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

// GetManagers returns all users flagged as managers.
func (db *DB) GetManagers(ctx context.Context) ([]models.User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, telegram_id, username, first_name, last_name, phone,
		       is_manager, created_at, updated_at
		FROM users WHERE is_manager = 1`)
	if err != nil {
		return nil, fmt.Errorf("get managers: %w", err)
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// CreateOrUpdateUser upserts a user record keyed by telegram id.
func (db *DB) CreateOrUpdateUser(ctx context.Context, u *models.User) error {
	res, err := db.ExecContext(ctx, `
		INSERT INTO users (telegram_id, username, first_name, last_name, phone, is_manager)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(telegram_id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			phone = excluded.phone,
			updated_at = CURRENT_TIMESTAMP`,
		u.TelegramID, nullString(u.Username), u.FirstName,
		nullString(u.LastName), nullString(u.Phone), u.IsManager,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil && id > 0 {
		u.ID = id
	}
	return nil
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u                         models.User
		username, lastName, phone sql.NullString
	)

	err := row.Scan(
		&u.ID, &u.TelegramID, &username, &u.FirstName, &lastName, &phone,
		&u.IsManager, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}

	u.Username = username.String
	u.LastName = lastName.String
	u.Phone = phone.String
	return &u, nil
}
