package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB represents the database connection.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// NewDB initializes a new database connection and creates tables if they
// don't exist.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL mode and busy timeout keep concurrent readers from failing on
	// writer locks.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	instance := &DB{
		DB:     db,
		logger: logger,
	}

	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("Database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS schedule_config (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			slot_interval INTEGER NOT NULL DEFAULT 2,
			start_time TEXT NOT NULL DEFAULT '10:00',
			end_time TEXT NOT NULL DEFAULT '18:00',
			has_lunch_break BOOLEAN NOT NULL DEFAULT 1,
			lunch_start TEXT,
			lunch_end TEXT,
			working_days TEXT NOT NULL DEFAULT '1,2,3,4,5',
			available_days_range INTEGER NOT NULL DEFAULT 14,
			timezone TEXT NOT NULL DEFAULT 'Europe/Moscow',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_id INTEGER UNIQUE NOT NULL,
			username TEXT,
			first_name TEXT NOT NULL,
			last_name TEXT,
			phone TEXT,
			is_manager BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS blocked_slots (
			id TEXT PRIMARY KEY,
			date DATETIME NOT NULL,
			date_key TEXT NOT NULL,
			time_slot TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS appointments (
			id TEXT PRIMARY KEY,
			code TEXT UNIQUE NOT NULL,
			service_id TEXT NOT NULL,
			custom_service TEXT,
			maintenance_info TEXT,
			car_brand TEXT NOT NULL,
			custom_car_brand TEXT,
			car_model TEXT,
			car_year TEXT,
			license_plate TEXT,
			appointment_date DATETIME NOT NULL,
			date_key TEXT NOT NULL,
			time_slot TEXT NOT NULL,
			client_name TEXT NOT NULL,
			client_phone TEXT,
			comment TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			user_id INTEGER,
			reminder_sent BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE SET NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_users_telegram_id ON users(telegram_id)`,
		`CREATE INDEX IF NOT EXISTS idx_users_is_manager ON users(is_manager)`,

		`CREATE INDEX IF NOT EXISTS idx_blocked_slots_date_key ON blocked_slots(date_key)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_code ON appointments(code)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_date_key ON appointments(date_key)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments(status)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_user ON appointments(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_appointments_reminder ON appointments(reminder_sent, date_key)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return db.ensureNewColumns()
}

// ensureNewColumns adds new columns to existing tables if they don't exist.
func (db *DB) ensureNewColumns() error {
	migrations := []string{
		`ALTER TABLE appointments ADD COLUMN reminder_sent BOOLEAN NOT NULL DEFAULT 0`,
		`ALTER TABLE appointments ADD COLUMN date_key TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE blocked_slots ADD COLUMN date_key TEXT NOT NULL DEFAULT ''`,
		`ALTER TABLE schedule_config ADD COLUMN timezone TEXT NOT NULL DEFAULT 'Europe/Moscow'`,
		// Rows written before date_key existed get theirs from the stored
		// text's literal calendar date. date() would renormalize the value
		// to UTC and shift offset-carrying timestamps to the wrong day.
		`UPDATE appointments SET date_key = substr(appointment_date, 1, 10) WHERE date_key = ''`,
		`UPDATE blocked_slots SET date_key = substr(date, 1, 10) WHERE date_key = ''`,
	}

	for _, m := range migrations {
		_, err := db.Exec(m)
		if err != nil && !strings.Contains(strings.ToLower(err.Error()), "duplicate column") {
			if db.logger != nil {
				db.logger.Debug().Err(err).Str("migration", m).Msg("Migration skipped")
			}
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
