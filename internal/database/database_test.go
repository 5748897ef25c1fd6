package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chuckk589/devovers/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	logger := zerolog.Nop()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func moscowMidnight(t *testing.T, day string) time.Time {
	t.Helper()

	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)
	date, err := time.ParseInLocation("2006-01-02", day, loc)
	require.NoError(t, err)
	return date
}

func testAppointment(date time.Time, timeSlot string) *models.Appointment {
	return &models.Appointment{
		ID:         uuid.NewString(),
		Code:       "APP-2026-" + uuid.NewString()[:6],
		ServiceID:  "oil_change",
		CarBrand:   "Toyota",
		Date:       date,
		TimeSlot:   timeSlot,
		ClientName: "Иван Петров",
		Status:     models.StatusPending,
		UserID:     1,
	}
}

func TestAppointmentsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("ranged fetch finds rows stored at business midnight", func(t *testing.T) {
		db := newTestDB(t)

		// Moscow midnight is 21:00 UTC of the previous day. The ranged
		// fetch must still land it on its own calendar date.
		date := moscowMidnight(t, "2026-09-07")
		require.NoError(t, db.CreateAppointment(ctx, testAppointment(date, "10:00")))
		require.NoError(t, db.CreateAppointment(ctx, testAppointment(date, "14:00")))

		got, err := db.GetActiveAppointmentsByDateRange(ctx, "2026-09-07", "2026-09-07")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "10:00", got[0].TimeSlot)
		assert.Equal(t, "14:00", got[1].TimeSlot)

		got, err = db.GetActiveAppointmentsByDateRange(ctx, "2026-09-06", "2026-09-06")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ranged fetch excludes cancelled", func(t *testing.T) {
		db := newTestDB(t)

		date := moscowMidnight(t, "2026-09-07")
		a := testAppointment(date, "12:00")
		require.NoError(t, db.CreateAppointment(ctx, a))
		require.NoError(t, db.UpdateAppointmentStatus(ctx, a.ID, models.StatusCancelled))

		got, err := db.GetActiveAppointmentsByDateRange(ctx, "2026-09-07", "2026-09-07")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("ranged fetch spans multiple days in order", func(t *testing.T) {
		db := newTestDB(t)

		require.NoError(t, db.CreateAppointment(ctx, testAppointment(moscowMidnight(t, "2026-09-08"), "10:00")))
		require.NoError(t, db.CreateAppointment(ctx, testAppointment(moscowMidnight(t, "2026-09-07"), "16:00")))
		require.NoError(t, db.CreateAppointment(ctx, testAppointment(moscowMidnight(t, "2026-09-10"), "12:00")))

		got, err := db.GetActiveAppointmentsByDateRange(ctx, "2026-09-07", "2026-09-09")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "16:00", got[0].TimeSlot)
		assert.Equal(t, "10:00", got[1].TimeSlot)
	})

	t.Run("get round-trips persisted fields", func(t *testing.T) {
		db := newTestDB(t)

		a := testAppointment(moscowMidnight(t, "2026-09-07"), "10:00")
		a.CustomCarBrand = "ГАЗель"
		a.ClientPhone = "+79001234567"
		require.NoError(t, db.CreateAppointment(ctx, a))

		got, err := db.GetAppointment(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, a.Code, got.Code)
		assert.Equal(t, "ГАЗель", got.CustomCarBrand)
		assert.Equal(t, "+79001234567", got.ClientPhone)
		assert.Equal(t, models.StatusPending, got.Status)
	})

	t.Run("get unknown id", func(t *testing.T) {
		db := newTestDB(t)

		_, err := db.GetAppointment(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("code uniqueness lookup", func(t *testing.T) {
		db := newTestDB(t)

		a := testAppointment(moscowMidnight(t, "2026-09-07"), "10:00")
		a.Code = "APP-2026-X7K2P9"
		require.NoError(t, db.CreateAppointment(ctx, a))

		exists, err := db.AppointmentCodeExists(ctx, "APP-2026-X7K2P9")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = db.AppointmentCodeExists(ctx, "APP-2026-000000")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("status update on unknown id", func(t *testing.T) {
		db := newTestDB(t)

		err := db.UpdateAppointmentStatus(ctx, uuid.NewString(), models.StatusConfirmed)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("reminder flag", func(t *testing.T) {
		db := newTestDB(t)

		a := testAppointment(moscowMidnight(t, "2026-09-07"), "10:00")
		require.NoError(t, db.CreateAppointment(ctx, a))
		require.NoError(t, db.MarkReminderSent(ctx, a.ID))

		got, err := db.GetAppointment(ctx, a.ID)
		require.NoError(t, err)
		assert.True(t, got.ReminderSent)

		assert.ErrorIs(t, db.MarkReminderSent(ctx, uuid.NewString()), ErrNotFound)
	})
}

func TestBlockedSlotsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("ranged fetch finds blocks stored at business midnight", func(t *testing.T) {
		db := newTestDB(t)

		slot := "14:00"
		require.NoError(t, db.CreateBlockedSlot(ctx, &models.BlockedSlot{
			ID:   uuid.NewString(),
			Date: moscowMidnight(t, "2026-09-07"),
		}))
		require.NoError(t, db.CreateBlockedSlot(ctx, &models.BlockedSlot{
			ID:       uuid.NewString(),
			Date:     moscowMidnight(t, "2026-09-08"),
			TimeSlot: &slot,
		}))

		got, err := db.GetBlockedSlotsByDateRange(ctx, "2026-09-07", "2026-09-07")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Nil(t, got[0].TimeSlot)

		got, err = db.GetBlockedSlotsByDateRange(ctx, "2026-09-07", "2026-09-08")
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.NotNil(t, got[1].TimeSlot)
		assert.Equal(t, "14:00", *got[1].TimeSlot)

		got, err = db.GetBlockedSlotsByDateRange(ctx, "2026-09-06", "2026-09-06")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("delete", func(t *testing.T) {
		db := newTestDB(t)

		b := &models.BlockedSlot{ID: uuid.NewString(), Date: moscowMidnight(t, "2026-09-07")}
		require.NoError(t, db.CreateBlockedSlot(ctx, b))
		require.NoError(t, db.DeleteBlockedSlot(ctx, b.ID))

		got, err := db.ListBlockedSlots(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)

		assert.ErrorIs(t, db.DeleteBlockedSlot(ctx, b.ID), ErrNotFound)
	})
}

func TestUsersRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("upsert and lookup", func(t *testing.T) {
		db := newTestDB(t)

		u := &models.User{TelegramID: 123456, FirstName: "Иван", Username: "ivan"}
		require.NoError(t, db.CreateOrUpdateUser(ctx, u))
		require.NotZero(t, u.ID)

		got, err := db.GetUserByTelegramID(ctx, 123456)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "ivan", got.Username)

		u.Username = "ivan_new"
		require.NoError(t, db.CreateOrUpdateUser(ctx, u))

		got, err = db.GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "ivan_new", got.Username)
	})

	t.Run("unknown identity", func(t *testing.T) {
		db := newTestDB(t)

		_, err := db.GetUserByTelegramID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
