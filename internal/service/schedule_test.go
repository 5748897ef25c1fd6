package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/chuckk589/devovers/internal/database"
	"github.com/chuckk589/devovers/internal/models"
)

type recordingInvalidator struct {
	calls int
}

func (r *recordingInvalidator) InvalidateCache(context.Context) {
	r.calls++
}

func TestScheduleService(t *testing.T) {
	logger := zerolog.New(io.Discard)
	ctx := context.Background()

	t.Run("GetConfig provisions defaults", func(t *testing.T) {
		repo := new(mockConfigRepo)
		svc := NewScheduleService(repo, &logger)

		repo.On("GetScheduleConfig", ctx).Return(nil, database.ErrNotFound).Once()
		repo.On("CreateScheduleConfig", ctx, mock.Anything).Return(nil).Once()

		cfg, err := svc.GetConfig(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 2, cfg.SlotInterval)
		assert.Equal(t, "10:00", cfg.StartTime)
		assert.Equal(t, "18:00", cfg.EndTime)
		assert.True(t, cfg.HasLunchBreak)
		assert.Equal(t, "Europe/Moscow", cfg.Timezone)
		repo.AssertExpectations(t)
	})

	t.Run("GetConfig returns existing", func(t *testing.T) {
		repo := new(mockConfigRepo)
		svc := NewScheduleService(repo, &logger)

		stored := models.DefaultScheduleConfig()
		stored.ID = 1
		stored.SlotInterval = 1
		repo.On("GetScheduleConfig", ctx).Return(&stored, nil).Once()

		cfg, err := svc.GetConfig(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, cfg.SlotInterval)
		repo.AssertExpectations(t)
	})

	t.Run("GetConfig propagates storage error", func(t *testing.T) {
		repo := new(mockConfigRepo)
		svc := NewScheduleService(repo, &logger)

		boom := errors.New("disk on fire")
		repo.On("GetScheduleConfig", ctx).Return(nil, boom).Once()

		_, err := svc.GetConfig(ctx)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("UpdateConfig merges partial update", func(t *testing.T) {
		repo := new(mockConfigRepo)
		svc := NewScheduleService(repo, &logger)

		stored := models.DefaultScheduleConfig()
		stored.ID = 1
		repo.On("GetScheduleConfig", ctx).Return(&stored, nil).Once()
		repo.On("UpdateScheduleConfig", ctx, mock.Anything).Return(nil).Once()

		interval := 1
		start := "09:00"
		cfg, err := svc.UpdateConfig(ctx, models.ScheduleConfigUpdate{
			SlotInterval: &interval,
			StartTime:    &start,
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, cfg.SlotInterval)
		assert.Equal(t, "09:00", cfg.StartTime)
		// Untouched fields survive.
		assert.Equal(t, "18:00", cfg.EndTime)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, cfg.WorkingDays)
		repo.AssertExpectations(t)
	})

	t.Run("UpdateConfig drops cached availability", func(t *testing.T) {
		repo := new(mockConfigRepo)
		svc := NewScheduleService(repo, &logger)
		inv := new(recordingInvalidator)
		svc.SetCacheInvalidator(inv)

		stored := models.DefaultScheduleConfig()
		stored.ID = 1
		repo.On("GetScheduleConfig", ctx).Return(&stored, nil).Twice()
		repo.On("UpdateScheduleConfig", ctx, mock.Anything).Return(nil).Once()

		interval := 4
		_, err := svc.UpdateConfig(ctx, models.ScheduleConfigUpdate{SlotInterval: &interval})
		assert.NoError(t, err)
		assert.Equal(t, 1, inv.calls)

		// A rejected update leaves the cache alone.
		zero := 0
		_, err = svc.UpdateConfig(ctx, models.ScheduleConfigUpdate{SlotInterval: &zero})
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
		assert.Equal(t, 1, inv.calls)
		repo.AssertExpectations(t)
	})

	t.Run("UpdateConfig rejects bad values", func(t *testing.T) {
		stored := models.DefaultScheduleConfig()
		stored.ID = 1

		zero := 0
		badTime := "25:99"
		badTz := "Mars/Olympus"
		badRange := -1

		cases := []struct {
			name string
			upd  models.ScheduleConfigUpdate
		}{
			{"zero interval", models.ScheduleConfigUpdate{SlotInterval: &zero}},
			{"malformed start time", models.ScheduleConfigUpdate{StartTime: &badTime}},
			{"malformed lunch end", models.ScheduleConfigUpdate{LunchEnd: &badTime}},
			{"working day out of range", models.ScheduleConfigUpdate{WorkingDays: []int{1, 7}}},
			{"negative range", models.ScheduleConfigUpdate{AvailableDaysRange: &badRange}},
			{"unknown timezone", models.ScheduleConfigUpdate{Timezone: &badTz}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				repo := new(mockConfigRepo)
				svc := NewScheduleService(repo, &logger)
				repo.On("GetScheduleConfig", ctx).Return(&stored, nil).Once()

				_, err := svc.UpdateConfig(ctx, tc.upd)
				assert.ErrorIs(t, err, ErrInvalidConfiguration)
				repo.AssertNotCalled(t, "UpdateScheduleConfig", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("BusinessLocation", func(t *testing.T) {
		repo := new(mockConfigRepo)
		svc := NewScheduleService(repo, &logger)

		stored := models.DefaultScheduleConfig()
		stored.ID = 1
		repo.On("GetScheduleConfig", ctx).Return(&stored, nil).Once()

		loc, err := svc.BusinessLocation(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "Europe/Moscow", loc.String())
	})
}
