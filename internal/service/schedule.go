package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chuckk589/devovers/internal/database"
	"github.com/chuckk589/devovers/internal/models"
	"github.com/chuckk589/devovers/internal/timeutil"
)

// CacheInvalidator drops derived availability state after a configuration
// change.
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context)
}

// ScheduleService owns the singleton schedule configuration: it provisions
// defaults on first read and applies partial updates.
type ScheduleService struct {
	repo        ConfigRepository
	invalidator CacheInvalidator
	logger      *zerolog.Logger
}

func NewScheduleService(repo ConfigRepository, logger *zerolog.Logger) *ScheduleService {
	return &ScheduleService{
		repo:   repo,
		logger: logger,
	}
}

// SetCacheInvalidator registers the invalidator called after every config
// update. Set once during wiring, before the service handles requests.
func (s *ScheduleService) SetCacheInvalidator(inv CacheInvalidator) {
	s.invalidator = inv
}

// GetConfig returns the configuration, creating the default row if none
// exists yet.
func (s *ScheduleService) GetConfig(ctx context.Context) (*models.ScheduleConfig, error) {
	cfg, err := s.repo.GetScheduleConfig(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	defaults := models.DefaultScheduleConfig()
	if err := s.repo.CreateScheduleConfig(ctx, &defaults); err != nil {
		return nil, err
	}

	s.logger.Info().Msg("Provisioned default schedule configuration")
	return &defaults, nil
}

// UpdateConfig applies only the fields present in upd; unspecified fields
// keep their prior values. Each provided field is validated on its own;
// cross-field consistency (e.g. lunch inside the working window) is the
// caller's responsibility.
func (s *ScheduleService) UpdateConfig(ctx context.Context, upd models.ScheduleConfigUpdate) (*models.ScheduleConfig, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	if upd.SlotInterval != nil {
		if *upd.SlotInterval <= 0 {
			return nil, fmt.Errorf("%w: slot interval must be positive", ErrInvalidConfiguration)
		}
		cfg.SlotInterval = *upd.SlotInterval
	}
	if upd.StartTime != nil {
		if err := validateTimeOfDay(*upd.StartTime); err != nil {
			return nil, err
		}
		cfg.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		if err := validateTimeOfDay(*upd.EndTime); err != nil {
			return nil, err
		}
		cfg.EndTime = *upd.EndTime
	}
	if upd.HasLunchBreak != nil {
		cfg.HasLunchBreak = *upd.HasLunchBreak
	}
	if upd.LunchStart != nil {
		if err := validateTimeOfDay(*upd.LunchStart); err != nil {
			return nil, err
		}
		cfg.LunchStart = *upd.LunchStart
	}
	if upd.LunchEnd != nil {
		if err := validateTimeOfDay(*upd.LunchEnd); err != nil {
			return nil, err
		}
		cfg.LunchEnd = *upd.LunchEnd
	}
	if upd.WorkingDays != nil {
		for _, d := range upd.WorkingDays {
			if d < 0 || d > 6 {
				return nil, fmt.Errorf("%w: working day %d out of range [0,6]", ErrInvalidConfiguration, d)
			}
		}
		cfg.WorkingDays = upd.WorkingDays
	}
	if upd.AvailableDaysRange != nil {
		if *upd.AvailableDaysRange <= 0 {
			return nil, fmt.Errorf("%w: available days range must be positive", ErrInvalidConfiguration)
		}
		cfg.AvailableDaysRange = *upd.AvailableDaysRange
	}
	if upd.Timezone != nil {
		if _, err := timeutil.Location(*upd.Timezone); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
		}
		cfg.Timezone = *upd.Timezone
	}

	if err := s.repo.UpdateScheduleConfig(ctx, cfg); err != nil {
		return nil, err
	}

	// The slot grid is derived from this config; cached projections
	// computed under the old values are stale the moment it changes.
	if s.invalidator != nil {
		s.invalidator.InvalidateCache(ctx)
	}

	s.logger.Info().Int64("id", cfg.ID).Msg("Schedule configuration updated")
	return cfg, nil
}

// BusinessLocation loads the configured business timezone.
func (s *ScheduleService) BusinessLocation(ctx context.Context) (*time.Location, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := timeutil.Location(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return loc, nil
}

func validateTimeOfDay(value string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return fmt.Errorf("%w: invalid time %q, expected HH:MM", ErrInvalidConfiguration, value)
	}
	return nil
}
