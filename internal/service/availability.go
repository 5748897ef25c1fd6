package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/chuckk589/devovers/internal/metrics"
	"github.com/chuckk589/devovers/internal/models"
	"github.com/chuckk589/devovers/internal/slots"
	"github.com/chuckk589/devovers/internal/timeutil"
)

const cacheGenerationKey = "availability:gen"

// AvailabilityService resolves the per-date-per-time availability projection
// and administers blocked slots.
type AvailabilityService struct {
	schedule     *ScheduleService
	appointments AppointmentRepository
	blocks       BlockedSlotRepository
	logger       *zerolog.Logger
	now          func() time.Time

	redis    *redis.Client
	cacheTTL time.Duration
}

func NewAvailabilityService(
	schedule *ScheduleService,
	appointments AppointmentRepository,
	blocks BlockedSlotRepository,
	logger *zerolog.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		schedule:     schedule,
		appointments: appointments,
		blocks:       blocks,
		logger:       logger,
		now:          time.Now,
	}
}

// UseRedisCache configures optional caching of resolved projections.
func (s *AvailabilityService) UseRedisCache(client *redis.Client, ttl time.Duration) {
	s.redis = client
	s.cacheTTL = ttl
}

// Resolve computes the projection for the full horizon
// [today, today+availableDaysRange] in the business timezone.
func (s *AvailabilityService) Resolve(ctx context.Context) ([]models.SlotProjection, error) {
	return s.resolve(ctx, nil)
}

// ResolveDate computes the projection for the single business-timezone
// calendar date the target instant falls in.
func (s *AvailabilityService) ResolveDate(ctx context.Context, target time.Time) ([]models.SlotProjection, error) {
	return s.resolve(ctx, &target)
}

func (s *AvailabilityService) resolve(ctx context.Context, target *time.Time) ([]models.SlotProjection, error) {
	cfg, err := s.schedule.GetConfig(ctx)
	if err != nil {
		return nil, err
	}

	loc, err := timeutil.Location(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	var dates []time.Time
	if target != nil {
		dates = []time.Time{timeutil.StartOfDay(*target, loc)}
	} else {
		today := timeutil.StartOfDay(s.now(), loc)
		for i := 0; i <= cfg.AvailableDaysRange; i++ {
			dates = append(dates, timeutil.AddDays(today, i, loc))
		}
	}

	working := dates[:0]
	for _, d := range dates {
		if cfg.IsWorkingDay(timeutil.DayOfWeek(d, loc)) {
			working = append(working, d)
		}
	}
	if len(working) == 0 {
		return []models.SlotProjection{}, nil
	}

	startKey := timeutil.DateKey(working[0], loc)
	endKey := timeutil.DateKey(working[len(working)-1], loc)

	cacheKey := s.cacheKey(ctx, startKey, endKey)
	if cached, ok := s.readCache(ctx, cacheKey); ok {
		metrics.IncAvailabilityRequest("hit")
		return cached, nil
	}
	metrics.IncAvailabilityRequest("miss")

	// One ranged fetch per fact set; never per-date queries.
	blocked, err := s.blocks.GetBlockedSlotsByDateRange(ctx, startKey, endKey)
	if err != nil {
		return nil, err
	}
	appointments, err := s.appointments.GetActiveAppointmentsByDateRange(ctx, startKey, endKey)
	if err != nil {
		return nil, err
	}

	// Group stored facts by their business-timezone calendar date. Stored
	// instants may carry a different literal offset than the configured
	// timezone, so grouping goes through calendar arithmetic, never raw
	// string comparison of stored values.
	blockedByDate := make(map[string][]models.BlockedSlot)
	for _, b := range blocked {
		key := timeutil.DateKey(b.Date, loc)
		blockedByDate[key] = append(blockedByDate[key], b)
	}
	bookedByDate := make(map[string]map[string]bool)
	for _, a := range appointments {
		key := timeutil.DateKey(a.Date, loc)
		if bookedByDate[key] == nil {
			bookedByDate[key] = make(map[string]bool)
		}
		bookedByDate[key][a.TimeSlot] = true
	}

	daily, err := slots.Generate(*cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	projections := make([]models.SlotProjection, 0, len(working)*len(daily))
	for _, date := range working {
		dateKey := timeutil.DateKey(date, loc)
		dayBlocks := blockedByDate[dateKey]
		dayBooked := bookedByDate[dateKey]

		for _, slot := range daily {
			isBlocked := false
			for i := range dayBlocks {
				if dayBlocks[i].BlocksTime(slot) {
					isBlocked = true
					break
				}
			}
			isBooked := dayBooked[slot]

			status := models.SlotAvailable
			if isBlocked {
				status = models.SlotBlocked
			} else if isBooked {
				status = models.SlotBooked
			}

			projections = append(projections, models.SlotProjection{
				Date:        dateKey,
				Time:        slot,
				DisplayTime: slot,
				IsBooked:    isBooked,
				IsBlocked:   isBlocked,
				Status:      status,
			})
		}
	}

	s.writeCache(ctx, cacheKey, projections)
	return projections, nil
}

// CreateBlock records an administrator block for a date, or for a single
// slot on that date when timeSlot is non-nil.
func (s *AvailabilityService) CreateBlock(ctx context.Context, date time.Time, timeSlot *string) (*models.BlockedSlot, error) {
	loc, err := s.schedule.BusinessLocation(ctx)
	if err != nil {
		return nil, err
	}

	block := &models.BlockedSlot{
		ID:       uuid.NewString(),
		Date:     timeutil.StartOfDay(date, loc),
		TimeSlot: timeSlot,
	}
	if err := s.blocks.CreateBlockedSlot(ctx, block); err != nil {
		return nil, err
	}

	s.InvalidateCache(ctx)
	s.logger.Info().Str("id", block.ID).Time("date", block.Date).Msg("Blocked slot created")
	return block, nil
}

// DeleteBlock removes an administrator block.
func (s *AvailabilityService) DeleteBlock(ctx context.Context, id string) error {
	if err := s.blocks.DeleteBlockedSlot(ctx, id); err != nil {
		return err
	}
	s.InvalidateCache(ctx)
	return nil
}

// ListBlocks returns every administrator block.
func (s *AvailabilityService) ListBlocks(ctx context.Context) ([]models.BlockedSlot, error) {
	return s.blocks.ListBlockedSlots(ctx)
}

// InvalidateCache drops cached projections by bumping the cache generation.
// Callers invoke it after any mutation that can change availability.
func (s *AvailabilityService) InvalidateCache(ctx context.Context) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	if err := s.redis.Incr(ctx, cacheGenerationKey).Err(); err != nil {
		s.logger.Debug().Err(err).Msg("Cache invalidation failed")
	}
}

func (s *AvailabilityService) cacheKey(ctx context.Context, startKey, endKey string) string {
	gen := "0"
	if s.redis != nil && s.cacheTTL > 0 {
		if val, err := s.redis.Get(ctx, cacheGenerationKey).Result(); err == nil {
			gen = val
		}
	}
	return fmt.Sprintf("availability:%s:%s:%s", gen, startKey, endKey)
}

func (s *AvailabilityService) readCache(ctx context.Context, key string) ([]models.SlotProjection, bool) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var out []models.SlotProjection
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, false
	}
	return out, true
}

func (s *AvailabilityService) writeCache(ctx context.Context, key string, val []models.SlotProjection) {
	if s.redis == nil || s.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.logger.Debug().Err(err).Msg("Cache write failed")
	}
}
