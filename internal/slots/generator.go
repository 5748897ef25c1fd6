// Package slots generates the daily time-slot sequence from the schedule
// configuration. The sequence is identical for every working day.
package slots

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chuckk589/devovers/internal/models"
)

// Generate walks from StartTime to EndTime in SlotInterval-hour steps and
// returns the HH:MM labels of each slot start, in ascending order. An offset
// that lands inside the lunch window [LunchStart, LunchEnd) is not emitted;
// the walk jumps to LunchEnd and continues stepping from there.
func Generate(cfg models.ScheduleConfig) ([]string, error) {
	startMinutes, err := parseMinutes(cfg.StartTime)
	if err != nil {
		return nil, fmt.Errorf("parse start time: %w", err)
	}

	endMinutes, err := parseMinutes(cfg.EndTime)
	if err != nil {
		return nil, fmt.Errorf("parse end time: %w", err)
	}

	intervalMinutes := cfg.SlotInterval * 60
	if intervalMinutes <= 0 {
		return nil, fmt.Errorf("slot interval must be positive, got %d", cfg.SlotInterval)
	}

	lunchStart, lunchEnd := -1, -1
	if cfg.HasLunchBreak && cfg.LunchStart != "" && cfg.LunchEnd != "" {
		lunchStart, err = parseMinutes(cfg.LunchStart)
		if err != nil {
			return nil, fmt.Errorf("parse lunch start: %w", err)
		}
		lunchEnd, err = parseMinutes(cfg.LunchEnd)
		if err != nil {
			return nil, fmt.Errorf("parse lunch end: %w", err)
		}
	}

	var out []string
	for cursor := startMinutes; cursor < endMinutes; {
		if lunchStart >= 0 && cursor >= lunchStart && cursor < lunchEnd {
			cursor = lunchEnd
			continue
		}
		out = append(out, formatMinutes(cursor))
		cursor += intervalMinutes
	}

	return out, nil
}

// parseMinutes converts "HH:MM" to minutes since midnight.
func parseMinutes(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q", value)
	}

	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("time %q out of range", value)
	}

	return hours*60 + minutes, nil
}

func formatMinutes(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
