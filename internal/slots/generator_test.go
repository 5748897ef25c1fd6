package slots

import (
	"testing"

	"github.com/chuckk589/devovers/internal/models"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      models.ScheduleConfig
		expected []string
	}{
		{
			// The 12:00+2h step lands exactly on lunch end and is kept.
			name:     "default working day",
			cfg:      models.DefaultScheduleConfig(),
			expected: []string{"10:00", "12:00", "14:00", "16:00"},
		},
		{
			name: "no lunch break",
			cfg: models.ScheduleConfig{
				SlotInterval: 2,
				StartTime:    "10:00",
				EndTime:      "18:00",
			},
			expected: []string{"10:00", "12:00", "14:00", "16:00"},
		},
		{
			name: "one hour interval with lunch",
			cfg: models.ScheduleConfig{
				SlotInterval:  1,
				StartTime:     "09:00",
				EndTime:       "13:00",
				HasLunchBreak: true,
				LunchStart:    "11:00",
				LunchEnd:      "12:00",
			},
			expected: []string{"09:00", "10:00", "12:00"},
		},
		{
			name: "lunch flag set but bounds missing",
			cfg: models.ScheduleConfig{
				SlotInterval:  2,
				StartTime:     "10:00",
				EndTime:       "14:00",
				HasLunchBreak: true,
			},
			expected: []string{"10:00", "12:00"},
		},
		{
			name: "step inside lunch jumps to lunch end",
			cfg: models.ScheduleConfig{
				SlotInterval:  2,
				StartTime:     "10:00",
				EndTime:       "18:00",
				HasLunchBreak: true,
				LunchStart:    "13:30",
				LunchEnd:      "14:30",
			},
			expected: []string{"10:00", "12:00", "14:30", "16:30"},
		},
		{
			name: "half-hour window boundaries",
			cfg: models.ScheduleConfig{
				SlotInterval: 3,
				StartTime:    "09:30",
				EndTime:      "18:30",
			},
			expected: []string{"09:30", "12:30", "15:30"},
		},
		{
			name: "end before start yields nothing",
			cfg: models.ScheduleConfig{
				SlotInterval: 2,
				StartTime:    "18:00",
				EndTime:      "10:00",
			},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("slot %d: expected %s, got %s", i, tt.expected[i], got[i])
				}
			}

			// Ascending order, no duplicates.
			for i := 1; i < len(got); i++ {
				if got[i] <= got[i-1] {
					t.Errorf("slots not strictly ascending: %v", got)
				}
			}
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.ScheduleConfig
	}{
		{
			name: "bad start time",
			cfg:  models.ScheduleConfig{SlotInterval: 2, StartTime: "ten", EndTime: "18:00"},
		},
		{
			name: "bad end time",
			cfg:  models.ScheduleConfig{SlotInterval: 2, StartTime: "10:00", EndTime: "25:00"},
		},
		{
			name: "zero interval",
			cfg:  models.ScheduleConfig{SlotInterval: 0, StartTime: "10:00", EndTime: "18:00"},
		},
		{
			name: "bad lunch bounds",
			cfg: models.ScheduleConfig{
				SlotInterval:  2,
				StartTime:     "10:00",
				EndTime:       "18:00",
				HasLunchBreak: true,
				LunchStart:    "13:60",
				LunchEnd:      "14:00",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Generate(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}
