package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
)

func TestNewDateKeyUsesLocalCalendarFields(t *testing.T) {
	// 23:30 local on June 3rd must key as June 3rd regardless of what the
	// same instant is in UTC.
	late := time.Date(2024, time.June, 3, 23, 30, 0, 0, time.Local)
	if key := NewDateKey(late); key != "2024-06-03" {
		t.Errorf("key = %s, want 2024-06-03", key)
	}
}

func TestParseDateKey(t *testing.T) {
	key, err := ParseDateKey("2024-06-03")
	if err != nil {
		t.Fatal(err)
	}
	if key != "2024-06-03" {
		t.Errorf("key = %s, want 2024-06-03", key)
	}
	if got := key.Time(); got.Day() != 3 || got.Month() != time.June {
		t.Errorf("key.Time() = %v", got)
	}

	if _, err := ParseDateKey("03/06/2024"); !errors.Is(err, ErrMalformedDate) {
		t.Errorf("err = %v, want ErrMalformedDate", err)
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    ClockTime
		wantErr bool
	}{
		{"09:00", 9 * 60, false},
		{"23:59", 23*60 + 59, false},
		{"10:30:45", 10*60 + 30, false}, // seconds accepted and discarded
		{"00:00", 0, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrMalformedClock) {
				t.Errorf("ParseClock(%q) err = %v, want ErrMalformedClock", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q) unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestClockTimeString(t *testing.T) {
	c, err := ParseClock("09:05")
	if err != nil {
		t.Fatal(err)
	}
	if c.String() != "09:05" {
		t.Errorf("String() = %s, want 09:05", c.String())
	}
}

func TestValidateSlotTimes(t *testing.T) {
	start, end, duration, err := ValidateSlotTimes("10:00", "11:30")
	if err != nil {
		t.Fatal(err)
	}
	if start.String() != "10:00" || end.String() != "11:30" || duration != 90 {
		t.Errorf("got %s-%s %dm, want 10:00-11:30 90m", start, end, duration)
	}

	if _, _, _, err := ValidateSlotTimes("11:00", "11:00"); !errors.Is(err, ErrSlotTimeOrder) {
		t.Errorf("equal times: err = %v, want ErrSlotTimeOrder", err)
	}
	if _, _, _, err := ValidateSlotTimes("12:00", "11:00"); !errors.Is(err, ErrSlotTimeOrder) {
		t.Errorf("inverted times: err = %v, want ErrSlotTimeOrder", err)
	}
}

func TestNormalizeSlotRecomputesDerivedFields(t *testing.T) {
	slot := model.StudySlot{
		StartTime: "10:00",
		EndTime:   "11:30",
		Duration:  5, // stale, must be recomputed
		Correct:   -2,
	}

	if err := NormalizeSlot(&slot); err != nil {
		t.Fatal(err)
	}

	if slot.Duration != 90 {
		t.Errorf("duration = %d, want 90", slot.Duration)
	}
	if slot.Type != model.SlotTypeStudy {
		t.Errorf("type = %s, want study default", slot.Type)
	}
	if slot.Correct != 0 {
		t.Errorf("correct = %d, want clamped to 0", slot.Correct)
	}
}

func TestNormalizeSlotRejectsUnknownType(t *testing.T) {
	slot := model.StudySlot{StartTime: "10:00", EndTime: "11:00", Type: "nap"}
	if err := NormalizeSlot(&slot); !errors.Is(err, ErrUnknownSlotType) {
		t.Errorf("err = %v, want ErrUnknownSlotType", err)
	}
}

func TestNormalizePlanComputesDailyGoal(t *testing.T) {
	plan := model.StudyPlan{
		Days: []model.PlanDay{
			{
				Date: localDate(2024, time.June, 3),
				Slots: []model.StudySlot{
					{StartTime: "10:00", EndTime: "11:00", Type: model.SlotTypeStudy},
					{StartTime: "11:00", EndTime: "11:15", Type: model.SlotTypeBreak},
					{StartTime: "11:15", EndTime: "12:00", Type: model.SlotTypePractice},
				},
			},
		},
	}

	if err := NormalizePlan(&plan); err != nil {
		t.Fatal(err)
	}

	// Breaks do not count toward the daily goal.
	if got := plan.Days[0].DailyGoalMinutes; got != 105 {
		t.Errorf("daily goal = %d, want 105", got)
	}
}
