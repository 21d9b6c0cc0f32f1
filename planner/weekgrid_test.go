package planner

import (
	"testing"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
)

func localDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestMondayOf(t *testing.T) {
	cases := []struct {
		name string
		ref  time.Time
		want time.Time
	}{
		{"monday stays", localDate(2024, time.June, 3), localDate(2024, time.June, 3)},
		{"wednesday shifts back", localDate(2024, time.June, 5), localDate(2024, time.June, 3)},
		{"sunday counts as day seven", localDate(2024, time.June, 9), localDate(2024, time.June, 3)},
		{"saturday", localDate(2024, time.June, 8), localDate(2024, time.June, 3)},
		{"mid-day reference truncates", time.Date(2024, time.June, 5, 17, 45, 12, 0, time.Local), localDate(2024, time.June, 3)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MondayOf(tc.ref)
			if !got.Equal(tc.want) {
				t.Errorf("MondayOf(%v) = %v, want %v", tc.ref, got, tc.want)
			}
		})
	}
}

func TestBuildWeekGridShape(t *testing.T) {
	refs := []time.Time{
		localDate(2024, time.June, 3),
		localDate(2024, time.June, 9),
		localDate(2023, time.December, 31), // Sunday across a year boundary
		localDate(2024, time.February, 29),
	}

	for _, ref := range refs {
		entries := BuildWeekGrid(nil, ref)
		if len(entries) != DaysPerWeek {
			t.Fatalf("BuildWeekGrid(%v): got %d entries, want %d", ref, len(entries), DaysPerWeek)
		}
		if entries[0].Date.Weekday() != time.Monday {
			t.Errorf("BuildWeekGrid(%v): first entry is %v, want Monday", ref, entries[0].Date.Weekday())
		}
		for i := 1; i < len(entries); i++ {
			if diff := entries[i].Date.Sub(entries[i-1].Date); diff != 24*time.Hour {
				t.Errorf("BuildWeekGrid(%v): entries %d..%d are %v apart, want 24h", ref, i-1, i, diff)
			}
		}
	}
}

func TestBuildWeekGridLooksUpDaysByDateKey(t *testing.T) {
	day := &model.PlanDay{
		Date: localDate(2024, time.June, 3),
		Slots: []model.StudySlot{
			{StartTime: "10:00", EndTime: "11:30"},
		},
	}
	days := map[DateKey]*model.PlanDay{
		NewDateKey(day.Date): day,
	}

	// Wednesday of the same week must place the day under the Monday column.
	entries := BuildWeekGrid(days, localDate(2024, time.June, 5))

	if entries[0].Key != "2024-06-03" {
		t.Fatalf("monday key = %s, want 2024-06-03", entries[0].Key)
	}
	if entries[0].Day != day {
		t.Errorf("monday column did not pick up the plan day")
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Day != nil {
			t.Errorf("entry %d (%s) should be empty", i, entries[i].Key)
		}
	}
}

func TestBuildWeekGridIdempotent(t *testing.T) {
	day := &model.PlanDay{Date: localDate(2024, time.June, 4)}
	days := map[DateKey]*model.PlanDay{NewDateKey(day.Date): day}
	ref := localDate(2024, time.June, 7)

	first := BuildWeekGrid(days, ref)
	second := BuildWeekGrid(days, ref)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key != second[i].Key || !first[i].Date.Equal(second[i].Date) || first[i].Day != second[i].Day {
			t.Errorf("entry %d differs between identical invocations", i)
		}
	}
}

func TestDayIndex(t *testing.T) {
	days := []model.PlanDay{
		{ID: 1, Date: localDate(2024, time.June, 3)},
		{ID: 2, Date: localDate(2024, time.June, 4)},
	}

	index := DayIndex(days)

	if len(index) != 2 {
		t.Fatalf("index has %d entries, want 2", len(index))
	}
	if got := index["2024-06-04"]; got == nil || got.ID != 2 {
		t.Errorf("index[2024-06-04] = %v, want day 2", got)
	}
}
