package planner

import (
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
)

// DaysPerWeek is the number of entries in a week grid.
const DaysPerWeek = 7

// WeekEntry is one column of the week grid. Day is nil when the plan has no
// data for that date; rendering an empty-state placeholder is the caller's
// concern, not this package's.
type WeekEntry struct {
	Date time.Time      `json:"date"`
	Key  DateKey        `json:"date_key"`
	Day  *model.PlanDay `json:"day,omitempty"`
}

// MondayOf returns local midnight of the Monday of the week containing ref.
// time.Weekday numbers Sunday as 0; for ISO week alignment Sunday counts as day
// 7, so a Sunday reference shifts back six days rather than forward one.
func MondayOf(ref time.Time) time.Time {
	wd := int(ref.Weekday())
	if wd == 0 {
		wd = 7
	}
	monday := ref.AddDate(0, 0, -(wd - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
}

// BuildWeekGrid maps plan days onto the fixed 7-day week containing ref,
// Monday through Sunday. Lookup is by canonical DateKey, so a plan day keyed
// on its local calendar date can never miss its column over a timezone
// difference. The function is total and pure: any ref yields exactly seven
// consecutive entries.
func BuildWeekGrid(days map[DateKey]*model.PlanDay, ref time.Time) []WeekEntry {
	monday := MondayOf(ref)

	entries := make([]WeekEntry, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		date := monday.AddDate(0, 0, i)
		key := NewDateKey(date)
		entries = append(entries, WeekEntry{
			Date: date,
			Key:  key,
			Day:  days[key],
		})
	}
	return entries
}

// DayIndex maps plan days by their canonical date key for grid lookup.
func DayIndex(days []model.PlanDay) map[DateKey]*model.PlanDay {
	index := make(map[DateKey]*model.PlanDay, len(days))
	for i := range days {
		index[NewDateKey(days[i].Date)] = &days[i]
	}
	return index
}
