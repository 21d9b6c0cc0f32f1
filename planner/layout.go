package planner

import (
	"github.com/MertKocakaplan/aceit-sub001/model"
)

const (
	// DefaultMinHour and DefaultMaxHour bound the time axis when a week has
	// no slots at all (before padding).
	DefaultMinHour = 8
	DefaultMaxHour = 22

	// BoundsPaddingHours widens the computed window on each side.
	BoundsPaddingHours = 1

	// MinSlotHeightPx keeps very short slots tappable and legible.
	MinSlotHeightPx = 40.0
)

// Bounds is the vertical time axis of a rendered week, in whole hours.
type Bounds struct {
	MinHour int `json:"min_hour"`
	MaxHour int `json:"max_hour"`
}

// Geometry is the pixel placement of one slot inside its day column.
type Geometry struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// ComputeBounds scans every slot across all seven days and returns the
// axis window: minimum start hour to maximum end hour (rounded up when the
// end has nonzero minutes), padded by one hour each side and clamped to
// [0, 24]. A week with no slots yields the default 08:00-22:00 window,
// likewise padded. Slots whose times fail to parse are skipped; ingestion
// normalization rejects those before they reach layout.
func ComputeBounds(entries []WeekEntry) Bounds {
	minHour, maxHour := -1, -1

	for _, entry := range entries {
		if entry.Day == nil {
			continue
		}
		for i := range entry.Day.Slots {
			start, err := ParseClock(entry.Day.Slots[i].StartTime)
			if err != nil {
				continue
			}
			end, err := ParseClock(entry.Day.Slots[i].EndTime)
			if err != nil {
				continue
			}

			startHour := start.Hour()
			endHour := end.Hour()
			if end.Minute() > 0 {
				endHour++
			}

			if minHour == -1 || startHour < minHour {
				minHour = startHour
			}
			if maxHour == -1 || endHour > maxHour {
				maxHour = endHour
			}
		}
	}

	if minHour == -1 {
		minHour, maxHour = DefaultMinHour, DefaultMaxHour
	}

	minHour -= BoundsPaddingHours
	maxHour += BoundsPaddingHours
	if minHour < 0 {
		minHour = 0
	}
	if maxHour > 24 {
		maxHour = 24
	}

	return Bounds{MinHour: minHour, MaxHour: maxHour}
}

// TimeToOffsetMinutes returns the minutes elapsed between minHour:00 and t.
func TimeToOffsetMinutes(t ClockTime, minHour int) int {
	return t.Minutes() - minHour*60
}

// SlotGeometry computes the pixel placement of a slot on an axis starting
// at minHour. Height is proportional to duration but never drops below
// MinSlotHeightPx. Placement is monotonic in start time; overlapping slots
// are not special-cased and render in insertion order.
func SlotGeometry(slot *model.StudySlot, minHour int, pxPerHour float64) (Geometry, error) {
	start, err := ParseClock(slot.StartTime)
	if err != nil {
		return Geometry{}, err
	}
	end, err := ParseClock(slot.EndTime)
	if err != nil {
		return Geometry{}, err
	}

	duration := end.Minutes() - start.Minutes()

	top := float64(TimeToOffsetMinutes(start, minHour)) / 60 * pxPerHour
	height := float64(duration) / 60 * pxPerHour
	if height < MinSlotHeightPx {
		height = MinSlotHeightPx
	}

	return Geometry{Top: top, Height: height}, nil
}
