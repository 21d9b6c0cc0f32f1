package planner

import (
	"testing"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
)

func weekWithSlots(slots ...model.StudySlot) []WeekEntry {
	day := &model.PlanDay{
		Date:  localDate(2024, time.June, 3),
		Slots: slots,
	}
	return BuildWeekGrid(map[DateKey]*model.PlanDay{NewDateKey(day.Date): day}, day.Date)
}

func TestComputeBoundsEmptyWeekUsesDefaults(t *testing.T) {
	bounds := ComputeBounds(BuildWeekGrid(nil, localDate(2024, time.June, 3)))

	// 8..22 default widened by one hour of padding on each side.
	if bounds.MinHour != 7 || bounds.MaxHour != 23 {
		t.Errorf("bounds = %+v, want {7 23}", bounds)
	}
}

func TestComputeBoundsFromSlots(t *testing.T) {
	bounds := ComputeBounds(weekWithSlots(
		model.StudySlot{StartTime: "10:00", EndTime: "11:30"},
		model.StudySlot{StartTime: "14:00", EndTime: "16:00"},
	))

	// min start 10, max end 11:30 rounds up to 12 then 16; padded to 9..17.
	if bounds.MinHour != 9 || bounds.MaxHour != 17 {
		t.Errorf("bounds = %+v, want {9 17}", bounds)
	}
}

func TestComputeBoundsClampsToDay(t *testing.T) {
	bounds := ComputeBounds(weekWithSlots(
		model.StudySlot{StartTime: "00:30", EndTime: "23:45"},
	))

	if bounds.MinHour != 0 || bounds.MaxHour != 24 {
		t.Errorf("bounds = %+v, want {0 24}", bounds)
	}
}

func TestTimeToOffsetMinutes(t *testing.T) {
	start, err := ParseClock("10:00")
	if err != nil {
		t.Fatal(err)
	}
	if got := TimeToOffsetMinutes(start, 9); got != 60 {
		t.Errorf("offset = %d, want 60", got)
	}
}

func TestSlotGeometryScenario(t *testing.T) {
	// Plan with one slot 10:00-11:30 on Monday 2024-06-03, grid requested
	// for Wednesday 2024-06-05 of the same week.
	slot := model.StudySlot{StartTime: "10:00", EndTime: "11:30"}
	entries := BuildWeekGrid(
		map[DateKey]*model.PlanDay{
			"2024-06-03": {Date: localDate(2024, time.June, 3), Slots: []model.StudySlot{slot}},
		},
		localDate(2024, time.June, 5),
	)

	if entries[0].Day == nil || len(entries[0].Day.Slots) != 1 {
		t.Fatal("slot not under the Monday column")
	}

	bounds := ComputeBounds(entries)
	const pxPerHour = 60.0
	geo, err := SlotGeometry(&entries[0].Day.Slots[0], bounds.MinHour, pxPerHour)
	if err != nil {
		t.Fatal(err)
	}

	wantTop := float64(10-bounds.MinHour) * pxPerHour
	wantHeight := 90.0 / 60 * pxPerHour
	if geo.Top != wantTop {
		t.Errorf("top = %v, want %v", geo.Top, wantTop)
	}
	if geo.Height != wantHeight {
		t.Errorf("height = %v, want %v", geo.Height, wantHeight)
	}
}

func TestSlotGeometryMinimumHeight(t *testing.T) {
	// A five-minute slot still renders at the minimum height, not at a
	// height proportional to five minutes.
	slot := model.StudySlot{StartTime: "09:00", EndTime: "09:05"}
	geo, err := SlotGeometry(&slot, 8, 60)
	if err != nil {
		t.Fatal(err)
	}
	if geo.Height != MinSlotHeightPx {
		t.Errorf("height = %v, want %v", geo.Height, MinSlotHeightPx)
	}
}

func TestSlotGeometryMonotonicInStartTime(t *testing.T) {
	earlier := model.StudySlot{StartTime: "09:00", EndTime: "10:00"}
	later := model.StudySlot{StartTime: "09:30", EndTime: "10:30"}

	geoEarlier, err := SlotGeometry(&earlier, 8, 50)
	if err != nil {
		t.Fatal(err)
	}
	geoLater, err := SlotGeometry(&later, 8, 50)
	if err != nil {
		t.Fatal(err)
	}
	if geoLater.Top <= geoEarlier.Top {
		t.Errorf("later slot top %v not below earlier slot top %v", geoLater.Top, geoEarlier.Top)
	}
}

func TestSlotGeometryMalformedTime(t *testing.T) {
	slot := model.StudySlot{StartTime: "not-a-time", EndTime: "10:00"}
	if _, err := SlotGeometry(&slot, 8, 60); err == nil {
		t.Error("expected error for malformed start time")
	}
}
