package planner

import (
	"errors"
	"fmt"

	"github.com/MertKocakaplan/aceit-sub001/model"
)

var (
	ErrSlotTimeOrder   = errors.New("slot start time must be before end time")
	ErrUnknownSlotType = errors.New("unknown slot type")
)

// ValidateSlotTimes parses a slot's time range and enforces start < end on
// the same calendar day. It returns the parsed times and the recomputed
// duration in minutes.
func ValidateSlotTimes(startTime, endTime string) (ClockTime, ClockTime, int, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return 0, 0, 0, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return 0, 0, 0, err
	}
	if start >= end {
		return 0, 0, 0, fmt.Errorf("%w: %s >= %s", ErrSlotTimeOrder, start, end)
	}
	return start, end, end.Minutes() - start.Minutes(), nil
}

// NormalizeSlot is the single ingestion-time normalization step: it fills
// every optional field with an explicit default and recomputes the derived
// duration, so downstream logic never re-derives defaults ad hoc. Malformed
// time ranges are rejected here, before any rendering or persistence.
func NormalizeSlot(slot *model.StudySlot) error {
	_, _, duration, err := ValidateSlotTimes(slot.StartTime, slot.EndTime)
	if err != nil {
		return err
	}
	slot.Duration = duration

	switch slot.Type {
	case model.SlotTypeStudy, model.SlotTypeReview, model.SlotTypePractice, model.SlotTypeBreak:
	case "":
		slot.Type = model.SlotTypeStudy
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSlotType, slot.Type)
	}

	if slot.Correct < 0 {
		slot.Correct = 0
	}
	if slot.Wrong < 0 {
		slot.Wrong = 0
	}
	if slot.Blank < 0 {
		slot.Blank = 0
	}
	return nil
}

// NormalizePlan normalizes every slot of every day in place and recomputes
// each day's goal duration as the sum of its non-break slot durations.
func NormalizePlan(plan *model.StudyPlan) error {
	for d := range plan.Days {
		day := &plan.Days[d]
		goal := 0
		for s := range day.Slots {
			if err := NormalizeSlot(&day.Slots[s]); err != nil {
				return fmt.Errorf("day %s slot %d: %w", NewDateKey(day.Date), s, err)
			}
			if day.Slots[s].Type != model.SlotTypeBreak {
				goal += day.Slots[s].Duration
			}
		}
		day.DailyGoalMinutes = goal
	}
	return nil
}
