package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/planner"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrInvalidDay   = errors.New("invalid plan day")
	ErrSlotNotFound = errors.New("slot not found")
	ErrEmptyPlan    = errors.New("plan has no slots")
	ErrBadDateRange = errors.New("plan end date must not be before start date")
)

// PlanService owns study plans, their days and slots: creation, fetching,
// activation, deletion, the completion mutation and the week-grid read.
type PlanService struct {
	db *gorm.DB
}

// NewPlanService creates a new plan service
func NewPlanService(db *gorm.DB) *PlanService {
	return &PlanService{db: db}
}

// SlotInput describes one slot of a plan being created
type SlotInput struct {
	SubjectID uint   `json:"subject_id" validate:"required"`
	TopicID   *uint  `json:"topic_id"`
	StartTime string `json:"start_time" validate:"required,clocktime"`
	EndTime   string `json:"end_time" validate:"required,clocktime"`
	Type      string `json:"type" validate:"omitempty,oneof=study review practice break"`
	Note      string `json:"note" validate:"omitempty,max=2000"`
}

// DayInput describes one day of a plan being created
type DayInput struct {
	Date  string      `json:"date" validate:"required,datekey"`
	Slots []SlotInput `json:"slots" validate:"required,min=1,dive"`
}

// CreatePlanRequest describes a manually built plan
type CreatePlanRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description" validate:"omitempty,max=2000"`
	StartDate   string     `json:"start_date" validate:"required,datekey"`
	EndDate     string     `json:"end_date" validate:"required,datekey"`
	Activate    bool       `json:"activate"`
	Days        []DayInput `json:"days" validate:"required,min=1,dive"`
}

// CreatePlan validates and persists a manually built plan. Validation
// failures (malformed dates, non-positive slot durations, duplicate days)
// reject the whole plan before anything is written.
func (s *PlanService) CreatePlan(ctx context.Context, userID uint, req CreatePlanRequest) (*model.StudyPlan, error) {
	startKey, err := planner.ParseDateKey(req.StartDate)
	if err != nil {
		return nil, err
	}
	endKey, err := planner.ParseDateKey(req.EndDate)
	if err != nil {
		return nil, err
	}
	if endKey.Time().Before(startKey.Time()) {
		return nil, ErrBadDateRange
	}

	plan := model.StudyPlan{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   startKey.Time(),
		EndDate:     endKey.Time(),
	}

	seen := make(map[planner.DateKey]bool, len(req.Days))
	for _, dayInput := range req.Days {
		dayKey, err := planner.ParseDateKey(dayInput.Date)
		if err != nil {
			return nil, err
		}
		if seen[dayKey] {
			return nil, fmt.Errorf("%w: duplicate day %s", ErrInvalidDay, dayKey)
		}
		seen[dayKey] = true

		date := dayKey.Time()
		if date.Before(startKey.Time()) || date.After(endKey.Time()) {
			return nil, fmt.Errorf("%w: %s is outside the plan date range", ErrInvalidDay, dayKey)
		}

		day := model.PlanDay{Date: date}
		for _, slotInput := range dayInput.Slots {
			day.Slots = append(day.Slots, model.StudySlot{
				SubjectID: slotInput.SubjectID,
				TopicID:   slotInput.TopicID,
				StartTime: slotInput.StartTime,
				EndTime:   slotInput.EndTime,
				Type:      model.SlotType(slotInput.Type),
				Note:      slotInput.Note,
			})
		}
		plan.Days = append(plan.Days, day)
	}

	// Normalization recomputes durations and daily goals and rejects
	// malformed time ranges before the transaction starts.
	if err := planner.NormalizePlan(&plan); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Activate {
			if err := deactivatePlans(tx, userID); err != nil {
				return err
			}
			plan.IsActive = true
		}
		return tx.Create(&plan).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	return s.FetchPlan(ctx, plan.ID, userID)
}

// FetchPlan loads a plan with its days and slots, days ordered by date,
// normalized through the single ingestion step so downstream consumers
// never see stale durations or missing defaults.
func (s *PlanService) FetchPlan(ctx context.Context, planID, userID uint) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	err := s.db.WithContext(ctx).
		Preload("Days", func(db *gorm.DB) *gorm.DB {
			return db.Order("plan_days.date ASC")
		}).
		Preload("Days.Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("study_slots.start_time ASC, study_slots.id ASC")
		}).
		Preload("Days.Slots.Subject").
		Preload("Days.Slots.Topic").
		Where("user_id = ?", userID).
		First(&plan, planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to fetch plan: %w", err)
	}

	if err := planner.NormalizePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan %d failed normalization: %w", plan.ID, err)
	}
	return &plan, nil
}

// ListPlans returns a user's plans without day data, newest first
func (s *PlanService) ListPlans(ctx context.Context, userID uint) ([]model.StudyPlan, error) {
	var plans []model.StudyPlan
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error
	return plans, err
}

// ActivePlan returns the user's single active plan, if any
func (s *PlanService) ActivePlan(ctx context.Context, userID uint) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.FetchPlan(ctx, plan.ID, userID)
}

// ActivatePlan makes the given plan the user's only active plan
func (s *PlanService) ActivatePlan(ctx context.Context, planID, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan model.StudyPlan
		if err := tx.Where("user_id = ?", userID).First(&plan, planID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanNotFound
			}
			return err
		}
		if err := deactivatePlans(tx, userID); err != nil {
			return err
		}
		return tx.Model(&plan).Update("is_active", true).Error
	})
}

// DeletePlan removes a plan together with its days and slots
func (s *PlanService) DeletePlan(ctx context.Context, planID, userID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", planID, userID).
		Delete(&model.StudyPlan{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrPlanNotFound
	}
	return nil
}

// SetSlotCompletion flips a slot's completion flag together with its
// question-outcome counts in one atomic update. A nil outcome (and any
// "mark incomplete" call) clears the stored counts. A missing slot is
// terminal for the operation; callers reconcile with a refresh.
func (s *PlanService) SetSlotCompletion(ctx context.Context, slotID, userID uint, completed bool, outcome *planner.Outcome) error {
	var slot model.StudySlot
	err := s.db.WithContext(ctx).
		Joins("JOIN plan_days ON plan_days.id = study_slots.plan_day_id").
		Joins("JOIN study_plans ON study_plans.id = plan_days.plan_id").
		Where("study_slots.id = ? AND study_plans.user_id = ?", slotID, userID).
		First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSlotNotFound
		}
		return fmt.Errorf("failed to load slot: %w", err)
	}

	updates := map[string]interface{}{
		"completed": completed,
		"correct":   0,
		"wrong":     0,
		"blank":     0,
	}
	if completed && outcome != nil {
		updates["correct"] = clampCount(outcome.Correct)
		updates["wrong"] = clampCount(outcome.Wrong)
		updates["blank"] = clampCount(outcome.Blank)
	}

	if err := s.db.WithContext(ctx).Model(&slot).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update slot completion: %w", err)
	}
	return nil
}

// WeekGridEntry is one rendered column of the week grid
type WeekGridEntry struct {
	Date    time.Time        `json:"date"`
	DateKey planner.DateKey  `json:"date_key"`
	Day     *model.PlanDay   `json:"day,omitempty"`
	Slots   []RenderedSlot   `json:"slots"`
}

// RenderedSlot pairs a slot with its pixel geometry
type RenderedSlot struct {
	Slot     *model.StudySlot `json:"slot"`
	Geometry planner.Geometry `json:"geometry"`
}

// WeekGridResult is the full payload of the week-grid read
type WeekGridResult struct {
	Bounds     planner.Bounds  `json:"bounds"`
	PxPerHour  float64         `json:"px_per_hour"`
	Entries    []WeekGridEntry `json:"entries"`
}

// WeekGrid builds the Monday-aligned 7-day view of a plan for the week
// containing ref, with layout geometry precomputed per slot.
func (s *PlanService) WeekGrid(ctx context.Context, planID, userID uint, ref time.Time, pxPerHour float64) (*WeekGridResult, error) {
	plan, err := s.FetchPlan(ctx, planID, userID)
	if err != nil {
		return nil, err
	}

	entries := planner.BuildWeekGrid(planner.DayIndex(plan.Days), ref)
	bounds := planner.ComputeBounds(entries)

	result := &WeekGridResult{
		Bounds:    bounds,
		PxPerHour: pxPerHour,
		Entries:   make([]WeekGridEntry, 0, len(entries)),
	}
	for _, entry := range entries {
		rendered := WeekGridEntry{
			Date:    entry.Date,
			DateKey: entry.Key,
			Day:     entry.Day,
			Slots:   []RenderedSlot{},
		}
		if entry.Day != nil {
			for i := range entry.Day.Slots {
				slot := &entry.Day.Slots[i]
				geometry, err := planner.SlotGeometry(slot, bounds.MinHour, pxPerHour)
				if err != nil {
					return nil, fmt.Errorf("slot %d failed layout: %w", slot.ID, err)
				}
				rendered.Slots = append(rendered.Slots, RenderedSlot{Slot: slot, Geometry: geometry})
			}
		}
		result.Entries = append(result.Entries, rendered)
	}
	return result, nil
}

func deactivatePlans(tx *gorm.DB, userID uint) error {
	return tx.Model(&model.StudyPlan{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false).Error
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
