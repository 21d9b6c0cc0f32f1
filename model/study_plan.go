package model

import (
	"time"

	"gorm.io/gorm"
)

// SlotType enumerates the kinds of scheduled intervals in a plan day
type SlotType string

const (
	SlotTypeStudy    SlotType = "study"
	SlotTypeReview   SlotType = "review"
	SlotTypePractice SlotType = "practice"
	SlotTypeBreak    SlotType = "break"
)

// StudyPlan represents a user's study schedule over a date range.
// At most one plan per user is active at a time; activation is enforced
// inside a transaction by the plan service.
type StudyPlan struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	StartDate   time.Time      `gorm:"not null" json:"start_date"`
	EndDate     time.Time      `gorm:"not null" json:"end_date"`
	IsActive    bool           `gorm:"default:false;index" json:"is_active"`
	AIGenerated bool           `gorm:"default:false" json:"ai_generated"`

	// Relationships
	User User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Days []PlanDay `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"days,omitempty"`
}

// TableName specifies the table name for StudyPlan
func (StudyPlan) TableName() string {
	return "study_plans"
}

// PlanDay is one calendar date within a plan. Exactly one row exists per
// (plan, date); days are created at plan-build time and only mutated
// through their slots.
type PlanDay struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	PlanID           uint           `gorm:"not null;index:idx_plan_day_date,unique" json:"plan_id"`
	Date             time.Time      `gorm:"not null;index:idx_plan_day_date,unique;type:date" json:"date"`
	DailyGoalMinutes int            `gorm:"default:0" json:"daily_goal_minutes"`

	// Relationships
	Plan  StudyPlan   `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"-"`
	Slots []StudySlot `gorm:"foreignKey:PlanDayID;constraint:OnDelete:CASCADE" json:"slots,omitempty"`
}

// TableName specifies the table name for PlanDay
func (PlanDay) TableName() string {
	return "plan_days"
}

// StudySlot is a single scheduled interval inside a plan day. Start and end
// are same-day wall-clock times in "HH:MM" form with start < end; duration
// is recomputed from them, never trusted from stale state. The completion
// flag and its question-outcome counts are written atomically by the plan
// service's completion mutation.
type StudySlot struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	PlanDayID   uint           `gorm:"not null;index" json:"plan_day_id"`
	SubjectID   uint           `gorm:"not null;index" json:"subject_id"`
	TopicID     *uint          `gorm:"index" json:"topic_id,omitempty"`
	StartTime   string         `gorm:"type:varchar(8);not null" json:"start_time"` // HH:MM
	EndTime     string         `gorm:"type:varchar(8);not null" json:"end_time"`   // HH:MM
	Duration    int            `gorm:"not null" json:"duration"`                   // minutes, derived
	Type        SlotType       `gorm:"type:varchar(20);default:'study'" json:"type"`
	Completed   bool           `gorm:"default:false" json:"completed"`
	Correct     int            `gorm:"default:0" json:"correct"`
	Wrong       int            `gorm:"default:0" json:"wrong"`
	Blank       int            `gorm:"default:0" json:"blank"`
	Note        string         `gorm:"type:text" json:"note,omitempty"`
	AIRationale string         `gorm:"type:text" json:"ai_rationale,omitempty"` // Why the generator placed this slot here

	// Relationships
	PlanDay PlanDay `gorm:"foreignKey:PlanDayID;constraint:OnDelete:CASCADE" json:"-"`
	Subject Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Topic   *Topic  `gorm:"foreignKey:TopicID;constraint:OnDelete:SET NULL" json:"topic,omitempty"`
}

// TableName specifies the table name for StudySlot
func (StudySlot) TableName() string {
	return "study_slots"
}
