package model

import (
	"time"

	"gorm.io/gorm"
)

// PomodoroType enumerates the kinds of pomodoro intervals
type PomodoroType string

const (
	PomodoroWork       PomodoroType = "work"
	PomodoroShortBreak PomodoroType = "short_break"
	PomodoroLongBreak  PomodoroType = "long_break"
)

// PomodoroSession logs one completed (or interrupted) timer interval
type PomodoroSession struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	SubjectID   *uint          `gorm:"index" json:"subject_id,omitempty"`
	Type        PomodoroType   `gorm:"type:varchar(20);default:'work'" json:"type"`
	StartedAt   time.Time      `gorm:"not null" json:"started_at"`
	EndedAt     time.Time      `gorm:"not null" json:"ended_at"`
	Minutes     int            `gorm:"not null" json:"minutes"`
	Completed   bool           `gorm:"default:false" json:"completed"`
	Interrupted bool           `gorm:"default:false" json:"interrupted"`

	// Relationships
	User    User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Subject *Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:SET NULL" json:"subject,omitempty"`
}

// TableName specifies the table name for PomodoroSession
func (PomodoroSession) TableName() string {
	return "pomodoro_sessions"
}
