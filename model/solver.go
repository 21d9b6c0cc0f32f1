package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SolverStatus represents the state of an AI solver query
type SolverStatus string

const (
	SolverPending   SolverStatus = "pending"
	SolverCompleted SolverStatus = "completed"
	SolverFailed    SolverStatus = "failed"
)

// SolverQuery stores one AI question-solver request and its result.
// The result payload (answer, steps, confidence) is kept as JSON since its
// shape follows the AI provider's schema rather than a fixed table layout.
type SolverQuery struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	SubjectID    *uint          `gorm:"index" json:"subject_id,omitempty"`
	QuestionText string         `gorm:"type:text;not null" json:"question_text"`
	ImageKey     string         `gorm:"type:varchar(255)" json:"image_key,omitempty"` // Object-storage key of an uploaded question photo
	ImageURL     string         `gorm:"-" json:"image_url,omitempty"`                 // Time-limited download URL, filled on read
	Status       SolverStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Result       datatypes.JSON `gorm:"type:jsonb" json:"result,omitempty"`
	ErrorMsg     string         `gorm:"type:text" json:"error_msg,omitempty"`

	// Relationships
	User    User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Subject *Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:SET NULL" json:"subject,omitempty"`
}

// TableName specifies the table name for SolverQuery
func (SolverQuery) TableName() string {
	return "solver_queries"
}
