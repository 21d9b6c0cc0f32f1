package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered user in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"type:varchar(20);default:'student'" json:"role"` // student, admin
	ExamYearID   *uint          `gorm:"index" json:"exam_year_id,omitempty"`            // Target exam year
	TokenVersion int            `gorm:"default:0" json:"-"`                             // Increment to invalidate all user tokens

	// Relationships
	ExamYear         *ExamYear           `gorm:"foreignKey:ExamYearID;constraint:OnDelete:SET NULL" json:"exam_year,omitempty"`
	Plans            []StudyPlan         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Sessions         []StudySession      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PomodoroSessions []PomodoroSession   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	SolverQueries    []SolverQuery       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AdminAuditLog    []AdminAuditLog     `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist   []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
