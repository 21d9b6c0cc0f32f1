package model

import (
	"time"

	"gorm.io/gorm"
)

// StudySession is a manually logged block of study work, independent of any
// plan. Question counts follow the same correct/wrong/blank outcome shape
// used by slot completion.
type StudySession struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	SubjectID uint           `gorm:"not null;index" json:"subject_id"`
	TopicID   *uint          `gorm:"index" json:"topic_id,omitempty"`
	Date      time.Time      `gorm:"not null;index;type:date" json:"date"`
	Minutes   int            `gorm:"not null" json:"minutes"`
	Correct   int            `gorm:"default:0" json:"correct"`
	Wrong     int            `gorm:"default:0" json:"wrong"`
	Blank     int            `gorm:"default:0" json:"blank"`
	Note      string         `gorm:"type:text" json:"note,omitempty"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Subject Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Topic   *Topic  `gorm:"foreignKey:TopicID;constraint:OnDelete:SET NULL" json:"topic,omitempty"`
}

// TableName specifies the table name for StudySession
func (StudySession) TableName() string {
	return "study_sessions"
}

// DailyStudyStat is a per-(user, date) rollup of study sessions, maintained
// by the nightly aggregation cron job.
type DailyStudyStat struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	UserID       uint           `gorm:"not null;index:idx_daily_stat_user_date,unique" json:"user_id"`
	Date         time.Time      `gorm:"not null;index:idx_daily_stat_user_date,unique;type:date" json:"date"`
	TotalMinutes int            `gorm:"default:0" json:"total_minutes"`
	Sessions     int            `gorm:"default:0" json:"sessions"`
	Correct      int            `gorm:"default:0" json:"correct"`
	Wrong        int            `gorm:"default:0" json:"wrong"`
	Blank        int            `gorm:"default:0" json:"blank"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for DailyStudyStat
func (DailyStudyStat) TableName() string {
	return "daily_study_stats"
}
