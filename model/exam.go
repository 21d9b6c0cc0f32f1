package model

import (
	"time"

	"gorm.io/gorm"
)

// ExamYear represents one edition of the target exam (e.g. 2025, 2026)
type ExamYear struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Year      int            `gorm:"uniqueIndex;not null" json:"year"`
	Name      string         `gorm:"type:varchar(100);not null" json:"name"`
	ExamDate  *time.Time     `json:"exam_date,omitempty"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	TopicCounts []TopicQuestionCount `gorm:"foreignKey:ExamYearID;constraint:OnDelete:CASCADE" json:"topic_counts,omitempty"`
}

// TableName specifies the table name for ExamYear
func (ExamYear) TableName() string {
	return "exam_years"
}

// Subject represents an exam subject (e.g. Mathematics, Physics)
type Subject struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Code      string         `gorm:"type:varchar(20)" json:"code"`
	Color     string         `gorm:"type:varchar(20);default:'#6366f1'" json:"color"` // Display color for calendar slots
	SortOrder int            `gorm:"default:0" json:"sort_order"`

	// Relationships
	Topics []Topic `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"topics,omitempty"`
}

// TableName specifies the table name for Subject
func (Subject) TableName() string {
	return "subjects"
}

// Topic represents a topic within a subject
type Topic struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	SubjectID uint           `gorm:"not null;index" json:"subject_id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	SortOrder int            `gorm:"default:0" json:"sort_order"`

	// Relationships
	Subject Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Topic
func (Topic) TableName() string {
	return "topics"
}

// TopicQuestionCount records how many questions a topic carried in a given
// exam year. Maintained by admins, either by hand or through the table
// import (official HTML/PDF topic distribution documents).
type TopicQuestionCount struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	ExamYearID    uint           `gorm:"not null;index:idx_topic_count_year_topic,unique" json:"exam_year_id"`
	TopicID       uint           `gorm:"not null;index:idx_topic_count_year_topic,unique" json:"topic_id"`
	QuestionCount int            `gorm:"not null;default:0" json:"question_count"`

	// Relationships
	ExamYear ExamYear `gorm:"foreignKey:ExamYearID;constraint:OnDelete:CASCADE" json:"-"`
	Topic    Topic    `gorm:"foreignKey:TopicID;constraint:OnDelete:CASCADE" json:"topic,omitempty"`
}

// TableName specifies the table name for TopicQuestionCount
func (TopicQuestionCount) TableName() string {
	return "topic_question_counts"
}
