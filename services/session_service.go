package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/planner"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrSessionNotFound = errors.New("study session not found")

// SessionService manages manually logged study sessions and the per-day
// statistics derived from them.
type SessionService struct {
	db *gorm.DB
}

// NewSessionService creates a new session service
func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// LogSessionRequest describes a session being recorded
type LogSessionRequest struct {
	SubjectID uint   `json:"subject_id" validate:"required"`
	TopicID   *uint  `json:"topic_id"`
	Date      string `json:"date" validate:"required,datekey"`
	Minutes   int    `json:"minutes" validate:"required,min=1,max=1440"`
	Correct   int    `json:"correct" validate:"omitempty,min=0"`
	Wrong     int    `json:"wrong" validate:"omitempty,min=0"`
	Blank     int    `json:"blank" validate:"omitempty,min=0"`
	Note      string `json:"note" validate:"omitempty,max=2000"`
}

// LogSession records one study session for the given local calendar date
func (s *SessionService) LogSession(ctx context.Context, userID uint, req LogSessionRequest) (*model.StudySession, error) {
	dateKey, err := planner.ParseDateKey(req.Date)
	if err != nil {
		return nil, err
	}

	session := &model.StudySession{
		UserID:    userID,
		SubjectID: req.SubjectID,
		TopicID:   req.TopicID,
		Date:      dateKey.Time(),
		Minutes:   req.Minutes,
		Correct:   clampCount(req.Correct),
		Wrong:     clampCount(req.Wrong),
		Blank:     clampCount(req.Blank),
		Note:      req.Note,
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to log session: %w", err)
	}
	return session, nil
}

// ListSessions returns the user's sessions in a date range, newest first
func (s *SessionService) ListSessions(ctx context.Context, userID uint, from, to string) ([]model.StudySession, error) {
	query := s.db.WithContext(ctx).
		Preload("Subject").
		Preload("Topic").
		Where("user_id = ?", userID)

	if from != "" {
		fromKey, err := planner.ParseDateKey(from)
		if err != nil {
			return nil, err
		}
		query = query.Where("date >= ?", fromKey.Time())
	}
	if to != "" {
		toKey, err := planner.ParseDateKey(to)
		if err != nil {
			return nil, err
		}
		query = query.Where("date <= ?", toKey.Time())
	}

	var sessions []model.StudySession
	err := query.Order("date DESC, created_at DESC").Find(&sessions).Error
	return sessions, err
}

// DeleteSession removes a session owned by the user
func (s *SessionService) DeleteSession(ctx context.Context, sessionID, userID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Delete(&model.StudySession{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// SubjectBreakdown is per-subject aggregated study time
type SubjectBreakdown struct {
	SubjectID   uint   `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Minutes     int    `json:"minutes"`
	Correct     int    `json:"correct"`
	Wrong       int    `json:"wrong"`
	Blank       int    `json:"blank"`
}

// Summary aggregates a user's sessions over a date range
type Summary struct {
	TotalMinutes int                `json:"total_minutes"`
	Sessions     int                `json:"sessions"`
	Correct      int                `json:"correct"`
	Wrong        int                `json:"wrong"`
	Blank        int                `json:"blank"`
	Subjects     []SubjectBreakdown `json:"subjects"`
}

// Summarize computes totals and a per-subject breakdown for a date range
func (s *SessionService) Summarize(ctx context.Context, userID uint, from, to string) (*Summary, error) {
	fromKey, err := planner.ParseDateKey(from)
	if err != nil {
		return nil, err
	}
	toKey, err := planner.ParseDateKey(to)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Subjects: []SubjectBreakdown{}}

	row := s.db.WithContext(ctx).
		Model(&model.StudySession{}).
		Select("COALESCE(SUM(minutes),0) AS total_minutes, COUNT(*) AS sessions, COALESCE(SUM(correct),0) AS correct, COALESCE(SUM(wrong),0) AS wrong, COALESCE(SUM(blank),0) AS blank").
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, fromKey.Time(), toKey.Time()).
		Row()
	if err := row.Scan(&summary.TotalMinutes, &summary.Sessions, &summary.Correct, &summary.Wrong, &summary.Blank); err != nil {
		return nil, fmt.Errorf("failed to aggregate sessions: %w", err)
	}

	err = s.db.WithContext(ctx).
		Model(&model.StudySession{}).
		Select("study_sessions.subject_id, subjects.name AS subject_name, COALESCE(SUM(minutes),0) AS minutes, COALESCE(SUM(correct),0) AS correct, COALESCE(SUM(wrong),0) AS wrong, COALESCE(SUM(blank),0) AS blank").
		Joins("JOIN subjects ON subjects.id = study_sessions.subject_id").
		Where("study_sessions.user_id = ? AND study_sessions.date BETWEEN ? AND ?", userID, fromKey.Time(), toKey.Time()).
		Group("study_sessions.subject_id, subjects.name").
		Order("minutes DESC").
		Scan(&summary.Subjects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute subject breakdown: %w", err)
	}
	return summary, nil
}

// DailyStats returns the rolled-up per-day rows for the user, newest first
func (s *SessionService) DailyStats(ctx context.Context, userID uint, limit int) ([]model.DailyStudyStat, error) {
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	var stats []model.DailyStudyStat
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&stats).Error
	return stats, err
}

// RollupDay recomputes the DailyStudyStat rows for every user that logged a
// session on the given local date. Existing rows are upserted on the
// (user, date) unique index. Called by the nightly cron job and usable ad
// hoc for backfills.
func (s *SessionService) RollupDay(ctx context.Context, date time.Time) (int, error) {
	day := planner.NewDateKey(date).Time()

	var rollups []model.DailyStudyStat
	err := s.db.WithContext(ctx).
		Model(&model.StudySession{}).
		Select("user_id, ? AS date, COALESCE(SUM(minutes),0) AS total_minutes, COUNT(*) AS sessions, COALESCE(SUM(correct),0) AS correct, COALESCE(SUM(wrong),0) AS wrong, COALESCE(SUM(blank),0) AS blank", day).
		Where("date = ?", day).
		Group("user_id").
		Scan(&rollups).Error
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate day %s: %w", planner.NewDateKey(date), err)
	}
	if len(rollups) == 0 {
		return 0, nil
	}

	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_minutes", "sessions", "correct", "wrong", "blank", "updated_at"}),
		}).
		Create(&rollups).Error
	if err != nil {
		return 0, fmt.Errorf("failed to upsert daily stats: %w", err)
	}
	return len(rollups), nil
}
