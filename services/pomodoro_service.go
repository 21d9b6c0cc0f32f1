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

var ErrBadInterval = errors.New("pomodoro interval end must be after start")

// PomodoroService logs completed timer intervals and derives streak stats.
// The timer itself runs client-side; the backend only records outcomes.
type PomodoroService struct {
	db *gorm.DB
}

// NewPomodoroService creates a new pomodoro service
func NewPomodoroService(db *gorm.DB) *PomodoroService {
	return &PomodoroService{db: db}
}

// LogIntervalRequest records one finished or abandoned interval
type LogIntervalRequest struct {
	SubjectID   *uint     `json:"subject_id"`
	Type        string    `json:"type" validate:"omitempty,oneof=work short_break long_break"`
	StartedAt   time.Time `json:"started_at" validate:"required"`
	EndedAt     time.Time `json:"ended_at" validate:"required"`
	Completed   bool      `json:"completed"`
	Interrupted bool      `json:"interrupted"`
}

// LogInterval persists a timer interval. Minutes are derived server-side
// from the timestamps rather than trusted from the client.
func (p *PomodoroService) LogInterval(ctx context.Context, userID uint, req LogIntervalRequest) (*model.PomodoroSession, error) {
	if !req.EndedAt.After(req.StartedAt) {
		return nil, ErrBadInterval
	}

	intervalType := model.PomodoroType(req.Type)
	if intervalType == "" {
		intervalType = model.PomodoroWork
	}

	session := &model.PomodoroSession{
		UserID:      userID,
		SubjectID:   req.SubjectID,
		Type:        intervalType,
		StartedAt:   req.StartedAt,
		EndedAt:     req.EndedAt,
		Minutes:     int(req.EndedAt.Sub(req.StartedAt).Round(time.Minute).Minutes()),
		Completed:   req.Completed,
		Interrupted: req.Interrupted,
	}
	if err := p.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to log pomodoro interval: %w", err)
	}
	return session, nil
}

// PomodoroStats summarizes a user's timer usage
type PomodoroStats struct {
	TodayWorkMinutes int `json:"today_work_minutes"`
	TodayIntervals   int `json:"today_intervals"`
	StreakDays       int `json:"streak_days"`
}

// Stats computes today's work totals and the streak of consecutive local
// calendar days (ending today or yesterday) with at least one completed
// work interval.
func (p *PomodoroService) Stats(ctx context.Context, userID uint) (*PomodoroStats, error) {
	stats := &PomodoroStats{}
	today := planner.NewDateKey(time.Now())
	todayStart := today.Time()
	tomorrowStart := todayStart.AddDate(0, 0, 1)

	row := p.db.WithContext(ctx).
		Model(&model.PomodoroSession{}).
		Select("COALESCE(SUM(minutes),0), COUNT(*)").
		Where("user_id = ? AND type = ? AND started_at >= ? AND started_at < ?",
			userID, model.PomodoroWork, todayStart, tomorrowStart).
		Row()
	if err := row.Scan(&stats.TodayWorkMinutes, &stats.TodayIntervals); err != nil {
		return nil, fmt.Errorf("failed to compute pomodoro totals: %w", err)
	}

	streak, err := p.streak(ctx, userID, todayStart)
	if err != nil {
		return nil, err
	}
	stats.StreakDays = streak
	return stats, nil
}

// History returns recent intervals, newest first
func (p *PomodoroService) History(ctx context.Context, userID uint, limit int) ([]model.PomodoroSession, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var sessions []model.PomodoroSession
	err := p.db.WithContext(ctx).
		Preload("Subject").
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (p *PomodoroService) streak(ctx context.Context, userID uint, todayStart time.Time) (int, error) {
	// Distinct local days with a completed work interval in the last year
	// is a small set, so walking it in memory beats a recursive query.
	var starts []time.Time
	err := p.db.WithContext(ctx).
		Model(&model.PomodoroSession{}).
		Where("user_id = ? AND type = ? AND completed = ? AND started_at >= ?",
			userID, model.PomodoroWork, true, todayStart.AddDate(-1, 0, 0)).
		Order("started_at DESC").
		Pluck("started_at", &starts).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load pomodoro history: %w", err)
	}

	days := make(map[planner.DateKey]bool, len(starts))
	for _, start := range starts {
		days[planner.NewDateKey(start.Local())] = true
	}

	cursor := todayStart
	if !days[planner.NewDateKey(cursor)] {
		// A streak may still be alive if today has no interval yet
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for days[planner.NewDateKey(cursor)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak, nil
}
