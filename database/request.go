package database

import (
	"database/sql"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
)

// RecentCronJobLogs returns the latest cron job executions, newest first
func (s *PostgreSQLStore) RecentCronJobLogs(limit int) ([]model.CronJobLog, error) {
	query := `
		SELECT id, job_name, status, started_at, completed_at, duration, message, error_msg
		FROM cron_job_logs
		WHERE deleted_at IS NULL
		ORDER BY started_at DESC
		LIMIT $1;
	`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []model.CronJobLog{}
	for rows.Next() {
		jobLog, err := scanIntoCronJobLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *jobLog)
	}

	return logs, rows.Err()
}

// DailyStats returns a user's aggregated study stats for a date range
func (s *PostgreSQLStore) DailyStats(userID uint, from, to time.Time) ([]model.DailyStudyStat, error) {
	query := `
		SELECT id, user_id, date, total_minutes, sessions, correct, wrong, blank
		FROM daily_study_stats
		WHERE deleted_at IS NULL AND user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC;
	`
	rows, err := s.db.Query(query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []model.DailyStudyStat{}
	for rows.Next() {
		stat, err := scanIntoDailyStat(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, *stat)
	}

	return stats, rows.Err()
}

func scanIntoCronJobLog(rows *sql.Rows) (*model.CronJobLog, error) {
	jobLog := new(model.CronJobLog)
	var completedAt sql.NullTime
	var message, errorMsg sql.NullString
	err := rows.Scan(
		&jobLog.ID,
		&jobLog.JobName,
		&jobLog.Status,
		&jobLog.StartedAt,
		&completedAt,
		&jobLog.Duration,
		&message,
		&errorMsg,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		jobLog.CompletedAt = &completedAt.Time
	}
	jobLog.Message = message.String
	jobLog.ErrorMsg = errorMsg.String
	return jobLog, nil
}

func scanIntoDailyStat(rows *sql.Rows) (*model.DailyStudyStat, error) {
	stat := new(model.DailyStudyStat)
	err := rows.Scan(
		&stat.ID,
		&stat.UserID,
		&stat.Date,
		&stat.TotalMinutes,
		&stat.Sessions,
		&stat.Correct,
		&stat.Wrong,
		&stat.Blank,
	)
	if err != nil {
		return nil, err
	}
	return stat, nil
}
