package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
)

const jobTimeout = 5 * time.Minute

// CleanupTokenBlacklist removes blacklist entries whose tokens have
// expired anyway and can no longer be presented.
func (m *CronManager) CleanupTokenBlacklist() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result := m.db.WithContext(ctx).
		Unscoped().
		Where("expires_at < ?", time.Now()).
		Delete(&model.JWTTokenBlacklist{})
	if result.Error != nil {
		return "", fmt.Errorf("blacklist cleanup failed: %w", result.Error)
	}
	return fmt.Sprintf("removed %d expired blacklist entries", result.RowsAffected), nil
}

// CleanupResetTokens removes password reset tokens that are expired or
// already consumed.
func (m *CronManager) CleanupResetTokens() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result := m.db.WithContext(ctx).
		Unscoped().
		Where("expires_at < ? OR used_at IS NOT NULL", time.Now()).
		Delete(&model.PasswordResetToken{})
	if result.Error != nil {
		return "", fmt.Errorf("reset token cleanup failed: %w", result.Error)
	}
	return fmt.Sprintf("removed %d stale reset tokens", result.RowsAffected), nil
}

// RollupDailyStats aggregates yesterday's study sessions into
// DailyStudyStat rows. Yesterday rather than today so the window is
// closed when the job runs at 02:00.
func (m *CronManager) RollupDailyStats() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	yesterday := time.Now().AddDate(0, 0, -1)
	users, err := m.sessions.RollupDay(ctx, yesterday)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rolled up stats for %d users", users), nil
}
