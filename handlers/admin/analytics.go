package admin

import (
	"strconv"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/database"
	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetPlatformStats retrieves platform-wide usage statistics
// GET /admin/analytics
func GetPlatformStats(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var stats struct {
		TotalUsers        int64 `json:"total_users"`
		StudentUsers      int64 `json:"student_users"`
		AdminUsers        int64 `json:"admin_users"`
		TotalPlans        int64 `json:"total_plans"`
		ActivePlans       int64 `json:"active_plans"`
		AIGeneratedPlans  int64 `json:"ai_generated_plans"`
		TotalSlots        int64 `json:"total_slots"`
		CompletedSlots    int64 `json:"completed_slots"`
		SessionsThisWeek  int64 `json:"sessions_this_week"`
		MinutesThisWeek   int64 `json:"minutes_this_week"`
		SolverQueriesWeek int64 `json:"solver_queries_this_week"`
	}

	weekAgo := time.Now().AddDate(0, 0, -7)

	db.Model(&model.User{}).Count(&stats.TotalUsers)
	db.Model(&model.User{}).Where("role = ?", "student").Count(&stats.StudentUsers)
	db.Model(&model.User{}).Where("role = ?", "admin").Count(&stats.AdminUsers)

	db.Model(&model.StudyPlan{}).Count(&stats.TotalPlans)
	db.Model(&model.StudyPlan{}).Where("is_active = ?", true).Count(&stats.ActivePlans)
	db.Model(&model.StudyPlan{}).Where("ai_generated = ?", true).Count(&stats.AIGeneratedPlans)

	db.Model(&model.StudySlot{}).Count(&stats.TotalSlots)
	db.Model(&model.StudySlot{}).Where("completed = ?", true).Count(&stats.CompletedSlots)

	db.Model(&model.StudySession{}).Where("created_at >= ?", weekAgo).Count(&stats.SessionsThisWeek)
	db.Model(&model.StudySession{}).Where("created_at >= ?", weekAgo).
		Select("COALESCE(SUM(minutes),0)").Scan(&stats.MinutesThisWeek)

	db.Model(&model.SolverQuery{}).Where("created_at >= ?", weekAgo).Count(&stats.SolverQueriesWeek)

	return response.SuccessWithMessage(c, "Platform statistics retrieved successfully", stats)
}

// ListCronJobLogs retrieves recent cron job executions
// GET /admin/cron-logs
func ListCronJobLogs(c *fiber.Ctx, store database.Storage) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	logs, err := store.RecentCronJobLogs(limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch cron job logs")
	}
	return response.SuccessWithMessage(c, "Cron job logs retrieved successfully", logs)
}
