package admin

import (
	"errors"
	"strconv"

	"github.com/MertKocakaplan/aceit-sub001/database"
	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListAuditLogs returns the admin audit trail, newest first, filterable
// by action, resource and admin ID.
// GET /admin/audit-logs
func ListAuditLogs(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := db.Model(&model.AdminAuditLog{}).Preload("Admin")
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}
	if adminID, err := strconv.ParseUint(c.Query("admin_id"), 10, 32); err == nil {
		query = query.Where("admin_id = ?", adminID)
	}

	var total int64
	query.Count(&total)

	var logs []model.AdminAuditLog
	if err := query.Offset((page - 1) * limit).Limit(limit).Order("created_at DESC").Find(&logs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch audit logs")
	}

	return response.Paginated(c, logs, response.CalculatePagination(page, limit, total))
}

// GetAuditLog returns a single audit entry with the acting admin preloaded.
// GET /admin/audit-logs/:id
func GetAuditLog(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	logID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid log ID")
	}

	var entry model.AdminAuditLog
	if err := db.Preload("Admin").First(&entry, logID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Audit log not found")
		}
		return response.InternalServerError(c, "Failed to fetch audit log")
	}

	return response.Success(c, entry)
}
