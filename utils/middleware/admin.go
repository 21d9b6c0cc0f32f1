package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminAuditLog creates an audit log entry for admin actions
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get admin user from context (set by AuthMiddleware.RequireAdmin)
		adminUser, ok := GetUser(c)
		if !ok || adminUser == nil {
			return response.Forbidden(c, "Admin access required")
		}

		// Parse resource ID from params if available
		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		// Capture request body for "new value" tracking
		var newValue interface{}
		if c.Method() == "POST" || c.Method() == "PUT" || c.Method() == "PATCH" {
			body := c.Body()
			if len(body) > 0 {
				json.Unmarshal(body, &newValue)
			}
		}

		// For destructive or replacing actions, capture the existing state
		var oldValue interface{}
		if resourceID > 0 && (c.Method() == "DELETE" || c.Method() == "PUT" || c.Method() == "PATCH") {
			switch resource {
			case "users":
				var user model.User
				if err := db.First(&user, resourceID).Error; err == nil {
					oldValue = user
				}
			case "exam_years":
				var examYear model.ExamYear
				if err := db.First(&examYear, resourceID).Error; err == nil {
					oldValue = examYear
				}
			case "topic_question_counts":
				var count model.TopicQuestionCount
				if err := db.First(&count, resourceID).Error; err == nil {
					oldValue = count
				}
			case "settings":
				var setting model.AppSetting
				if err := db.Where("id = ?", resourceID).First(&setting).Error; err == nil {
					oldValue = setting
				}
			}
		}

		// Capture request metadata before the handler runs; the fiber context
		// is recycled once it returns.
		ip := c.IP()
		userAgent := c.Get("User-Agent")
		description := c.Method() + " " + c.Path()
		adminID := adminUser.ID

		// Execute the actual handler
		err := c.Next()

		// Log the action after completion
		go func() {
			oldValueJSON, _ := json.Marshal(oldValue)
			newValueJSON, _ := json.Marshal(newValue)

			auditLog := model.AdminAuditLog{
				AdminID:     adminID,
				Action:      action,
				Resource:    resource,
				ResourceID:  resourceID,
				OldValue:    datatypes.JSON(oldValueJSON),
				NewValue:    datatypes.JSON(newValueJSON),
				IPAddress:   ip,
				UserAgent:   userAgent,
				Description: description,
			}

			db.Create(&auditLog)
		}()

		return err
	}
}
