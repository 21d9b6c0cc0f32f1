package admin

import (
	"os"

	"github.com/MertKocakaplan/aceit-sub001/database"
	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/services"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UpsertSettingRequest creates or updates a setting. Encrypted settings
// (the AI provider API key) are stored as ciphertext and never returned.
type UpsertSettingRequest struct {
	Value       string `json:"value" validate:"required"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Encrypted   bool   `json:"encrypted"`
}

// ListSettings retrieves all app settings. Encrypted values are masked.
// GET /admin/settings
func ListSettings(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var settings []model.AppSetting
	if err := db.Order("category ASC, key ASC").Find(&settings).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch settings")
	}
	for i := range settings {
		if settings[i].Encrypted {
			settings[i].Value = "********"
		}
	}
	return response.SuccessWithMessage(c, "Settings retrieved successfully", settings)
}

// GetSetting retrieves a specific setting by key. Encrypted values are masked.
// GET /admin/settings/:key
func GetSetting(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	key := c.Params("key")
	var setting model.AppSetting
	if err := db.Where("key = ?", key).First(&setting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Setting not found")
		}
		return response.InternalServerError(c, "Failed to fetch setting")
	}
	if setting.Encrypted {
		setting.Value = "********"
	}
	return response.SuccessWithMessage(c, "Setting retrieved successfully", setting)
}

// UpsertSetting creates or updates a setting
// PUT /admin/settings/:key
func UpsertSetting(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	key := c.Params("key")
	var req UpsertSettingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Value == "" {
		return response.BadRequest(c, "Value is required")
	}

	settings := services.NewSettingsService(db, os.Getenv("SETTINGS_KEY"))

	var err error
	if req.Encrypted {
		err = settings.SetEncrypted(key, req.Value, req.Category, req.Description)
	} else {
		err = settings.Set(key, req.Value, req.Category, req.Description)
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to save setting")
	}
	return response.SuccessWithMessage(c, "Setting saved successfully", fiber.Map{"key": key})
}

// DeleteSetting deletes a setting
// DELETE /admin/settings/:key
func DeleteSetting(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	key := c.Params("key")
	result := db.Where("key = ?", key).Delete(&model.AppSetting{})
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete setting")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Setting not found")
	}
	return response.SuccessWithMessage(c, "Setting deleted successfully", fiber.Map{"key": key})
}
