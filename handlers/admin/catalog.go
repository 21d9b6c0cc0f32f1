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

// CreateSubjectRequest represents the request body for creating a subject
type CreateSubjectRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Code      string `json:"code" validate:"omitempty,max=20"`
	Color     string `json:"color" validate:"omitempty,max=20"`
	SortOrder int    `json:"sort_order"`
}

// CreateTopicRequest represents the request body for creating a topic
type CreateTopicRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=255"`
	SortOrder int    `json:"sort_order"`
}

// CreateSubject creates a new subject
// POST /admin/subjects
func CreateSubject(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var req CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	subject := model.Subject{
		Name:      req.Name,
		Code:      req.Code,
		SortOrder: req.SortOrder,
	}
	if req.Color != "" {
		subject.Color = req.Color
	}
	if err := db.Create(&subject).Error; err != nil {
		return response.Conflict(c, "Subject already exists")
	}
	return response.Created(c, subject)
}

// UpdateSubject updates a subject
// PUT /admin/subjects/:id
func UpdateSubject(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	subjectID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var req struct {
		Name      string `json:"name"`
		Code      string `json:"code"`
		Color     string `json:"color"`
		SortOrder *int   `json:"sort_order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var subject model.Subject
	if err := db.First(&subject, subjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to fetch subject")
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Code != "" {
		updates["code"] = req.Code
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if len(updates) > 0 {
		if err := db.Model(&subject).Updates(updates).Error; err != nil {
			return response.InternalServerError(c, "Failed to update subject")
		}
	}
	return response.SuccessWithMessage(c, "Subject updated successfully", subject)
}

// DeleteSubject removes a subject and its topics
// DELETE /admin/subjects/:id
func DeleteSubject(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	subjectID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	result := db.Delete(&model.Subject{}, subjectID)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete subject")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Subject not found")
	}
	return response.SuccessWithMessage(c, "Subject deleted successfully", fiber.Map{"subject_id": subjectID})
}

// CreateTopic creates a topic under a subject
// POST /admin/subjects/:id/topics
func CreateTopic(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	subjectID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var req CreateTopicRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	var subject model.Subject
	if err := db.First(&subject, subjectID).Error; err != nil {
		return response.NotFound(c, "Subject not found")
	}

	topic := model.Topic{
		SubjectID: subject.ID,
		Name:      req.Name,
		SortOrder: req.SortOrder,
	}
	if err := db.Create(&topic).Error; err != nil {
		return response.InternalServerError(c, "Failed to create topic")
	}
	return response.Created(c, topic)
}

// DeleteTopic removes a topic
// DELETE /admin/topics/:id
func DeleteTopic(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	topicID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid topic ID")
	}

	result := db.Delete(&model.Topic{}, topicID)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to delete topic")
	}
	if result.RowsAffected == 0 {
		return response.NotFound(c, "Topic not found")
	}
	return response.SuccessWithMessage(c, "Topic deleted successfully", fiber.Map{"topic_id": topicID})
}
