package admin

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/database"
	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/services"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxImportBytes = 20 * 1024 * 1024

// CreateExamYearRequest represents the request body for creating an exam year
type CreateExamYearRequest struct {
	Year     int        `json:"year" validate:"required,min=2000,max=2100"`
	Name     string     `json:"name" validate:"required,min=2,max=100"`
	ExamDate *time.Time `json:"exam_date"`
}

// SetTopicCountRequest sets one topic's question count by hand
type SetTopicCountRequest struct {
	TopicID       uint `json:"topic_id" validate:"required"`
	QuestionCount int  `json:"question_count" validate:"min=0"`
}

// ListExamYears retrieves all exam years including inactive ones
// GET /admin/exam-years
func ListExamYears(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var years []model.ExamYear
	if err := db.Order("year DESC").Find(&years).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch exam years")
	}
	return response.SuccessWithMessage(c, "Exam years retrieved successfully", years)
}

// CreateExamYear creates a new exam year
// POST /admin/exam-years
func CreateExamYear(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var req CreateExamYearRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Year < 2000 || req.Year > 2100 || req.Name == "" {
		return response.BadRequest(c, "Year and name are required")
	}

	year := model.ExamYear{
		Year:     req.Year,
		Name:     req.Name,
		ExamDate: req.ExamDate,
		IsActive: true,
	}
	if err := db.Create(&year).Error; err != nil {
		return response.Conflict(c, "Exam year already exists")
	}
	return response.Created(c, year)
}

// UpdateExamYear updates an exam year's name, date or active flag
// PUT /admin/exam-years/:id
func UpdateExamYear(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	yearID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid exam year ID")
	}

	var req struct {
		Name     string     `json:"name"`
		ExamDate *time.Time `json:"exam_date"`
		IsActive *bool      `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var year model.ExamYear
	if err := db.First(&year, yearID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Exam year not found")
		}
		return response.InternalServerError(c, "Failed to fetch exam year")
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.ExamDate != nil {
		updates["exam_date"] = req.ExamDate
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := db.Model(&year).Updates(updates).Error; err != nil {
			return response.InternalServerError(c, "Failed to update exam year")
		}
	}
	return response.SuccessWithMessage(c, "Exam year updated successfully", year)
}

// SetTopicCount upserts one topic question count by hand
// PUT /admin/exam-years/:id/topic-counts
func SetTopicCount(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	yearID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid exam year ID")
	}

	var req SetTopicCountRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.TopicID == 0 || req.QuestionCount < 0 {
		return response.BadRequest(c, "topic_id and a non-negative question_count are required")
	}

	var topic model.Topic
	if err := db.First(&topic, req.TopicID).Error; err != nil {
		return response.BadRequest(c, "Unknown topic")
	}

	count := model.TopicQuestionCount{
		ExamYearID:    uint(yearID),
		TopicID:       req.TopicID,
		QuestionCount: req.QuestionCount,
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "exam_year_id"}, {Name: "topic_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"question_count", "updated_at"}),
	}).Create(&count).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to save topic count")
	}
	return response.SuccessWithMessage(c, "Topic count saved", count)
}

// ImportTopicCounts imports an official distribution document
// POST /admin/exam-years/:id/import
//
// Multipart upload under the "document" field; .html and .pdf are accepted.
func ImportTopicCounts(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	yearID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid exam year ID")
	}

	file, err := c.FormFile("document")
	if err != nil {
		return response.BadRequest(c, "A document file is required")
	}
	if file.Size > maxImportBytes {
		return response.BadRequest(c, "Document exceeds the 20MB limit")
	}

	opened, err := file.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read document")
	}
	content, err := io.ReadAll(opened)
	opened.Close()
	if err != nil {
		return response.InternalServerError(c, "Failed to read document")
	}

	tables := services.NewExamTableService(db)

	var result *services.ImportResult
	switch {
	case hasSuffixFold(file.Filename, ".html") || hasSuffixFold(file.Filename, ".htm"):
		result, err = tables.ImportHTML(c.Context(), uint(yearID), content)
	case hasSuffixFold(file.Filename, ".pdf"):
		result, err = tables.ImportPDF(c.Context(), uint(yearID), content)
	default:
		return response.BadRequest(c, "Unsupported document type, expected .html or .pdf")
	}
	if err != nil {
		if errors.Is(err, services.ErrExamYearNotFound) {
			return response.NotFound(c, "Exam year not found")
		}
		if errors.Is(err, services.ErrNoTableRows) {
			return response.BadRequest(c, "No topic rows found in document")
		}
		return response.InternalServerError(c, "Import failed")
	}
	return response.SuccessWithMessage(c, "Import completed", result)
}

func hasSuffixFold(name, suffix string) bool {
	return strings.HasSuffix(strings.ToLower(name), suffix)
}
