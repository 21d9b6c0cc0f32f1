package subject

import (
	"strconv"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubjectHandler serves the read-only subject and topic catalog
type SubjectHandler struct {
	db *gorm.DB
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(db *gorm.DB) *SubjectHandler {
	return &SubjectHandler{db: db}
}

// ListSubjects handles GET /api/v1/subjects
func (h *SubjectHandler) ListSubjects(c *fiber.Ctx) error {
	var subjects []model.Subject
	query := h.db.Order("sort_order ASC, name ASC")
	if c.QueryBool("with_topics", false) {
		query = query.Preload("Topics", func(db *gorm.DB) *gorm.DB {
			return db.Order("topics.sort_order ASC, topics.name ASC")
		})
	}
	if err := query.Find(&subjects).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch subjects")
	}
	return response.Success(c, subjects)
}

// ListTopics handles GET /api/v1/subjects/:id/topics
func (h *SubjectHandler) ListTopics(c *fiber.Ctx) error {
	subjectID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid subject ID")
	}

	var subject model.Subject
	if err := h.db.First(&subject, uint(subjectID)).Error; err != nil {
		return response.NotFound(c, "Subject not found")
	}

	var topics []model.Topic
	if err := h.db.
		Where("subject_id = ?", subject.ID).
		Order("sort_order ASC, name ASC").
		Find(&topics).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch topics")
	}
	return response.Success(c, topics)
}

// ListExamYears handles GET /api/v1/exam-years
func (h *SubjectHandler) ListExamYears(c *fiber.Ctx) error {
	var years []model.ExamYear
	if err := h.db.
		Where("is_active = ?", true).
		Order("year ASC").
		Find(&years).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch exam years")
	}
	return response.Success(c, years)
}

// ListTopicCounts handles GET /api/v1/exam-years/:id/topic-counts
//
// Students use this to see how many questions each topic historically
// carried, which drives subject prioritization in their plans.
func (h *SubjectHandler) ListTopicCounts(c *fiber.Ctx) error {
	yearID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid exam year ID")
	}

	var counts []model.TopicQuestionCount
	if err := h.db.
		Preload("Topic").
		Preload("Topic.Subject").
		Where("exam_year_id = ?", uint(yearID)).
		Find(&counts).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch topic counts")
	}
	return response.Success(c, counts)
}
