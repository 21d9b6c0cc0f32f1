package pomodoro

import (
	"errors"
	"strconv"

	"github.com/MertKocakaplan/aceit-sub001/services"
	"github.com/MertKocakaplan/aceit-sub001/utils/middleware"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/MertKocakaplan/aceit-sub001/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PomodoroHandler handles pomodoro timer requests
type PomodoroHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	pomodoro  *services.PomodoroService
}

// NewPomodoroHandler creates a new pomodoro handler
func NewPomodoroHandler(db *gorm.DB, pomodoro *services.PomodoroService) *PomodoroHandler {
	return &PomodoroHandler{
		db:        db,
		validator: validation.NewValidator(),
		pomodoro:  pomodoro,
	}
}

// LogInterval handles POST /api/v1/pomodoro
func (h *PomodoroHandler) LogInterval(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req services.LogIntervalRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	session, err := h.pomodoro.LogInterval(c.Context(), userID, req)
	if err != nil {
		if errors.Is(err, services.ErrBadInterval) {
			return response.BadRequest(c, "Interval end must be after start")
		}
		return response.InternalServerError(c, "Failed to log interval")
	}
	return response.Created(c, session)
}

// GetStats handles GET /api/v1/pomodoro/stats
func (h *PomodoroHandler) GetStats(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	stats, err := h.pomodoro.Stats(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute stats")
	}
	return response.Success(c, stats)
}

// GetHistory handles GET /api/v1/pomodoro?limit=50
func (h *PomodoroHandler) GetHistory(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	sessions, err := h.pomodoro.History(c.Context(), userID, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch history")
	}
	return response.Success(c, sessions)
}
