package session

import (
	"errors"
	"strconv"

	"github.com/MertKocakaplan/aceit-sub001/planner"
	"github.com/MertKocakaplan/aceit-sub001/services"
	"github.com/MertKocakaplan/aceit-sub001/utils/middleware"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/MertKocakaplan/aceit-sub001/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SessionHandler handles study session requests
type SessionHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	sessions  *services.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(db *gorm.DB, sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{
		db:        db,
		validator: validation.NewValidator(),
		sessions:  sessions,
	}
}

// LogSession handles POST /api/v1/sessions
func (h *SessionHandler) LogSession(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req services.LogSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	session, err := h.sessions.LogSession(c.Context(), userID, req)
	if err != nil {
		if errors.Is(err, planner.ErrMalformedDate) {
			return response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		}
		return response.InternalServerError(c, "Failed to log session")
	}
	return response.Created(c, session)
}

// ListSessions handles GET /api/v1/sessions?from=...&to=...
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	sessions, err := h.sessions.ListSessions(c.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		if errors.Is(err, planner.ErrMalformedDate) {
			return response.BadRequest(c, "Invalid date range, expected YYYY-MM-DD")
		}
		return response.InternalServerError(c, "Failed to fetch sessions")
	}
	return response.Success(c, sessions)
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	sessionID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid session ID")
	}

	if err := h.sessions.DeleteSession(c.Context(), uint(sessionID), userID); err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found")
		}
		return response.InternalServerError(c, "Failed to delete session")
	}
	return response.NoContent(c)
}

// GetSummary handles GET /api/v1/sessions/summary?from=...&to=...
func (h *SessionHandler) GetSummary(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		return response.BadRequest(c, "Both from and to are required")
	}

	summary, err := h.sessions.Summarize(c.Context(), userID, from, to)
	if err != nil {
		if errors.Is(err, planner.ErrMalformedDate) {
			return response.BadRequest(c, "Invalid date range, expected YYYY-MM-DD")
		}
		return response.InternalServerError(c, "Failed to compute summary")
	}
	return response.Success(c, summary)
}

// GetDailyStats handles GET /api/v1/sessions/daily?limit=30
func (h *SessionHandler) GetDailyStats(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	limit, _ := strconv.Atoi(c.Query("limit", "30"))

	stats, err := h.sessions.DailyStats(c.Context(), userID, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch daily stats")
	}
	return response.Success(c, stats)
}
