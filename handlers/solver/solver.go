package solver

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/MertKocakaplan/aceit-sub001/services"
	"github.com/MertKocakaplan/aceit-sub001/utils/middleware"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/MertKocakaplan/aceit-sub001/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const maxImageBytes = 5 * 1024 * 1024

// SolverHandler handles AI question solver requests
type SolverHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	solver    *services.SolverService
}

// NewSolverHandler creates a new solver handler
func NewSolverHandler(db *gorm.DB, solver *services.SolverService) *SolverHandler {
	return &SolverHandler{
		db:        db,
		validator: validation.NewValidator(),
		solver:    solver,
	}
}

// Solve handles POST /api/v1/solver
//
// Accepts JSON or multipart form data. Multipart requests may attach a
// question photo under the "image" field; the photo is stored alongside
// the query for later review.
func (h *SolverHandler) Solve(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req services.SolveRequest
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		req.QuestionText = c.FormValue("question_text")
		if raw := c.FormValue("subject_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return response.BadRequest(c, "Invalid subject ID")
			}
			subjectID := uint(id)
			req.SubjectID = &subjectID
		}
		if file, err := c.FormFile("image"); err == nil {
			if file.Size > maxImageBytes {
				return response.BadRequest(c, "Image exceeds the 5MB limit")
			}
			opened, err := file.Open()
			if err != nil {
				return response.BadRequest(c, "Failed to read image")
			}
			data, err := io.ReadAll(opened)
			opened.Close()
			if err != nil {
				return response.BadRequest(c, "Failed to read image")
			}
			req.ImageName = file.Filename
			req.ImageData = data
		}
	} else if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	query, err := h.solver.Solve(c.Context(), userID, req)
	if err != nil {
		if errors.Is(err, services.ErrSolverQuotaExceeded) {
			return response.TooManyRequests(c, err.Error())
		}
		return response.ServiceUnavailable(c, "Solver is currently unavailable")
	}
	return response.Success(c, query)
}

// GetHistory handles GET /api/v1/solver?limit=20
func (h *SolverHandler) GetHistory(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	queries, err := h.solver.History(c.Context(), userID, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch solver history")
	}
	return response.Success(c, queries)
}

// GetQuery handles GET /api/v1/solver/:id
func (h *SolverHandler) GetQuery(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	queryID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid query ID")
	}

	query, err := h.solver.GetQuery(c.Context(), uint(queryID), userID)
	if err != nil {
		if errors.Is(err, services.ErrQueryNotFound) {
			return response.NotFound(c, "Query not found")
		}
		return response.InternalServerError(c, "Failed to fetch query")
	}
	return response.Success(c, query)
}

// DeleteQuery handles DELETE /api/v1/solver/:id
func (h *SolverHandler) DeleteQuery(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	queryID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid query ID")
	}

	if err := h.solver.DeleteQuery(c.Context(), uint(queryID), userID); err != nil {
		if errors.Is(err, services.ErrQueryNotFound) {
			return response.NotFound(c, "Query not found")
		}
		return response.InternalServerError(c, "Failed to delete query")
	}
	return response.Success(c, fiber.Map{"query_id": queryID})
}

// GetQuota handles GET /api/v1/solver/quota
func (h *SolverHandler) GetQuota(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	used, limit, err := h.solver.QuotaStatus(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch quota")
	}
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return response.Success(c, fiber.Map{
		"used":      used,
		"limit":     limit,
		"remaining": remaining,
	})
}
