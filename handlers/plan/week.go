package plan

import (
	"errors"
	"strconv"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/planner"
	"github.com/MertKocakaplan/aceit-sub001/services"
	"github.com/MertKocakaplan/aceit-sub001/utils/middleware"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/gofiber/fiber/v2"
)

const defaultPxPerHour = 60.0

// GetWeek handles GET /api/v1/plans/:id/week
//
// Query parameters:
//
//	date          reference date inside the wanted week, defaults to today
//	px_per_hour   vertical scale for slot geometry, defaults to 60
func (h *PlanHandler) GetWeek(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	planID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid plan ID")
	}

	ref := time.Now()
	if raw := c.Query("date"); raw != "" {
		key, err := planner.ParseDateKey(raw)
		if err != nil {
			return response.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		}
		ref = key.Time()
	}

	pxPerHour := defaultPxPerHour
	if raw := c.Query("px_per_hour"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			return response.BadRequest(c, "Invalid px_per_hour")
		}
		pxPerHour = parsed
	}

	grid, err := h.plans.WeekGrid(c.Context(), planID, userID, ref, pxPerHour)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			return response.NotFound(c, "Plan not found")
		}
		return response.InternalServerError(c, "Failed to build week grid")
	}
	return response.Success(c, grid)
}
