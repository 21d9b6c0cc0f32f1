package plan

import (
	"errors"

	"github.com/MertKocakaplan/aceit-sub001/planner"
	"github.com/MertKocakaplan/aceit-sub001/services"
	"github.com/MertKocakaplan/aceit-sub001/utils/middleware"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/gofiber/fiber/v2"
)

// CompletionRequest toggles a slot's completion state. Outcome counts are
// only meaningful when completed is true; they are cleared otherwise.
type CompletionRequest struct {
	Completed bool `json:"completed"`
	Correct   int  `json:"correct" validate:"omitempty,min=0"`
	Wrong     int  `json:"wrong" validate:"omitempty,min=0"`
	Blank     int  `json:"blank" validate:"omitempty,min=0"`
}

// SetSlotCompletion handles PATCH /api/v1/slots/:id/completion
func (h *PlanHandler) SetSlotCompletion(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	slotID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid slot ID")
	}

	var req CompletionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var outcome *planner.Outcome
	if req.Completed {
		outcome = &planner.Outcome{
			Correct: req.Correct,
			Wrong:   req.Wrong,
			Blank:   req.Blank,
		}
	}

	if err := h.plans.SetSlotCompletion(c.Context(), slotID, userID, req.Completed, outcome); err != nil {
		if errors.Is(err, services.ErrSlotNotFound) {
			return response.NotFound(c, "Slot not found")
		}
		return response.InternalServerError(c, "Failed to update slot")
	}
	return response.Success(c, fiber.Map{"message": "Slot updated"})
}
