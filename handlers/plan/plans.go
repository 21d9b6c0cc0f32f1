package plan

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

// PlanHandler handles study plan requests
type PlanHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	plans     *services.PlanService
	generator *services.PlanGenerator
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(db *gorm.DB, plans *services.PlanService, generator *services.PlanGenerator) *PlanHandler {
	return &PlanHandler{
		db:        db,
		validator: validation.NewValidator(),
		plans:     plans,
		generator: generator,
	}
}

// ListPlans handles GET /api/v1/plans
func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	plans, err := h.plans.ListPlans(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch plans")
	}
	return response.Success(c, plans)
}

// GetPlan handles GET /api/v1/plans/:id
func (h *PlanHandler) GetPlan(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	planID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid plan ID")
	}

	plan, err := h.plans.FetchPlan(c.Context(), planID, userID)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			return response.NotFound(c, "Plan not found")
		}
		return response.InternalServerError(c, "Failed to fetch plan")
	}
	return response.Success(c, plan)
}

// GetActivePlan handles GET /api/v1/plans/active
func (h *PlanHandler) GetActivePlan(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	plan, err := h.plans.ActivePlan(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			return response.NotFound(c, "No active plan")
		}
		return response.InternalServerError(c, "Failed to fetch active plan")
	}
	return response.Success(c, plan)
}

// CreatePlan handles POST /api/v1/plans
func (h *PlanHandler) CreatePlan(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req services.CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	plan, err := h.plans.CreatePlan(c.Context(), userID, req)
	if err != nil {
		if isPlanInputError(err) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to create plan")
	}
	return response.Created(c, plan)
}

// GeneratePlan handles POST /api/v1/plans/generate
func (h *PlanHandler) GeneratePlan(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req services.GeneratePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	plan, err := h.generator.Generate(c.Context(), userID, req)
	if err != nil {
		if isPlanInputError(err) || errors.Is(err, services.ErrNoSubjects) {
			return response.BadRequest(c, err.Error())
		}
		return response.ServiceUnavailable(c, "Plan generation is currently unavailable")
	}
	return response.Created(c, plan)
}

// ActivatePlan handles POST /api/v1/plans/:id/activate
func (h *PlanHandler) ActivatePlan(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	planID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid plan ID")
	}

	if err := h.plans.ActivatePlan(c.Context(), planID, userID); err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			return response.NotFound(c, "Plan not found")
		}
		return response.InternalServerError(c, "Failed to activate plan")
	}
	return response.Success(c, fiber.Map{"message": "Plan activated"})
}

// DeletePlan handles DELETE /api/v1/plans/:id
func (h *PlanHandler) DeletePlan(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	planID, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid plan ID")
	}

	if err := h.plans.DeletePlan(c.Context(), planID, userID); err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			return response.NotFound(c, "Plan not found")
		}
		return response.InternalServerError(c, "Failed to delete plan")
	}
	return response.NoContent(c)
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// isPlanInputError reports whether the error came from user input rather
// than infrastructure.
func isPlanInputError(err error) bool {
	return errors.Is(err, services.ErrBadDateRange) ||
		errors.Is(err, services.ErrEmptyPlan) ||
		errors.Is(err, services.ErrInvalidDay) ||
		errors.Is(err, planner.ErrMalformedDate) ||
		errors.Is(err, planner.ErrMalformedClock) ||
		errors.Is(err, planner.ErrSlotTimeOrder) ||
		errors.Is(err, planner.ErrUnknownSlotType)
}
