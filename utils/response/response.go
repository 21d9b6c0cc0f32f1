package response

import (
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope every endpoint returns. Data and Error are
// mutually exclusive.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries a stable machine code next to the human message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// PaginationMeta describes the window a list endpoint returned
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

// PaginatedResponse is the envelope for windowed list endpoints
type PaginatedResponse struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message,omitempty"`
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

func ok(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func fail(c *fiber.Ctx, status int, code, message, details string) error {
	return c.Status(status).JSON(Response{
		Success: false,
		Error: &ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Success returns 200 with a data payload
func Success(c *fiber.Ctx, data interface{}) error {
	return ok(c, fiber.StatusOK, "", data)
}

// SuccessWithMessage returns 200 with a message and data payload
func SuccessWithMessage(c *fiber.Ctx, message string, data interface{}) error {
	return ok(c, fiber.StatusOK, message, data)
}

// Created returns 201 for newly created resources
func Created(c *fiber.Ctx, data interface{}) error {
	return ok(c, fiber.StatusCreated, "Resource created successfully", data)
}

// NoContent returns 204 with an empty body
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// BadRequest returns 400
func BadRequest(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusBadRequest, "BAD_REQUEST", message, "")
}

// Unauthorized returns 401
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized access"
	}
	return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", message, "")
}

// Forbidden returns 403
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Access forbidden"
	}
	return fail(c, fiber.StatusForbidden, "FORBIDDEN", message, "")
}

// NotFound returns 404
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return fail(c, fiber.StatusNotFound, "NOT_FOUND", message, "")
}

// Conflict returns 409
func Conflict(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusConflict, "CONFLICT", message, "")
}

// TooManyRequests returns 429
func TooManyRequests(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Too many requests"
	}
	return fail(c, fiber.StatusTooManyRequests, "TOO_MANY_REQUESTS", message, "")
}

// ValidationError returns 422 carrying the validator's field errors
func ValidationError(c *fiber.Ctx, err error) error {
	return fail(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", err.Error())
}

// InternalServerError returns 500
func InternalServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return fail(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", message, "")
}

// ServiceUnavailable returns 503, used when a dependency (AI provider,
// cache) is down rather than the API itself
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	return fail(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", message, "")
}

// Paginated returns 200 with a data window and its pagination meta
func Paginated(c *fiber.Ctx, data interface{}, pagination PaginationMeta) error {
	return c.Status(fiber.StatusOK).JSON(PaginatedResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

// CalculatePagination clamps page/limit to sane values and derives the
// total page count
func CalculatePagination(page, limit int, total int64) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		TotalPages:  totalPages,
	}
}
