package auth

import (
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
	authutil "github.com/MertKocakaplan/aceit-sub001/utils/auth"
	"github.com/MertKocakaplan/aceit-sub001/utils/middleware"
	"github.com/MertKocakaplan/aceit-sub001/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const resetTokenTTL = time.Hour

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ForgotPassword issues a reset token for the given email. The response
// is identical whether or not the email exists.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	neutral := fiber.Map{"message": "If the email exists, a password reset link will be sent"}

	var user model.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return response.Success(c, neutral)
	}

	reset := model.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := h.db.Create(&reset).Error; err != nil {
		return response.InternalServerError(c, "Failed to create reset token")
	}

	// TODO: deliver the reset link by email once an email provider is wired up

	return response.Success(c, neutral)
}

// ResetPassword consumes a reset token and sets a new password. All of
// the user's existing sessions are invalidated via the token version.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Token == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Token and new password are required")
	}
	if !authutil.IsPasswordValid(req.NewPassword) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	var reset model.PasswordResetToken
	if err := h.db.Where("token = ?", req.Token).First(&reset).Error; err != nil {
		return response.BadRequest(c, "Invalid or expired reset token")
	}
	if reset.IsExpired() {
		return response.BadRequest(c, "Reset token has expired")
	}
	if reset.IsUsed() {
		return response.BadRequest(c, "Reset token has already been used")
	}

	var user model.User
	if err := h.db.First(&user, reset.UserID).Error; err != nil {
		return response.BadRequest(c, "User not found")
	}

	if err := h.applyNewPassword(&user, req.NewPassword); err != nil {
		return response.InternalServerError(c, "Failed to update password")
	}

	reset.MarkAsUsed()
	h.db.Save(&reset)

	return response.Success(c, fiber.Map{"message": "Password reset successfully"})
}

// ChangePassword lets an authenticated user rotate their password after
// confirming the current one.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.OldPassword == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Old password and new password are required")
	}
	if !authutil.IsPasswordValid(req.NewPassword) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return response.Unauthorized(c, "User not found")
	}

	if err := authutil.VerifyPassword(user.PasswordHash, req.OldPassword); err != nil {
		return response.BadRequest(c, "Current password is incorrect")
	}

	if err := h.applyNewPassword(&user, req.NewPassword); err != nil {
		return response.InternalServerError(c, "Failed to update password")
	}

	return response.Success(c, fiber.Map{
		"message": "Password changed successfully. Please login again with your new password",
	})
}

// applyNewPassword stores the hashed password and bumps the token
// version so every outstanding JWT stops validating.
func (h *AuthHandler) applyNewPassword(user *model.User, newPassword string) error {
	hashed, err := authutil.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return h.db.Model(user).Updates(map[string]interface{}{
		"password_hash": hashed,
		"token_version": user.TokenVersion + 1,
	}).Error
}
