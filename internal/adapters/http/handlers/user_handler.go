package handlers

import (
	"errors"
	"strconv"

	"arthi-backend/internal/adapters/http/middleware"
	"arthi-backend/internal/core/domain"
	"arthi-backend/internal/core/services"
	"arthi-backend/internal/pkg/pagination"
	"arthi-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the caller's own profile
// @Summary Get own profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)

	user, err := h.userService.GetByEmail(c.Context(), actor.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved", fiber.Map{"user": user})
}

// UpdateProfileRequest represents profile update request
type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// UpdateMe updates the caller's display name and avatar
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /me [patch]
func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := middleware.ActorFromCtx(c)

	user, err := h.userService.UpdateProfile(c.Context(), actor.Email, req.Name, req.Image)
	if err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, "Profile updated", fiber.Map{"user": user})
}

// List lists users
// @Summary List users
// @Description List all users (Admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.userService.ListUsers(c.Context(), &services.ListUsersInput{
		Page:  params.Page,
		Limit: params.Limit,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved", result)
}

// GetByEmail gets a user by email
// @Summary Get user by email
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email path string true "User email"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{email} [get]
func (h *UserHandler) GetByEmail(c *fiber.Ctx) error {
	email := c.Params("email")

	user, err := h.userService.GetByEmail(c.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved", fiber.Map{"user": user})
}

// UpdateRoleRequest represents role update request
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole changes a user's role
// @Summary Update user role
// @Description Change a user's role (Admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body UpdateRoleRequest true "New role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/role [patch]
func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return response.BadRequest(c, "Invalid role")
	}

	actor := middleware.ActorFromCtx(c)

	user, err := h.userService.UpdateRole(c.Context(), uint(id), role, actor)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrCannotChangeOwnRole):
			return response.Forbidden(c, "Cannot change your own role")
		default:
			return response.InternalServerError(c, "Failed to update role")
		}
	}

	return response.Success(c, "Role updated", fiber.Map{"user": user})
}

// SuspendRequest represents suspend request
type SuspendRequest struct {
	SuspendReason string `json:"suspend_reason"`
}

// Suspend suspends a user account
// @Summary Suspend user
// @Description Suspend a user account with a reason (Admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body SuspendRequest true "Suspend reason"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/suspend [patch]
func (h *UserHandler) Suspend(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SuspendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.Suspend(c.Context(), uint(id), req.SuspendReason)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, services.ErrSuspendReasonEmpty):
			return response.BadRequest(c, "Suspend reason is required")
		default:
			return response.InternalServerError(c, "Failed to suspend user")
		}
	}

	return response.Success(c, "User suspended", fiber.Map{"user": user})
}

// Approve approves a user account
// @Summary Approve user
// @Description Approve a pending or suspended account (Admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/approve [patch]
func (h *UserHandler) Approve(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.Approve(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to approve user")
	}

	return response.Success(c, "User approved", fiber.Map{"user": user})
}
