package middleware

import (
	"errors"
	"fmt"
	"strings"

	"arthi-backend/internal/adapters/persistence/repositories"
	"arthi-backend/internal/config"
	"arthi-backend/internal/core/domain"
	"arthi-backend/internal/pkg/jwt"
	"arthi-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Locals keys set by the authorization gate
const (
	LocalUserID = "userID"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// Protect verifies the bearer credential and attaches the verified identity
// to the request. It performs no role checks; compose with RequireRoles for
// role-restricted endpoints.
func Protect(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Try cookie first
		accessToken = c.Cookies("access_token")

		// 2. Fall back to Authorization header
		if accessToken == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				accessToken = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)

		return c.Next()
	}
}

// RequireRoles resolves the caller's stored role and rejects the request when
// it is not in the allowed set. The store is the source of truth on every
// call; roles are never read from token claims. The rejection names the
// permitted roles and the caller's actual role.
func RequireRoles(userRepo repositories.UserRepository, allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, ok := c.Locals(LocalEmail).(string)
		if !ok || email == "" {
			return response.Unauthorized(c, "Authentication required")
		}

		user, err := userRepo.GetByEmail(c.Context(), email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.Forbidden(c, "No account found for this identity")
			}
			return response.InternalServerError(c, "Failed to resolve caller role")
		}

		if user.Status == string(domain.AccountSuspended) {
			return response.Forbidden(c, "Account is suspended")
		}

		role, err := domain.ParseRole(user.Role)
		if err != nil {
			return response.Forbidden(c, "Account has no valid role")
		}

		for _, a := range allowed {
			if role == a {
				c.Locals(LocalUserID, user.ID)
				c.Locals(LocalRole, role)
				return c.Next()
			}
		}

		names := make([]string, len(allowed))
		for i, a := range allowed {
			names[i] = string(a)
		}
		return response.Forbidden(c, fmt.Sprintf(
			"Requires role %s; your role is %s", strings.Join(names, " or "), role))
	}
}

// AdminOnly allows only the admin role
func AdminOnly(userRepo repositories.UserRepository) fiber.Handler {
	return RequireRoles(userRepo, domain.RoleAdmin)
}

// StaffOnly allows manager or admin roles
func StaffOnly(userRepo repositories.UserRepository) fiber.Handler {
	return RequireRoles(userRepo, domain.RoleManager, domain.RoleAdmin)
}

// ActorFromCtx rebuilds the verified actor from request locals.
// Valid only downstream of Protect (and RequireRoles for Role/UserID).
func ActorFromCtx(c *fiber.Ctx) domain.Actor {
	actor := domain.Actor{}
	if id, ok := c.Locals(LocalUserID).(uint); ok {
		actor.UserID = id
	}
	if email, ok := c.Locals(LocalEmail).(string); ok {
		actor.Email = email
	}
	if role, ok := c.Locals(LocalRole).(domain.Role); ok {
		actor.Role = role
	}
	return actor
}
