package response

import (
	"errors"

	"arthi-backend/internal/core/domain"

	"github.com/gofiber/fiber/v2"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a success response
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   message,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict sends a 409 conflict response
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// domainStatus maps each domain sentinel to its HTTP status. Checked in
// order with errors.Is, so wrapped errors resolve to their sentinel.
var domainStatus = []struct {
	err    error
	status int
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest},
	{domain.ErrPaymentIncomplete, fiber.StatusBadRequest},
	{domain.ErrSessionNotLinked, fiber.StatusBadRequest},
	{domain.ErrInvalidRole, fiber.StatusBadRequest},
	{domain.ErrInvalidStatus, fiber.StatusBadRequest},
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized},
	{domain.ErrForbidden, fiber.StatusForbidden},
	{domain.ErrUserSuspended, fiber.StatusForbidden},
	{domain.ErrNotFound, fiber.StatusNotFound},
	{domain.ErrApplicationNotFound, fiber.StatusNotFound},
	{domain.ErrSessionNotFound, fiber.StatusNotFound},
	{domain.ErrUserNotFound, fiber.StatusNotFound},
	{domain.ErrInvalidTransition, fiber.StatusConflict},
	{domain.ErrDuplicateEntry, fiber.StatusConflict},
}

// DomainError maps a domain error to its HTTP response. Unrecognized errors
// (including reconciliation faults) become a 500 that tells the client the
// request is safe to retry; internal detail is never echoed.
func DomainError(c *fiber.Ctx, err error) error {
	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			return Error(c, m.status, m.err.Error())
		}
	}
	return InternalServerError(c, "Something went wrong, please retry")
}
