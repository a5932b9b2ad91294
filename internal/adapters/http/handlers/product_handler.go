package handlers

import (
	"errors"
	"strconv"

	"arthi-backend/internal/core/services"
	"arthi-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles loan product endpoints
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new loan product handler
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List lists loan products
// @Summary List loan products
// @Description Public catalog; pass home=true for home-page products only
// @Tags Loans
// @Produce json
// @Param home query bool false "Only products flagged for home page"
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	homeOnly := c.Query("home") == "true"

	products, err := h.productService.List(c.Context(), homeOnly)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loan products")
	}

	return response.Success(c, "Loan products retrieved", fiber.Map{"loans": products})
}

// GetByID gets a loan product
// @Summary Get loan product
// @Tags Loans
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product ID")
	}

	product, err := h.productService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return response.NotFound(c, "Loan product not found")
		}
		return response.InternalServerError(c, "Failed to get loan product")
	}

	return response.Success(c, "Loan product retrieved", fiber.Map{"loan": product})
}

// Create creates a loan product
// @Summary Create loan product
// @Description Create a new loan product (Manager/Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateProductInput true "Product data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.Title == "" {
		return response.BadRequest(c, "Title is required")
	}

	product, err := h.productService.Create(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRate), errors.Is(err, services.ErrInvalidLimit):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create loan product")
		}
	}

	return response.Created(c, "Loan product created", fiber.Map{"loan": product})
}

// Update updates a loan product
// @Summary Update loan product
// @Description Partially update a loan product (Manager/Admin only)
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param body body services.UpdateProductInput true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [patch]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product ID")
	}

	var input services.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	product, err := h.productService.Update(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			return response.NotFound(c, "Loan product not found")
		case errors.Is(err, services.ErrInvalidRate), errors.Is(err, services.ErrInvalidLimit):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to update loan product")
		}
	}

	return response.Success(c, "Loan product updated", fiber.Map{"loan": product})
}

// Delete deletes a loan product
// @Summary Delete loan product
// @Description Delete a loan product (Manager/Admin only)
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid product ID")
	}

	if err := h.productService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return response.NotFound(c, "Loan product not found")
		}
		return response.InternalServerError(c, "Failed to delete loan product")
	}

	return response.Success(c, "Loan product deleted", nil)
}
