package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

type categoryRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// List handles GET /api/v1/categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {array}   domain.Category
// @Router       /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/v1/categories/:id.
//
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id   path      string  true  "Category id"
// @Success      200  {object}  domain.Category
// @Failure      404  {object}  messageResponse
// @Router       /categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /api/v1/categories.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  domain.Category
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	item, err := h.service.Create(c.Request().Context(), toCategoryInput(middleware.PayloadFrom(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Update handles PUT /api/v1/categories/:id.
//
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Category id"
// @Param        body  body      categoryRequest  true  "Fields to change"
// @Success      200   {object}  domain.Category
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	item, err := h.service.Update(c.Request().Context(), c.Param("id"), toCategoryInput(middleware.PayloadFrom(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/v1/categories/:id.
//
// @Summary      Delete a category
// @Tags         categories
// @Security     BearerAuth
// @Param        id  path  string  true  "Category id"
// @Success      204
// @Failure      404  {object}  messageResponse
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
