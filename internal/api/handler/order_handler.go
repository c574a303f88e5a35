package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type orderRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateOrderRequest struct {
	ProductID string `json:"productId,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}

// ListAll handles GET /api/v1/orders.
//
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Order
// @Failure      403  {object}  messageResponse
// @Router       /orders [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	items, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ListForUser handles GET /api/v1/orders/:id.
//
// @Summary      List a user's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {array}   domain.Order
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /orders/{id} [get]
func (h *OrderHandler) ListForUser(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListForUser(c.Request().Context(), id, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /api/v1/orders/:id.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "User id"
// @Param        body  body      orderRequest  true  "Order line"
// @Success      201   {object}  domain.Order
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /orders/{id} [post]
func (h *OrderHandler) Create(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	order, err := h.service.Create(c.Request().Context(), id, c.Param("id"), toOrderLines(middleware.PayloadFrom(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}

// Update handles PUT /api/v1/orders/:id.
//
// @Summary      Change an order's product or quantity
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Order id"
// @Param        body  body      updateOrderRequest  true  "Fields to change"
// @Success      200   {object}  domain.Order
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	order, err := h.service.Update(c.Request().Context(), id, c.Param("id"), toUpdateOrderInput(middleware.PayloadFrom(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Delete handles DELETE /api/v1/orders/:id.
//
// @Summary      Delete an order
// @Tags         orders
// @Security     BearerAuth
// @Param        id  path  string  true  "Order id"
// @Success      204
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
