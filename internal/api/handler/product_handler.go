package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type productRequest struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	CategoryID  string  `json:"categoryId"`
}

// List handles GET /api/v1/products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        limit        query     int     false  "Page size"
// @Param        offset       query     int     false  "Number of products to skip"
// @Param        searchQuery  query     string  false  "Case-insensitive title match"
// @Param        minPrice     query     number  false  "Lowest price"
// @Param        maxPrice     query     number  false  "Highest price"
// @Success      200          {object}  ports.ProductPage
// @Failure      400          {object}  messageResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	q, err := parseProductQuery(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// ListByCategory handles GET /api/v1/products/category/:categoryId.
//
// @Summary      List products in a category
// @Tags         products
// @Produce      json
// @Param        categoryId  path      string  true  "Category id"
// @Success      200         {array}   domain.ProductDetail
// @Failure      404         {object}  messageResponse
// @Router       /products/category/{categoryId} [get]
func (h *ProductHandler) ListByCategory(c echo.Context) error {
	q, err := parseProductQuery(c)
	if err != nil {
		return err
	}
	q.CategoryID = c.Param("categoryId")

	page, err := h.service.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page.Products)
}

// Get handles GET /api/v1/products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.ProductDetail
// @Failure      404  {object}  messageResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /api/v1/products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  domain.Product
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	item, err := h.service.Create(c.Request().Context(), toProductInput(middleware.PayloadFrom(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Update handles PUT /api/v1/products/:id.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      productRequest  true  "Fields to change"
// @Success      200   {object}  domain.Product
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	item, err := h.service.Update(c.Request().Context(), c.Param("id"), toProductInput(middleware.PayloadFrom(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/v1/products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id  path  string  true  "Product id"
// @Success      204
// @Failure      404  {object}  messageResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// parseProductQuery reads the list filters from the query string. Price bounds
// stay nil unless given; negative paging values are treated as zero.
func parseProductQuery(c echo.Context) (ports.ProductQuery, error) {
	var (
		q                  ports.ProductQuery
		minPrice, maxPrice float64
	)
	err := echo.QueryParamsBinder(c).
		Int64("limit", &q.Limit).
		Int64("offset", &q.Offset).
		String("searchQuery", &q.SearchQuery).
		Float64("minPrice", &minPrice).
		Float64("maxPrice", &maxPrice).
		BindError()
	if err != nil {
		var be *echo.BindingError
		if errors.As(err, &be) {
			return q, domain.NewBadRequest(be.Field + " must be a number")
		}
		return q, domain.NewBadRequest("invalid query parameters")
	}

	if c.QueryParam("minPrice") != "" {
		q.MinPrice = &minPrice
	}
	if c.QueryParam("maxPrice") != "" {
		q.MaxPrice = &maxPrice
	}
	q.Limit = max(q.Limit, 0)
	q.Offset = max(q.Offset, 0)
	return q, nil
}
