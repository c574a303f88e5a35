package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

const defaultAuditPageSize = 50

type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

type auditPage struct {
	Total  int64               `json:"total"`
	Events []domain.AuditEvent `json:"events"`
}

// List handles GET /api/v1/audit.
//
// @Summary      List security audit events
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 50)"
// @Param        offset  query     int  false  "Events to skip"
// @Success      200     {object}  auditPage
// @Failure      403     {object}  messageResponse
// @Router       /audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	page := ports.Page{Limit: defaultAuditPageSize}
	if err := echo.QueryParamsBinder(c).
		Int64("limit", &page.Limit).
		Int64("offset", &page.Offset).
		BindError(); err != nil {
		return domain.NewBadRequest("limit and offset must be integers")
	}
	if page.Limit <= 0 {
		page.Limit = defaultAuditPageSize
	}
	page.Offset = max(page.Offset, 0)

	events, total, err := h.service.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, auditPage{Total: total, Events: events})
}
