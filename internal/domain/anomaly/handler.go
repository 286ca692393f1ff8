package anomaly

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/respira/respira/internal/platform/auth"
	"github.com/respira/respira/internal/platform/upstream"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/anomalies", h.ListAnomalies)
	api.POST("/anomalies/:id/dismiss", h.DismissAnomaly)
	api.GET("/dismissals", h.ListDismissals)
}

func (h *Handler) ListAnomalies(c echo.Context) error {
	records, err := h.svc.Active(c.Request().Context())
	if err != nil {
		var ue *upstream.Error
		if errors.As(err, &ue) {
			return echo.NewHTTPError(http.StatusBadGateway, "model service unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  records,
		"total": len(records),
	})
}

func (h *Handler) DismissAnomaly(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing record id")
	}

	actor := auth.ActorFromContext(c.Request().Context())
	if err := h.svc.Dismiss(c.Request().Context(), id, actor); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to persist dismissal")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListDismissals(c echo.Context) error {
	ids := h.svc.Dismissals()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"dismissed": ids,
		"total":     len(ids),
	})
}
