package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/respira/respira/internal/platform/upstream"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/explain", h.Explain)
}

type explainRequest struct {
	Query     string         `json:"query"`
	Features  map[string]any `json:"features"`
	RiskScore float64        `json:"risk_score"`
}

func (h *Handler) Explain(c echo.Context) error {
	var req explainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	turn, err := h.svc.Send(c.Request().Context(), req.Query, req.Features, req.RiskScore)
	if err != nil {
		var ue *upstream.Error
		if errors.As(err, &ue) {
			return echo.NewHTTPError(http.StatusBadGateway, "explanation service unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, turn)
}
