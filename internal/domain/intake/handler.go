package intake

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/respira/respira/internal/domain/airquality"
	"github.com/respira/respira/internal/platform/auth"
	"github.com/respira/respira/internal/platform/debounce"
	"github.com/respira/respira/internal/platform/upstream"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/predict", h.Predict)
	api.GET("/air-quality", h.ClassifyAirQuality)
	api.GET("/patient-lookup", h.LookupPatients)
}

func (h *Handler) Predict(c echo.Context) error {
	var in Intake
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	actor := auth.ActorFromContext(c.Request().Context())
	card, err := h.svc.Predict(c.Request().Context(), in, actor)
	if err != nil {
		var verrs ValidationErrors
		if errors.As(err, &verrs) {
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  "validation failed",
				"fields": verrs,
			})
		}
		var ue *upstream.Error
		if errors.As(err, &ue) {
			return echo.NewHTTPError(http.StatusBadGateway, "model service unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, card)
}

func (h *Handler) ClassifyAirQuality(c echo.Context) error {
	raw := c.QueryParam("pm25")
	if raw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "pm25 query parameter is required")
	}
	pm25, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "pm25 must be a number")
	}
	return c.JSON(http.StatusOK, airquality.Classify(pm25))
}

func (h *Handler) LookupPatients(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return c.JSON(http.StatusOK, map[string]interface{}{"data": []upstream.PatientRef{}, "total": 0})
	}

	refs, err := h.svc.Lookup(c.Request().Context(), query)
	if err != nil {
		if errors.Is(err, debounce.ErrSuperseded) {
			// A newer keystroke took over; tell the stale caller to drop it.
			return c.NoContent(http.StatusNoContent)
		}
		var ue *upstream.Error
		if errors.As(err, &ue) {
			return echo.NewHTTPError(http.StatusBadGateway, "model service unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"data": refs, "total": len(refs)})
}
