package history

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/respira/respira/internal/platform/upstream"
	"github.com/respira/respira/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/history", h.ListHistory)
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:id/progress", h.GetPatientProgress)
	api.GET("/stats", h.GetStats)
}

// historyResponse is the pagination envelope plus the boundary-drop count.
type historyResponse struct {
	*pagination.Response
	DroppedRecords int `json:"dropped_records"`
}

func (h *Handler) ListHistory(c echo.Context) error {
	records, dropped, err := h.svc.Records(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return upstreamError(err)
	}

	pg := pagination.FromContext(c)
	start, end := pg.Page(len(records))
	return c.JSON(http.StatusOK, historyResponse{
		Response:       pagination.NewResponse(records[start:end], len(records), pg.Limit, pg.Offset),
		DroppedRecords: dropped,
	})
}

func (h *Handler) ListPatients(c echo.Context) error {
	groups, err := h.svc.Patients(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  groups,
		"total": len(groups),
	})
}

func (h *Handler) GetPatientProgress(c echo.Context) error {
	group, summary, err := h.svc.PatientProgress(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return upstreamError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"patient":  group,
		"progress": summary,
	})
}

func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// upstreamError maps a failed model-service call to a transient-error
// response so callers know a retry may succeed.
func upstreamError(err error) error {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		return echo.NewHTTPError(http.StatusBadGateway, "model service unavailable")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
