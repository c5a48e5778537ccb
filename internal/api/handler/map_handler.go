package handler

import (
	"net/http"

	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type MapHandler struct {
	maps   *service.MapService
	engine *service.ReservationService
}

func NewMapHandler(ms *service.MapService, rs *service.ReservationService) *MapHandler {
	return &MapHandler{maps: ms, engine: rs}
}

// date ausente usa o dia de hoje.
func (h *MapHandler) date(c *gin.Context) string {
	if d := c.Query("date"); d != "" {
		return d
	}
	return domain.FormatDate(h.engine.Now())
}

// GET /api/v1/map?date=dd/MM/yyyy&block=
func (h *MapHandler) Project(c *gin.Context) {
	entries, err := h.maps.Project(c.Request.Context(), h.date(c), c.Query("block"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GET /api/v1/map/summary?date=dd/MM/yyyy
func (h *MapHandler) Summary(c *gin.Context) {
	summary, err := h.maps.Summary(c.Request.Context(), h.date(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
