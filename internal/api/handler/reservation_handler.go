package handler

import (
	"net/http"

	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	engine *service.ReservationService
}

func NewReservationHandler(rs *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{engine: rs}
}

// POST /api/v1/reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	var dto domain.CreateReservationDTO
	if !bindJSON(c, &dto) {
		return
	}
	r, err := h.engine.Create(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// GET /api/v1/reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	r, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// POST /api/v1/reservations/:id/occupy
func (h *ReservationHandler) Occupy(c *gin.Context) {
	r, err := h.engine.Occupy(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// POST /api/v1/reservations/:id/cancel
func (h *ReservationHandler) Cancel(c *gin.Context) {
	r, err := h.engine.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// POST /api/v1/reservations/:id/finalize
// Sem corpo, a saída é o horário atual.
func (h *ReservationHandler) Finalize(c *gin.Context) {
	var (
		r   *domain.Reservation
		err error
	)
	if c.Request.ContentLength == 0 {
		r, err = h.engine.FinalizeNow(c.Request.Context(), c.Param("id"))
	} else {
		var dto domain.FinalizeReservationDTO
		if !bindJSON(c, &dto) {
			return
		}
		r, err = h.engine.Finalize(c.Request.Context(), c.Param("id"), dto)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// DELETE /api/v1/reservations/:id
func (h *ReservationHandler) Delete(c *gin.Context) {
	if err := h.engine.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
