package handler

import (
	"net/http"

	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type LPRHandler struct {
	lprService *service.LPRService
}

func NewLPRHandler(lprService *service.LPRService) *LPRHandler {
	return &LPRHandler{lprService: lprService}
}

// POST /api/v1/lpr/lookup
func (h *LPRHandler) Lookup(c *gin.Context) {
	var req domain.LPRRequestDTO
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.lprService.Lookup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
