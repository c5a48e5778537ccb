package handler

import (
	"net/http"

	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type BlockHandler struct {
	catalog *service.CatalogService
}

func NewBlockHandler(cs *service.CatalogService) *BlockHandler {
	return &BlockHandler{catalog: cs}
}

// POST /api/v1/blocks
func (h *BlockHandler) Create(c *gin.Context) {
	var dto domain.BlockDTO
	if !bindJSON(c, &dto) {
		return
	}
	block, err := h.catalog.CreateBlock(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

// GET /api/v1/blocks
func (h *BlockHandler) List(c *gin.Context) {
	blocks, err := h.catalog.ListBlocks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blocks)
}

// GET /api/v1/blocks/:id
func (h *BlockHandler) Get(c *gin.Context) {
	block, err := h.catalog.GetBlock(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

// PUT /api/v1/blocks/:id
func (h *BlockHandler) Update(c *gin.Context) {
	var dto domain.BlockDTO
	if !bindJSON(c, &dto) {
		return
	}
	block, err := h.catalog.UpdateBlock(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, block)
}

// DELETE /api/v1/blocks/:id
func (h *BlockHandler) Delete(c *gin.Context) {
	if err := h.catalog.DeleteBlock(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/spots?block=&include_removed=true
func (h *BlockHandler) Spots(c *gin.Context) {
	includeRemoved := c.Query("include_removed") == "true"
	var (
		spots []domain.Spot
		err   error
	)
	if block := c.Query("block"); block != "" {
		spots, err = h.catalog.ListSpots(c.Request.Context(), block, includeRemoved)
	} else {
		spots, err = h.catalog.ListAllSpots(c.Request.Context(), includeRemoved)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spots)
}
