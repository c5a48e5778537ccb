package handler

import (
	"net/http"

	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	directory *service.DirectoryService
}

func NewClientHandler(ds *service.DirectoryService) *ClientHandler {
	return &ClientHandler{directory: ds}
}

// POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var dto domain.ClientDTO
	if !bindJSON(c, &dto) {
		return
	}
	client, err := h.directory.CreateClient(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GET /api/v1/clients?tax_id=
func (h *ClientHandler) List(c *gin.Context) {
	if taxID := c.Query("tax_id"); taxID != "" {
		client, err := h.directory.FindClientByTaxID(c.Request.Context(), taxID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, []domain.Client{*client})
		return
	}
	clients, err := h.directory.ListClients(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.directory.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// GET /api/v1/clients/:id/vehicles
func (h *ClientHandler) Vehicles(c *gin.Context) {
	client, err := h.directory.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	vehicles, err := h.directory.VehiclesOf(c.Request.Context(), client.TaxID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	var dto domain.ClientDTO
	if !bindJSON(c, &dto) {
		return
	}
	client, err := h.directory.UpdateClient(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.directory.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
