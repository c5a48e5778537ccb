package handler

import (
	"net/http"

	"parking_reservation/internal/domain"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	directory *service.DirectoryService
}

func NewVehicleHandler(ds *service.DirectoryService) *VehicleHandler {
	return &VehicleHandler{directory: ds}
}

// POST /api/v1/vehicles
func (h *VehicleHandler) Create(c *gin.Context) {
	var dto domain.VehicleDTO
	if !bindJSON(c, &dto) {
		return
	}
	vehicle, err := h.directory.CreateVehicle(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

// GET /api/v1/vehicles?plate=
func (h *VehicleHandler) List(c *gin.Context) {
	if plate := c.Query("plate"); plate != "" {
		vehicle, err := h.directory.FindVehicleByPlate(c.Request.Context(), plate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, []domain.Vehicle{*vehicle})
		return
	}
	vehicles, err := h.directory.ListVehicles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// GET /api/v1/vehicles/:id
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicle, err := h.directory.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// PUT /api/v1/vehicles/:id
func (h *VehicleHandler) Update(c *gin.Context) {
	var dto domain.VehicleDTO
	if !bindJSON(c, &dto) {
		return
	}
	vehicle, err := h.directory.UpdateVehicle(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// DELETE /api/v1/vehicles/:id
func (h *VehicleHandler) Delete(c *gin.Context) {
	if err := h.directory.DeleteVehicle(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
