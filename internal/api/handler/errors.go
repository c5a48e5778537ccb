package handler

import (
	"errors"
	"net/http"

	"parking_reservation/internal/domain"
	"parking_reservation/internal/repository"
	"parking_reservation/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor traduz o tipo de erro do núcleo em código HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateName),
		errors.Is(err, domain.ErrDuplicateTaxID),
		errors.Is(err, domain.ErrDuplicatePlate),
		errors.Is(err, domain.ErrSlotTaken),
		errors.Is(err, domain.ErrBadState),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidCapacity),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidTime),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrUnknownOwner),
		errors.Is(err, domain.ErrUnknownClient),
		errors.Is(err, domain.ErrUnknownVehicle),
		errors.Is(err, domain.ErrUnknownSpot),
		errors.Is(err, domain.ErrExitBeforeEntry),
		errors.Is(err, domain.ErrSelfDelete):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrLPRUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError escreve o erro; falhas internas ficam registradas em c.Errors para o log da requisição.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "erro interno"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func bindJSON(c *gin.Context, dto any) bool {
	if err := c.ShouldBindJSON(dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
