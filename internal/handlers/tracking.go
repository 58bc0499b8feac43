package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trailpaw/custody-api/internal/dto"
	apierrors "github.com/trailpaw/custody-api/internal/errors"
	"github.com/trailpaw/custody-api/internal/services"
)

// TrackingHandler serves the unauthenticated family-facing tracking lookup.
type TrackingHandler struct {
	petService *services.PetService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(petService *services.PetService) *TrackingHandler {
	return &TrackingHandler{
		petService: petService,
	}
}

// Track returns the sanitized custody timeline for a tracking code.
func (h *TrackingHandler) Track(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		apierrors.BadRequest(c, "Tracking code is required")
		return
	}

	pet, checkpoints, err := h.petService.TrackByCode(code)
	if err != nil {
		if errors.Is(err, services.ErrPetNotFound) {
			apierrors.NotFound(c, "No case found for this tracking code")
			return
		}
		apierrors.InternalError(c, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, dto.ToPublicTrackingDTO(*pet, checkpoints))
}
