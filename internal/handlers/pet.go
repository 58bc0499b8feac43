package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/trailpaw/custody-api/internal/dto"
	apierrors "github.com/trailpaw/custody-api/internal/errors"
	"github.com/trailpaw/custody-api/internal/lifecycle"
	"github.com/trailpaw/custody-api/internal/middleware"
	"github.com/trailpaw/custody-api/internal/models"
	"github.com/trailpaw/custody-api/internal/services"
)

// PetHandler coordinates case-related HTTP handlers.
type PetHandler struct {
	petService *services.PetService
}

// NewPetHandler creates a new PetHandler.
func NewPetHandler(petService *services.PetService) *PetHandler {
	return &PetHandler{
		petService: petService,
	}
}

// CreatePet performs intake of a new case.
func (h *PetHandler) CreatePet(c *gin.Context) {
	actor, org, ok := tenantContext(c)
	if !ok {
		return
	}

	type CreatePetRequest struct {
		Name           string   `json:"name" binding:"required,max=255"`
		PetType        string   `json:"pet_type" binding:"required"`
		Breed          string   `json:"breed"`
		WeightKg       *float64 `json:"weight_kg"`
		OwnerFirstName string   `json:"owner_first_name" binding:"required,max=100"`
		OwnerLastName  string   `json:"owner_last_name" binding:"required,max=100"`
		OwnerEmail     string   `json:"owner_email" binding:"required,email"`
		OwnerPhone     string   `json:"owner_phone"`
		ServiceType    string   `json:"service_type" binding:"required"`
		Instructions   string   `json:"instructions"`
		ReferringVet   string   `json:"referring_vet"`
		Notes          string   `json:"notes"`
		PhotoURLs      []string `json:"photo_urls"`
	}

	var req CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	pet, err := h.petService.CreatePet(actor, org, services.CreatePetInput{
		Name:           req.Name,
		PetType:        models.PetType(req.PetType),
		Breed:          req.Breed,
		WeightKg:       req.WeightKg,
		OwnerFirstName: req.OwnerFirstName,
		OwnerLastName:  req.OwnerLastName,
		OwnerEmail:     req.OwnerEmail,
		OwnerPhone:     req.OwnerPhone,
		ServiceType:    models.ServiceType(req.ServiceType),
		Instructions:   req.Instructions,
		ReferringVet:   req.ReferringVet,
		Notes:          req.Notes,
		PhotoURLs:      req.PhotoURLs,
	})
	if err != nil {
		respondPetError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPetDTO(*pet))
}

// ListPets returns the organization's case queue.
func (h *PetHandler) ListPets(c *gin.Context) {
	_, org, ok := tenantContext(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	pets, err := h.petService.ListPets(org, services.ListPetsInput{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Limit:  limit,
	})
	if err != nil {
		respondPetError(c, err)
		return
	}

	response := dto.PetListResponse{Pets: make([]dto.PetDTO, 0, len(pets))}
	for _, pet := range pets {
		response.Pets = append(response.Pets, dto.ToPetDTO(pet))
	}

	c.JSON(http.StatusOK, response)
}

// GetPet returns one case.
func (h *PetHandler) GetPet(c *gin.Context) {
	_, org, ok := tenantContext(c)
	if !ok {
		return
	}

	petID, ok := petIDParam(c)
	if !ok {
		return
	}

	pet, err := h.petService.GetPet(org, petID)
	if err != nil {
		respondPetError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPetDTO(*pet))
}

// ListCheckpoints returns a case's custody history.
func (h *PetHandler) ListCheckpoints(c *gin.Context) {
	_, org, ok := tenantContext(c)
	if !ok {
		return
	}

	petID, ok := petIDParam(c)
	if !ok {
		return
	}

	checkpoints, err := h.petService.GetCheckpoints(org, petID)
	if err != nil {
		respondPetError(c, err)
		return
	}

	response := make([]dto.CheckpointDTO, 0, len(checkpoints))
	for _, cp := range checkpoints {
		response = append(response, dto.ToCheckpointDTO(cp))
	}

	c.JSON(http.StatusOK, gin.H{"checkpoints": response})
}

// Transition applies one status change to a case.
func (h *PetHandler) Transition(c *gin.Context) {
	actor, org, ok := tenantContext(c)
	if !ok {
		return
	}

	petID, ok := petIDParam(c)
	if !ok {
		return
	}

	type TransitionRequest struct {
		Status    string   `json:"status" binding:"required"`
		Notes     string   `json:"notes"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
		PhotoURLs []string `json:"photo_urls"`
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	pet, err := h.petService.Transition(actor, org, petID, services.TransitionInput{
		Requested: req.Status,
		Notes:     req.Notes,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		PhotoURLs: req.PhotoURLs,
	})
	if err != nil {
		respondPetError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPetDTO(*pet))
}

func tenantContext(c *gin.Context) (*models.User, *models.Organization, bool) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return nil, nil, false
	}
	org, exists := middleware.GetOrganization(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return nil, nil, false
	}
	return user, org, true
}

func petIDParam(c *gin.Context) (uint64, bool) {
	petID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid pet ID")
		return 0, false
	}
	return petID, true
}

func respondPetError(c *gin.Context, err error) {
	var transitionErr *lifecycle.TransitionError
	var evidenceErr *services.EvidenceError

	switch {
	case errors.As(err, &transitionErr):
		apierrors.InvalidTransition(c, string(transitionErr.Current), string(transitionErr.Requested))
	case errors.As(err, &evidenceErr):
		apierrors.EvidenceRequired(c, string(evidenceErr.Status), evidenceErr.Required, evidenceErr.Provided)
	case errors.Is(err, services.ErrPetNotFound):
		apierrors.NotFound(c, "Pet not found")
	case errors.Is(err, services.ErrUnauthorizedRole):
		apierrors.Unauthorized(c, "")
	case errors.Is(err, services.ErrTransitionConflict):
		apierrors.Conflict(c, "Case was updated by another user, reload and retry")
	case errors.Is(err, services.ErrUnknownStatus),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrOwnerRequired),
		errors.Is(err, services.ErrInvalidPetType),
		errors.Is(err, services.ErrInvalidServiceType):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
