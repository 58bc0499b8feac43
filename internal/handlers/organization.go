package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trailpaw/custody-api/internal/dto"
	apierrors "github.com/trailpaw/custody-api/internal/errors"
	"github.com/trailpaw/custody-api/internal/lifecycle"
	"github.com/trailpaw/custody-api/internal/roles"
	"github.com/trailpaw/custody-api/internal/services"
)

// OrganizationHandler coordinates tenant settings, team, and billing reads.
type OrganizationHandler struct {
	orgService     *services.OrganizationService
	billingService *services.BillingService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService, billingService *services.BillingService) *OrganizationHandler {
	return &OrganizationHandler{
		orgService:     orgService,
		billingService: billingService,
	}
}

// GetOrganization returns the caller's organization.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	_, org, ok := tenantContext(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org))
}

// UpdateOrganization updates tenant profile fields.
func (h *OrganizationHandler) UpdateOrganization(c *gin.Context) {
	_, org, ok := tenantContext(c)
	if !ok {
		return
	}

	type UpdateRequest struct {
		Name         *string `json:"name"`
		Email        *string `json:"email"`
		Phone        *string `json:"phone"`
		AddressLine1 *string `json:"address_line1"`
		City         *string `json:"city"`
		State        *string `json:"state"`
		PostalCode   *string `json:"postal_code"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.orgService.UpdateOrganization(org, services.UpdateOrganizationInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*updated))
}

// ListMembers returns the organization's staff profiles.
func (h *OrganizationHandler) ListMembers(c *gin.Context) {
	_, org, ok := tenantContext(c)
	if !ok {
		return
	}

	members, err := h.orgService.ListMembers(org)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	response := make([]dto.UserDTO, 0, len(members))
	for _, member := range members {
		response = append(response, dto.ToUserDTO(member))
	}

	c.JSON(http.StatusOK, gin.H{"members": response})
}

// InviteMember creates an additional staff profile.
func (h *OrganizationHandler) InviteMember(c *gin.Context) {
	_, org, ok := tenantContext(c)
	if !ok {
		return
	}

	type InviteRequest struct {
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"first_name" binding:"required,max=100"`
		LastName  string `json:"last_name" binding:"required,max=100"`
		Role      string `json:"role" binding:"required"`
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	member, err := h.orgService.InviteMember(org, services.InviteMemberInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      roles.Role(req.Role),
	})
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*member))
}

// DeactivateMember soft-deactivates a staff profile.
func (h *OrganizationHandler) DeactivateMember(c *gin.Context) {
	actor, org, ok := tenantContext(c)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.orgService.DeactivateMember(org, actor.ID, targetID); err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member deactivated"})
}

// GetUsage returns the current billing month's metering.
func (h *OrganizationHandler) GetUsage(c *gin.Context) {
	_, org, ok := tenantContext(c)
	if !ok {
		return
	}

	usage, err := h.billingService.GetMonthlyUsage(org, time.Now())
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, usage)
}

// GetCheckpointSettings returns the evidence requirements per status.
func (h *OrganizationHandler) GetCheckpointSettings(c *gin.Context) {
	_, org, ok := tenantContext(c)
	if !ok {
		return
	}

	settings, err := h.orgService.GetCheckpointSettings(org)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	response := make([]dto.CheckpointSettingDTO, 0, len(settings))
	for _, setting := range settings {
		response = append(response, dto.ToCheckpointSettingDTO(setting))
	}

	c.JSON(http.StatusOK, gin.H{"checkpoint_settings": response})
}

// UpdateCheckpointSetting stores one evidence requirement override.
func (h *OrganizationHandler) UpdateCheckpointSetting(c *gin.Context) {
	_, org, ok := tenantContext(c)
	if !ok {
		return
	}

	type SettingRequest struct {
		Status        string `json:"status" binding:"required"`
		PhotoRequired bool   `json:"photo_required"`
		MinPhotos     int    `json:"min_photos"`
	}

	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	setting, err := h.orgService.UpdateCheckpointSetting(org,
		lifecycle.Status(req.Status), req.PhotoRequired, req.MinPhotos)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCheckpointSettingDTO(*setting))
}

func respondOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidOrganizationName),
		errors.Is(err, services.ErrInvalidMemberRole),
		errors.Is(err, services.ErrUnknownStatus),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrCannotDeactivateSelf),
		errors.Is(err, services.ErrCannotDeactivateOwner):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.RespondWithError(c, http.StatusConflict,
			apierrors.NewAPIError(apierrors.ErrCodeAlreadyExists, err.Error()))
	case errors.Is(err, services.ErrMemberNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
