package dto

import (
	"time"

	"github.com/trailpaw/custody-api/internal/lifecycle"
	"github.com/trailpaw/custody-api/internal/models"
)

// OrganizationDTO represents the tenant in API responses
type OrganizationDTO struct {
	ID                 uint64                    `json:"id"`
	Name               string                    `json:"name"`
	Slug               string                    `json:"slug"`
	Email              string                    `json:"email,omitempty"`
	Phone              string                    `json:"phone,omitempty"`
	AddressLine1       string                    `json:"address_line1,omitempty"`
	City               string                    `json:"city,omitempty"`
	State              string                    `json:"state,omitempty"`
	PostalCode         string                    `json:"postal_code,omitempty"`
	Country            string                    `json:"country"`
	SubscriptionPlan   models.SubscriptionPlan   `json:"subscription_plan"`
	SubscriptionStatus models.SubscriptionStatus `json:"subscription_status"`
	TrialEndsAt        *time.Time                `json:"trial_ends_at,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
}

// ToOrganizationDTO converts an Organization model to OrganizationDTO
func ToOrganizationDTO(org models.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:                 org.ID,
		Name:               org.Name,
		Slug:               org.Slug,
		Email:              org.Email,
		Phone:              org.Phone,
		AddressLine1:       org.AddressLine1,
		City:               org.City,
		State:              org.State,
		PostalCode:         org.PostalCode,
		Country:            org.Country,
		SubscriptionPlan:   org.SubscriptionPlan,
		SubscriptionStatus: org.SubscriptionStatus,
		TrialEndsAt:        org.TrialEndsAt,
		CreatedAt:          org.CreatedAt,
	}
}

// CheckpointSettingDTO represents one evidence requirement in API responses
type CheckpointSettingDTO struct {
	Status        lifecycle.Status `json:"status"`
	PhotoRequired bool             `json:"photo_required"`
	MinPhotos     int              `json:"min_photos"`
}

// ToCheckpointSettingDTO converts a CheckpointSetting to its DTO
func ToCheckpointSettingDTO(setting models.CheckpointSetting) CheckpointSettingDTO {
	return CheckpointSettingDTO{
		Status:        setting.Status,
		PhotoRequired: setting.PhotoRequired,
		MinPhotos:     setting.MinPhotos,
	}
}
