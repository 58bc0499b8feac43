package dto

import (
	"time"

	"github.com/trailpaw/custody-api/internal/lifecycle"
	"github.com/trailpaw/custody-api/internal/models"
)

// PetDTO represents a case in API responses
type PetDTO struct {
	ID             uint64             `json:"id"`
	TrackingCode   string             `json:"tracking_code"`
	Name           string             `json:"name"`
	PetType        models.PetType     `json:"pet_type"`
	Breed          string             `json:"breed,omitempty"`
	WeightKg       *float64           `json:"weight_kg,omitempty"`
	OwnerFirstName string             `json:"owner_first_name"`
	OwnerLastName  string             `json:"owner_last_name"`
	OwnerEmail     string             `json:"owner_email"`
	OwnerPhone     string             `json:"owner_phone,omitempty"`
	ServiceType    models.ServiceType `json:"service_type"`
	Instructions   string             `json:"instructions,omitempty"`
	ReferringVet   string             `json:"referring_vet,omitempty"`
	Status         lifecycle.Status   `json:"status"`
	IntakeAt       time.Time          `json:"intake_at"`
	PreparedAt     *time.Time         `json:"prepared_at,omitempty"`
	ChamberEntryAt *time.Time         `json:"chamber_entry_at,omitempty"`
	CrematedAt     *time.Time         `json:"cremated_at,omitempty"`
	PackagedAt     *time.Time         `json:"packaged_at,omitempty"`
	ReadyAt        *time.Time         `json:"ready_at,omitempty"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	CreatedBy      uint64             `json:"created_by"`
	CreatedByName  string             `json:"created_by_name,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// ToPetDTO converts a Pet model to PetDTO
func ToPetDTO(pet models.Pet) PetDTO {
	dto := PetDTO{
		ID:             pet.ID,
		TrackingCode:   pet.TrackingCode,
		Name:           pet.Name,
		PetType:        pet.PetType,
		Breed:          pet.Breed,
		WeightKg:       pet.WeightKg,
		OwnerFirstName: pet.OwnerFirstName,
		OwnerLastName:  pet.OwnerLastName,
		OwnerEmail:     pet.OwnerEmail,
		OwnerPhone:     pet.OwnerPhone,
		ServiceType:    pet.ServiceType,
		Instructions:   pet.Instructions,
		ReferringVet:   pet.ReferringVet,
		Status:         pet.Status,
		IntakeAt:       pet.IntakeAt,
		PreparedAt:     pet.PreparedAt,
		ChamberEntryAt: pet.ChamberEntryAt,
		CrematedAt:     pet.CrematedAt,
		PackagedAt:     pet.PackagedAt,
		ReadyAt:        pet.ReadyAt,
		CompletedAt:    pet.CompletedAt,
		CreatedBy:      pet.CreatedBy,
		CreatedAt:      pet.CreatedAt,
		UpdatedAt:      pet.UpdatedAt,
	}

	// Include creator name if preloaded
	if pet.Creator.ID != 0 {
		dto.CreatedByName = pet.Creator.FullName()
	}

	return dto
}

// PetListResponse represents a list of cases
type PetListResponse struct {
	Pets []PetDTO `json:"pets"`
}

// CheckpointPhotoDTO represents a photo reference in API responses
type CheckpointPhotoDTO struct {
	ID  uint64 `json:"id"`
	URL string `json:"url"`
}

// CheckpointDTO represents a custody record in API responses
type CheckpointDTO struct {
	ID              uint64               `json:"id"`
	CheckpointType  lifecycle.Status     `json:"checkpoint_type"`
	Notes           string               `json:"notes,omitempty"`
	Latitude        *float64             `json:"latitude,omitempty"`
	Longitude       *float64             `json:"longitude,omitempty"`
	CompletedAt     time.Time            `json:"completed_at"`
	CompletedBy     uint64               `json:"completed_by"`
	CompletedByName string               `json:"completed_by_name,omitempty"`
	Photos          []CheckpointPhotoDTO `json:"photos,omitempty"`
}

// ToCheckpointDTO converts a Checkpoint model to CheckpointDTO
func ToCheckpointDTO(cp models.Checkpoint) CheckpointDTO {
	dto := CheckpointDTO{
		ID:             cp.ID,
		CheckpointType: cp.CheckpointType,
		Notes:          cp.Notes,
		Latitude:       cp.Latitude,
		Longitude:      cp.Longitude,
		CompletedAt:    cp.CompletedAt,
		CompletedBy:    cp.CompletedBy,
	}

	if cp.Completer.ID != 0 {
		dto.CompletedByName = cp.Completer.FullName()
	}

	for _, photo := range cp.Photos {
		dto.Photos = append(dto.Photos, CheckpointPhotoDTO{ID: photo.ID, URL: photo.URL})
	}

	return dto
}

// PublicCheckpointDTO is the family-facing view of one custody record.
// No staff identity or geolocation is exposed.
type PublicCheckpointDTO struct {
	CheckpointType lifecycle.Status `json:"checkpoint_type"`
	CompletedAt    time.Time        `json:"completed_at"`
}

// PublicTrackingDTO is the family-facing tracking view. Owner contact details
// are deliberately absent.
type PublicTrackingDTO struct {
	TrackingCode string                `json:"tracking_code"`
	Name         string                `json:"name"`
	PetType      models.PetType        `json:"pet_type"`
	Status       lifecycle.Status      `json:"status"`
	IntakeAt     time.Time             `json:"intake_at"`
	Checkpoints  []PublicCheckpointDTO `json:"checkpoints"`
}

// ToPublicTrackingDTO builds the sanitized tracking view
func ToPublicTrackingDTO(pet models.Pet, checkpoints []models.Checkpoint) PublicTrackingDTO {
	dto := PublicTrackingDTO{
		TrackingCode: pet.TrackingCode,
		Name:         pet.Name,
		PetType:      pet.PetType,
		Status:       pet.Status,
		IntakeAt:     pet.IntakeAt,
		Checkpoints:  make([]PublicCheckpointDTO, 0, len(checkpoints)),
	}
	for _, cp := range checkpoints {
		dto.Checkpoints = append(dto.Checkpoints, PublicCheckpointDTO{
			CheckpointType: cp.CheckpointType,
			CompletedAt:    cp.CompletedAt,
		})
	}
	return dto
}
