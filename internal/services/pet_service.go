package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/trailpaw/custody-api/internal/lifecycle"
	"github.com/trailpaw/custody-api/internal/metrics"
	"github.com/trailpaw/custody-api/internal/models"
	"github.com/trailpaw/custody-api/internal/repository"
	"github.com/trailpaw/custody-api/internal/roles"
)

var (
	ErrPetNotFound        = errors.New("pet not found")
	ErrUnauthorizedRole   = errors.New("role lacks the required capability")
	ErrNameRequired       = errors.New("pet name is required")
	ErrOwnerRequired      = errors.New("owner name and email are required")
	ErrInvalidPetType     = errors.New("invalid pet type")
	ErrInvalidServiceType = errors.New("invalid service type")
	ErrUnknownStatus      = errors.New("unknown status")
	ErrTransitionConflict = errors.New("case was modified by another writer")
)

// EvidenceError reports a transition rejected for missing photo evidence.
type EvidenceError struct {
	Status   lifecycle.Status
	Required int
	Provided int
}

func (e *EvidenceError) Error() string {
	return fmt.Sprintf("checkpoint %q requires %d photo(s), %d provided", e.Status, e.Required, e.Provided)
}

// PetService owns case creation, listing, and the status transition engine.
type PetService struct {
	petRepo repository.PetRepository
	orgRepo repository.OrganizationRepository
}

// NewPetService creates a new PetService
func NewPetService(petRepo repository.PetRepository, orgRepo repository.OrganizationRepository) *PetService {
	return &PetService{
		petRepo: petRepo,
		orgRepo: orgRepo,
	}
}

var validPetTypes = map[models.PetType]bool{
	models.PetTypeDog:    true,
	models.PetTypeCat:    true,
	models.PetTypeBird:   true,
	models.PetTypeRabbit: true,
	models.PetTypeOther:  true,
}

var validServiceTypes = map[models.ServiceType]bool{
	models.ServicePrivate:    true,
	models.ServiceIndividual: true,
	models.ServiceCommunal:   true,
}

// CreatePetInput represents input for case intake
type CreatePetInput struct {
	Name           string
	PetType        models.PetType
	Breed          string
	WeightKg       *float64
	OwnerFirstName string
	OwnerLastName  string
	OwnerEmail     string
	OwnerPhone     string
	ServiceType    models.ServiceType
	Instructions   string
	ReferringVet   string
	Notes          string
	PhotoURLs      []string
}

// CreatePet performs intake: validates input, allocates the tracking code,
// sets the first lifecycle status, and appends the intake checkpoint, all in
// one unit.
func (s *PetService) CreatePet(actor *models.User, org *models.Organization, input CreatePetInput) (*models.Pet, error) {
	if !roles.HasCapability(actor.Role, roles.CapCaseRW) {
		return nil, ErrUnauthorizedRole
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(input.OwnerFirstName) == "" ||
		strings.TrimSpace(input.OwnerLastName) == "" ||
		strings.TrimSpace(input.OwnerEmail) == "" {
		return nil, ErrOwnerRequired
	}
	if !validPetTypes[input.PetType] {
		return nil, ErrInvalidPetType
	}
	if !validServiceTypes[input.ServiceType] {
		return nil, ErrInvalidServiceType
	}

	if err := s.checkEvidence(org.ID, lifecycle.StatusReceived, len(input.PhotoURLs)); err != nil {
		return nil, err
	}

	now := time.Now()
	pet := &models.Pet{
		OrganizationID: org.ID,
		Name:           strings.TrimSpace(input.Name),
		PetType:        input.PetType,
		Breed:          strings.TrimSpace(input.Breed),
		WeightKg:       input.WeightKg,
		OwnerFirstName: strings.TrimSpace(input.OwnerFirstName),
		OwnerLastName:  strings.TrimSpace(input.OwnerLastName),
		OwnerEmail:     strings.ToLower(strings.TrimSpace(input.OwnerEmail)),
		OwnerPhone:     strings.TrimSpace(input.OwnerPhone),
		ServiceType:    input.ServiceType,
		Instructions:   input.Instructions,
		ReferringVet:   strings.TrimSpace(input.ReferringVet),
		Status:         lifecycle.StatusReceived,
		IntakeAt:       now,
		CreatedBy:      actor.ID,
	}

	checkpoint := &models.Checkpoint{
		CheckpointType: lifecycle.StatusReceived,
		Notes:          input.Notes,
		CompletedAt:    now,
		CompletedBy:    actor.ID,
	}

	photos := photoRefs(input.PhotoURLs, actor.ID)

	if err := s.petRepo.CreateWithIntake(org, pet, checkpoint, photos); err != nil {
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	if metrics.IntakeCounter != nil {
		metrics.IntakeCounter.Inc()
	}

	return s.petRepo.FindByID(pet.ID, org.ID, "Creator")
}

// GetPet returns a case scoped to the caller's organization. A case owned by
// another tenant is indistinguishable from an absent one.
func (s *PetService) GetPet(org *models.Organization, petID uint64) (*models.Pet, error) {
	pet, err := s.petRepo.FindByID(petID, org.ID, "Creator")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPetNotFound
		}
		return nil, fmt.Errorf("failed to find pet: %w", err)
	}
	return pet, nil
}

// ListPetsInput represents filters for listing cases
type ListPetsInput struct {
	Status string
	Search string
	Limit  int
}

// ListPets returns the organization's cases, newest first.
func (s *PetService) ListPets(org *models.Organization, input ListPetsInput) ([]models.Pet, error) {
	filter := repository.PetFilter{
		OrganizationID: org.ID,
		Search:         input.Search,
		Limit:          input.Limit,
	}

	if input.Status != "" {
		status, err := lifecycle.Parse(input.Status)
		if err != nil {
			return nil, ErrUnknownStatus
		}
		filter.Status = &status
	}

	pets, err := s.petRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	return pets, nil
}

// GetCheckpoints returns a case's custody history.
func (s *PetService) GetCheckpoints(org *models.Organization, petID uint64) ([]models.Checkpoint, error) {
	if _, err := s.GetPet(org, petID); err != nil {
		return nil, err
	}

	checkpoints, err := s.petRepo.ListCheckpoints(petID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}
	return checkpoints, nil
}

// TransitionInput represents a requested status change
type TransitionInput struct {
	Requested string
	Notes     string
	Latitude  *float64
	Longitude *float64
	PhotoURLs []string
}

// Transition validates and applies one status change. The custody sequence is
// strictly linear: the only legal target is the immediate successor of the
// case's current status. The status update and the checkpoint append commit
// as a single atomic unit; a losing concurrent writer gets
// ErrTransitionConflict and persists nothing.
func (s *PetService) Transition(actor *models.User, org *models.Organization, petID uint64, input TransitionInput) (*models.Pet, error) {
	if !roles.HasCapability(actor.Role, roles.CapCaseRW) {
		return nil, ErrUnauthorizedRole
	}

	requested, err := lifecycle.Parse(input.Requested)
	if err != nil {
		return nil, ErrUnknownStatus
	}

	pet, err := s.GetPet(org, petID)
	if err != nil {
		return nil, err
	}

	if !lifecycle.CanTransition(pet.Status, requested) {
		if metrics.TransitionsRejected != nil {
			metrics.TransitionsRejected.WithLabelValues("invalid_transition").Inc()
		}
		return nil, &lifecycle.TransitionError{Current: pet.Status, Requested: requested}
	}

	if err := s.checkEvidence(org.ID, requested, len(input.PhotoURLs)); err != nil {
		if metrics.TransitionsRejected != nil {
			metrics.TransitionsRejected.WithLabelValues("evidence_required").Inc()
		}
		return nil, err
	}

	now := time.Now()
	checkpoint := &models.Checkpoint{
		CheckpointType: requested,
		Notes:          input.Notes,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		CompletedAt:    now,
		CompletedBy:    actor.ID,
	}

	photos := photoRefs(input.PhotoURLs, actor.ID)

	if err := s.petRepo.ApplyTransition(pet, pet.Status, requested, now, checkpoint, photos); err != nil {
		if errors.Is(err, repository.ErrTransitionConflict) {
			if metrics.TransitionConflicts != nil {
				metrics.TransitionConflicts.Inc()
			}
			return nil, ErrTransitionConflict
		}
		return nil, fmt.Errorf("failed to apply transition: %w", err)
	}

	if metrics.TransitionsCounter != nil {
		metrics.TransitionsCounter.WithLabelValues(string(requested)).Inc()
	}

	return s.petRepo.FindByID(pet.ID, org.ID, "Creator")
}

// TrackByCode is the unauthenticated lookup behind the family-facing tracking
// page. Callers must only expose the sanitized DTO, never owner contact data.
func (s *PetService) TrackByCode(code string) (*models.Pet, []models.Checkpoint, error) {
	pet, err := s.petRepo.FindByTrackingCode(strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPetNotFound
		}
		return nil, nil, fmt.Errorf("failed to find pet: %w", err)
	}

	checkpoints, err := s.petRepo.ListCheckpoints(pet.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	if metrics.PublicLookupsCounter != nil {
		metrics.PublicLookupsCounter.Inc()
	}

	return pet, checkpoints, nil
}

// checkEvidence enforces the organization's photo requirement for a status.
func (s *PetService) checkEvidence(orgID uint64, status lifecycle.Status, provided int) error {
	rule := lifecycle.DefaultEvidenceRules[status]

	settings, err := s.orgRepo.GetCheckpointSettings(orgID)
	if err != nil {
		return fmt.Errorf("failed to load checkpoint settings: %w", err)
	}
	for _, setting := range settings {
		if setting.Status == status {
			rule = setting.Rule()
			break
		}
	}

	if !rule.PhotoRequired {
		return nil
	}

	required := rule.MinPhotos
	if required < 1 {
		required = 1
	}
	if provided < required {
		return &EvidenceError{Status: status, Required: required, Provided: provided}
	}
	return nil
}

func photoRefs(urls []string, uploadedBy uint64) []models.CheckpointPhoto {
	photos := make([]models.CheckpointPhoto, 0, len(urls))
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		photos = append(photos, models.CheckpointPhoto{
			URL:        url,
			UploadedBy: uploadedBy,
		})
	}
	return photos
}
