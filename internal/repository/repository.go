package repository

import (
	"time"

	"github.com/trailpaw/custody-api/internal/lifecycle"
	"github.com/trailpaw/custody-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user profile
	Create(user *models.User) error

	// ProvisionTenant creates the organization, its owner, the default
	// checkpoint settings, and the tracking sequence within one transaction.
	ProvisionTenant(org *models.Organization, owner *models.User, settings []models.CheckpointSetting) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// TouchLastSeen updates the last-seen timestamp without touching updated_at
	TouchLastSeen(id uint64, at time.Time) error

	// Deactivate soft-deactivates a user; the row is kept for attribution
	Deactivate(id uint64) error
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindBySlug finds an organization by its unique slug
	FindBySlug(slug string) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// ListUsers lists all user profiles in an organization
	ListUsers(organizationID uint64) ([]models.User, error)

	// GetCheckpointSettings returns the organization's evidence requirements
	GetCheckpointSettings(organizationID uint64) ([]models.CheckpointSetting, error)

	// SaveCheckpointSetting creates or updates one evidence requirement row
	SaveCheckpointSetting(setting *models.CheckpointSetting) error
}

// PetFilter holds filtering options for listing cases
type PetFilter struct {
	OrganizationID uint64
	Status         *lifecycle.Status
	Search         string
	Limit          int
}

// PetRepository defines the interface for case data access
type PetRepository interface {
	// CreateWithIntake allocates an organization-scoped tracking code,
	// creates the pet and its initial checkpoint, and records photo
	// references, all within one transaction.
	CreateWithIntake(org *models.Organization, pet *models.Pet, checkpoint *models.Checkpoint, photos []models.CheckpointPhoto) error

	// FindByID finds a case scoped to an organization. A case owned by
	// another organization is reported as not found.
	FindByID(id, organizationID uint64, preload ...string) (*models.Pet, error)

	// FindByTrackingCode finds a case by tracking code for public lookup
	FindByTrackingCode(code string) (*models.Pet, error)

	// List retrieves cases with filtering, newest first
	List(filter PetFilter) ([]models.Pet, error)

	// ListCheckpoints returns a case's checkpoint history in custody order
	ListCheckpoints(petID uint64) ([]models.Checkpoint, error)

	// ApplyTransition atomically advances a case's status and appends the
	// checkpoint. The update is guarded by the expected current status; a
	// concurrent writer that lost the race gets ErrTransitionConflict and
	// nothing is persisted.
	ApplyTransition(pet *models.Pet, from, to lifecycle.Status, at time.Time, checkpoint *models.Checkpoint, photos []models.CheckpointPhoto) error

	// CountByStatus returns per-status case counts for an organization
	CountByStatus(organizationID uint64) (map[lifecycle.Status]int64, error)

	// CountCreatedBetween counts cases created in [from, to)
	CountCreatedBetween(organizationID uint64, from, to time.Time) (int64, error)
}
