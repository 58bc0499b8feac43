package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/trailpaw/custody-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

var (
	// ErrCreateOrganization is returned when creating the organization fails inside the signup transaction.
	ErrCreateOrganization = errors.New("user repository: create organization failed")
	// ErrCreateUser is returned when creating the owner profile fails inside the signup transaction.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrCreateSettings is returned when seeding checkpoint settings fails inside the signup transaction.
	ErrCreateSettings = errors.New("user repository: seed checkpoint settings failed")
)

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user profile
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// ProvisionTenant creates the organization, its owner profile, the default
// checkpoint settings, and the tracking sequence atomically. Invoked only
// from the signup flow; nothing is ever provisioned from a read path.
func (r *GormUserRepository) ProvisionTenant(org *models.Organization, owner *models.User, settings []models.CheckpointSetting) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		prefix, err := allocateTrackingPrefix(tx, org.Slug)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCreateOrganization, err)
		}
		org.TrackingPrefix = prefix

		if err := tx.Create(org).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateOrganization, err)
		}

		owner.OrganizationID = org.ID
		if err := tx.Create(owner).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateUser, err)
		}

		for i := range settings {
			settings[i].OrganizationID = org.ID
		}
		if len(settings) > 0 {
			if err := tx.Create(&settings).Error; err != nil {
				return fmt.Errorf("%w: %v", ErrCreateSettings, err)
			}
		}

		seq := models.TrackingSequence{OrganizationID: org.ID, NextValue: 1}
		if err := tx.Create(&seq).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateSettings, err)
		}

		return nil
	})
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// TouchLastSeen updates the last-seen timestamp without touching updated_at
func (r *GormUserRepository) TouchLastSeen(id uint64, at time.Time) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_seen_at", at).Error
}

// Deactivate soft-deactivates a user
func (r *GormUserRepository) Deactivate(id uint64) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
