package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trailpaw/custody-api/internal/models"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization by ID
func (r *GormOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindBySlug finds an organization by its unique slug
func (r *GormOrganizationRepository) FindBySlug(slug string) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.Where("slug = ?", slug).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// Update updates an organization
func (r *GormOrganizationRepository) Update(org *models.Organization) error {
	return r.db.Save(org).Error
}

// ListUsers lists all user profiles in an organization
func (r *GormOrganizationRepository) ListUsers(organizationID uint64) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("organization_id = ?", organizationID).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetCheckpointSettings returns the organization's evidence requirements
func (r *GormOrganizationRepository) GetCheckpointSettings(organizationID uint64) ([]models.CheckpointSetting, error) {
	var settings []models.CheckpointSetting
	if err := r.db.Where("organization_id = ?", organizationID).
		Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// SaveCheckpointSetting creates or updates one evidence requirement row
func (r *GormOrganizationRepository) SaveCheckpointSetting(setting *models.CheckpointSetting) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "organization_id"}, {Name: "status"}},
			DoUpdates: clause.AssignmentColumns([]string{"photo_required", "min_photos", "updated_at"}),
		}).
		Create(setting).Error
}
