package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trailpaw/custody-api/internal/constants"
	"github.com/trailpaw/custody-api/internal/lifecycle"
	"github.com/trailpaw/custody-api/internal/models"
)

// ErrTransitionConflict is returned when the status-guarded update matched no
// row: either a concurrent writer advanced the case first or the expected
// status was stale. Nothing is persisted in that case.
var ErrTransitionConflict = errors.New("pet repository: concurrent transition conflict")

// GormPetRepository is a GORM implementation of PetRepository
type GormPetRepository struct {
	db *gorm.DB
}

// NewPetRepository creates a new PetRepository
func NewPetRepository(db *gorm.DB) PetRepository {
	return &GormPetRepository{db: db}
}

// CreateWithIntake allocates a tracking code from the organization's sequence
// and creates the pet, its intake checkpoint, and photo references atomically.
func (r *GormPetRepository) CreateWithIntake(org *models.Organization, pet *models.Pet, checkpoint *models.Checkpoint, photos []models.CheckpointPhoto) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		code, err := nextTrackingCode(tx, org)
		if err != nil {
			return err
		}
		pet.TrackingCode = code

		if err := tx.Create(pet).Error; err != nil {
			return err
		}

		checkpoint.PetID = pet.ID
		if err := tx.Create(checkpoint).Error; err != nil {
			return err
		}

		for i := range photos {
			photos[i].PetID = pet.ID
			photos[i].CheckpointID = checkpoint.ID
		}
		if len(photos) > 0 {
			if err := tx.Create(&photos).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// nextTrackingCode increments the organization's sequence under a row lock so
// codes never collide under concurrent intake. The row is seeded at tenant
// provisioning; a missing row is a provisioning fault, never created here.
func nextTrackingCode(tx *gorm.DB, org *models.Organization) (string, error) {
	var seq models.TrackingSequence

	query := tx.Where("organization_id = ?", org.ID)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.First(&seq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("tracking sequence missing for organization %d: %w", org.ID, err)
		}
		return "", err
	}

	value := seq.NextValue
	if err := tx.Model(&models.TrackingSequence{}).
		Where("organization_id = ?", org.ID).
		Update("next_value", value+1).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s-%06d", org.TrackingPrefix, value), nil
}

// allocateTrackingPrefix reserves a code prefix no other organization holds.
// Tracking codes are resolved globally by the public lookup, so two tenants
// must never share a prefix; colliding base prefixes get a numeric suffix.
func allocateTrackingPrefix(tx *gorm.DB, slug string) (string, error) {
	base := trackingPrefix(slug)
	candidate := base
	for n := 2; ; n++ {
		var count int64
		if err := tx.Model(&models.Organization{}).
			Where("tracking_prefix = ?", candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, n)
	}
}

// trackingPrefix derives the base code prefix from the org slug.
func trackingPrefix(slug string) string {
	var letters []rune
	for _, r := range slug {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			letters = append(letters, r)
		}
		if len(letters) == 3 {
			break
		}
	}
	if len(letters) == 0 {
		return "PET"
	}
	return strings.ToUpper(string(letters))
}

// FindByID finds a case scoped to an organization
func (r *GormPetRepository) FindByID(id, organizationID uint64, preload ...string) (*models.Pet, error) {
	var pet models.Pet
	query := r.db.Where("organization_id = ?", organizationID)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&pet, id).Error; err != nil {
		return nil, err
	}

	return &pet, nil
}

// FindByTrackingCode finds a case by tracking code for public lookup
func (r *GormPetRepository) FindByTrackingCode(code string) (*models.Pet, error) {
	var pet models.Pet
	if err := r.db.Where("tracking_code = ?", code).First(&pet).Error; err != nil {
		return nil, err
	}
	return &pet, nil
}

// List retrieves cases with filtering, newest first
func (r *GormPetRepository) List(filter PetFilter) ([]models.Pet, error) {
	var pets []models.Pet

	query := r.db.Model(&models.Pet{}).
		Where("pets.organization_id = ?", filter.OrganizationID)

	if filter.Status != nil {
		query = query.Where("pets.status = ?", *filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"lower(pets.name) LIKE ? OR lower(pets.owner_first_name) LIKE ? OR lower(pets.owner_last_name) LIKE ? OR lower(pets.owner_email) LIKE ? OR lower(pets.tracking_code) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = constants.DefaultListLimit
	}
	if limit > constants.MaxListLimit {
		limit = constants.MaxListLimit
	}

	if err := query.
		Order("pets.created_at DESC").
		Limit(limit).
		Preload("Creator").
		Find(&pets).Error; err != nil {
		return nil, err
	}

	return pets, nil
}

// ListCheckpoints returns a case's checkpoint history in custody order
func (r *GormPetRepository) ListCheckpoints(petID uint64) ([]models.Checkpoint, error) {
	var checkpoints []models.Checkpoint
	if err := r.db.Where("pet_id = ?", petID).
		Order("completed_at ASC").
		Preload("Completer").
		Preload("Photos").
		Find(&checkpoints).Error; err != nil {
		return nil, err
	}
	return checkpoints, nil
}

// ApplyTransition atomically advances a case's status and appends the
// checkpoint. The update names the expected current status; when a concurrent
// writer advanced the case first, no row matches and nothing commits.
func (r *GormPetRepository) ApplyTransition(pet *models.Pet, from, to lifecycle.Status, at time.Time, checkpoint *models.Checkpoint, photos []models.CheckpointPhoto) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     to,
			"updated_at": at,
		}
		if col := to.TimestampColumn(); col != "" {
			updates[col] = at
		}

		result := tx.Model(&models.Pet{}).
			Where("id = ? AND organization_id = ? AND status = ?", pet.ID, pet.OrganizationID, from).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTransitionConflict
		}

		checkpoint.PetID = pet.ID
		if err := tx.Create(checkpoint).Error; err != nil {
			return err
		}

		for i := range photos {
			photos[i].PetID = pet.ID
			photos[i].CheckpointID = checkpoint.ID
		}
		if len(photos) > 0 {
			if err := tx.Create(&photos).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// CountByStatus returns per-status case counts for an organization
func (r *GormPetRepository) CountByStatus(organizationID uint64) (map[lifecycle.Status]int64, error) {
	type statusCount struct {
		Status lifecycle.Status
		Count  int64
	}

	var rows []statusCount
	if err := r.db.Model(&models.Pet{}).
		Select("status, count(*) as count").
		Where("organization_id = ?", organizationID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[lifecycle.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountCreatedBetween counts cases created in [from, to)
func (r *GormPetRepository) CountCreatedBetween(organizationID uint64, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Pet{}).
		Where("organization_id = ? AND created_at >= ? AND created_at < ?", organizationID, from, to).
		Count(&count).Error
	return count, err
}
