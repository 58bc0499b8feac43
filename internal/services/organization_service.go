package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/trailpaw/custody-api/internal/constants"
	"github.com/trailpaw/custody-api/internal/lifecycle"
	"github.com/trailpaw/custody-api/internal/models"
	"github.com/trailpaw/custody-api/internal/repository"
	"github.com/trailpaw/custody-api/internal/roles"
)

var (
	ErrInvalidOrganizationName = errors.New("organization name cannot be empty")
	ErrMemberNotFound          = errors.New("organization member not found")
	ErrCannotDeactivateSelf    = errors.New("cannot deactivate your own account")
	ErrCannotDeactivateOwner   = errors.New("the organization owner cannot be deactivated")
	ErrInvalidMemberRole       = errors.New("invited members must be admin or staff")
)

// OrganizationService provides settings and team management for a tenant.
type OrganizationService struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
	}
}

// UpdateOrganizationInput carries the editable organization fields.
type UpdateOrganizationInput struct {
	Name         *string
	Email        *string
	Phone        *string
	AddressLine1 *string
	City         *string
	State        *string
	PostalCode   *string
}

// UpdateOrganization updates profile fields. The slug is immutable; it is
// referenced by issued tracking codes.
func (s *OrganizationService) UpdateOrganization(org *models.Organization, input UpdateOrganizationInput) (*models.Organization, error) {
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrInvalidOrganizationName
		}
		org.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		org.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		org.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.AddressLine1 != nil {
		org.AddressLine1 = *input.AddressLine1
	}
	if input.City != nil {
		org.City = *input.City
	}
	if input.State != nil {
		org.State = *input.State
	}
	if input.PostalCode != nil {
		org.PostalCode = *input.PostalCode
	}

	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

// ListMembers returns all staff profiles, active and deactivated.
func (s *OrganizationService) ListMembers(org *models.Organization) ([]models.User, error) {
	users, err := s.orgRepo.ListUsers(org.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return users, nil
}

// InviteMemberInput carries a new staff profile.
type InviteMemberInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      roles.Role
}

// InviteMember creates an additional staff profile in the organization.
// Exactly one owner is designated at tenant creation, so invited members may
// only be admin or staff.
func (s *OrganizationService) InviteMember(org *models.Organization, input InviteMemberInput) (*models.User, error) {
	if input.Role != roles.RoleAdmin && input.Role != roles.RoleStaff {
		return nil, ErrInvalidMemberRole
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		OrganizationID: org.ID,
		Email:          email,
		PasswordHash:   string(hashedPassword),
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Role:           input.Role,
		IsActive:       true,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	return user, nil
}

// DeactivateMember soft-deactivates a staff profile. The row is retained so
// checkpoint attribution survives.
func (s *OrganizationService) DeactivateMember(org *models.Organization, actorID, targetID uint64) error {
	if targetID == actorID {
		return ErrCannotDeactivateSelf
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil || target.OrganizationID != org.ID {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find member: %w", err)
		}
		return ErrMemberNotFound
	}

	if target.Role == roles.RoleOwner {
		return ErrCannotDeactivateOwner
	}

	if err := s.userRepo.Deactivate(targetID); err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}
	return nil
}

// GetCheckpointSettings returns the organization's evidence requirements for
// every lifecycle status, falling back to defaults for statuses without a
// stored row.
func (s *OrganizationService) GetCheckpointSettings(org *models.Organization) ([]models.CheckpointSetting, error) {
	stored, err := s.orgRepo.GetCheckpointSettings(org.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint settings: %w", err)
	}

	byStatus := make(map[lifecycle.Status]models.CheckpointSetting, len(stored))
	for _, setting := range stored {
		byStatus[setting.Status] = setting
	}

	settings := make([]models.CheckpointSetting, 0, len(lifecycle.Order))
	for _, status := range lifecycle.Order {
		if setting, ok := byStatus[status]; ok {
			settings = append(settings, setting)
			continue
		}
		rule := lifecycle.DefaultEvidenceRules[status]
		settings = append(settings, models.CheckpointSetting{
			OrganizationID: org.ID,
			Status:         status,
			PhotoRequired:  rule.PhotoRequired,
			MinPhotos:      rule.MinPhotos,
		})
	}
	return settings, nil
}

// UpdateCheckpointSetting stores one evidence requirement override.
func (s *OrganizationService) UpdateCheckpointSetting(org *models.Organization, status lifecycle.Status, photoRequired bool, minPhotos int) (*models.CheckpointSetting, error) {
	if !status.Valid() {
		return nil, ErrUnknownStatus
	}
	if minPhotos < 0 {
		minPhotos = 0
	}

	setting := &models.CheckpointSetting{
		OrganizationID: org.ID,
		Status:         status,
		PhotoRequired:  photoRequired,
		MinPhotos:      minPhotos,
	}
	if err := s.orgRepo.SaveCheckpointSetting(setting); err != nil {
		return nil, fmt.Errorf("failed to save checkpoint setting: %w", err)
	}
	return setting, nil
}
