package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/trailpaw/custody-api/internal/constants"
	"github.com/trailpaw/custody-api/internal/lifecycle"
	"github.com/trailpaw/custody-api/internal/logger"
	"github.com/trailpaw/custody-api/internal/models"
	"github.com/trailpaw/custody-api/internal/repository"
	"github.com/trailpaw/custody-api/internal/roles"
)

var (
	ErrEmailTaken               = errors.New("email already registered")
	ErrOrganizationSlugTaken    = errors.New("organization name already in use")
	ErrMissingSignupFields      = errors.New("email and organization name are required")
	ErrUnusableOrganizationName = errors.New("organization name must contain letters or digits")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrPasswordTooShort         = errors.New("password too short")
	ErrProfileNotFound          = errors.New("no staff profile for this account")
	ErrAccountDeactivated       = errors.New("account is deactivated")
	ErrFailedToHashPassword     = errors.New("failed to hash password")
	ErrFailedToProvision        = errors.New("failed to provision tenant")
)

// AuthService resolves authenticated principals to staff profiles and their
// owning organization, and provisions new tenants at signup.
type AuthService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
	}
}

// SignupInput represents the required information to provision a tenant.
type SignupInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	OrganizationName string
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the unique URL-safe identifier from an organization name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStrip.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Signup provisions a new tenant: the organization on a 14-day starter trial,
// the founding owner profile, and the default checkpoint settings. This is
// the only path that creates an organization.
func (s *AuthService) Signup(input SignupInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	orgName := strings.TrimSpace(input.OrganizationName)
	if email == "" || orgName == "" {
		return nil, ErrMissingSignupFields
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	slug := Slugify(orgName)
	if slug == "" {
		return nil, ErrUnusableOrganizationName
	}
	if _, err := s.orgRepo.FindBySlug(slug); err == nil {
		return nil, ErrOrganizationSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	trialEnds := time.Now().AddDate(0, 0, constants.TrialDays)
	org := &models.Organization{
		Name:               orgName,
		Slug:               slug,
		Email:              email,
		Country:            "US",
		SubscriptionPlan:   models.PlanStarter,
		SubscriptionStatus: models.SubscriptionTrialing,
		TrialEndsAt:        &trialEnds,
	}

	owner := &models.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         roles.RoleOwner,
		IsActive:     true,
	}

	settings := make([]models.CheckpointSetting, 0, len(lifecycle.Order))
	for _, status := range lifecycle.Order {
		rule := lifecycle.DefaultEvidenceRules[status]
		settings = append(settings, models.CheckpointSetting{
			Status:        status,
			PhotoRequired: rule.PhotoRequired,
			MinPhotos:     rule.MinPhotos,
		})
	}

	if err := s.userRepo.ProvisionTenant(org, owner, settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToProvision, err)
	}

	return owner, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user. Deactivated
// accounts are denied here as well as at resolution.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	return user, nil
}

// ResolveTenant maps an authenticated principal to its staff profile and
// owning organization. Deactivated accounts are rejected before any case
// mutation can happen. A successful resolution updates the last-seen
// timestamp; that side effect is best-effort and never fails the resolution.
func (s *AuthService) ResolveTenant(userID uint64) (*models.User, *models.Organization, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProfileNotFound
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, nil, ErrAccountDeactivated
	}

	org, err := s.orgRepo.FindByID(user.OrganizationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProfileNotFound
		}
		return nil, nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if err := s.userRepo.TouchLastSeen(user.ID, time.Now()); err != nil {
		logger.Get().Warn("failed to update last-seen timestamp",
			zap.Uint64("user_id", user.ID), zap.Error(err))
	}

	return user, org, nil
}
