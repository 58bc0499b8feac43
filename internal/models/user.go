package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/trailpaw/custody-api/internal/roles"
)

// User is a staff member profile. Users are soft-deactivated, never deleted,
// so checkpoint attribution stays intact.
type User struct {
	ID             uint64         `gorm:"primarykey" json:"id"`
	OrganizationID uint64         `gorm:"not null;index" json:"organization_id"`
	Email          string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string         `gorm:"type:varchar(255);not null" json:"-"`
	FirstName      string         `gorm:"type:varchar(100)" json:"first_name"`
	LastName       string         `gorm:"type:varchar(100)" json:"last_name"`
	Role           roles.Role     `gorm:"type:varchar(20);not null;default:'staff'" json:"role"`
	IsActive       bool           `gorm:"not null;default:true" json:"is_active"`
	LastSeenAt     *time.Time     `json:"last_seen_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	CreatedPets  []Pet        `gorm:"foreignKey:CreatedBy" json:"-"`
}

// FullName returns the display name used in checkpoint attribution.
func (u User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Email
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}
