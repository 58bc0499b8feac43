package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/trailpaw/custody-api/internal/lifecycle"
)

type PetType string

const (
	PetTypeDog    PetType = "dog"
	PetTypeCat    PetType = "cat"
	PetTypeBird   PetType = "bird"
	PetTypeRabbit PetType = "rabbit"
	PetTypeOther  PetType = "other"
)

type ServiceType string

const (
	ServicePrivate    ServiceType = "private"
	ServiceIndividual ServiceType = "individual"
	ServiceCommunal   ServiceType = "communal"
)

// Pet is the tracked case. It is created at intake, mutated only through
// validated status transitions, and never deleted; chain of custody requires
// the record and its checkpoint history to be permanent.
type Pet struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	OrganizationID uint64           `gorm:"not null;index" json:"organization_id"`
	TrackingCode   string           `gorm:"type:varchar(30);not null;uniqueIndex" json:"tracking_code"`
	Name           string           `gorm:"type:varchar(255);not null" json:"name"`
	PetType        PetType          `gorm:"type:varchar(20);not null" json:"pet_type"`
	Breed          string           `gorm:"type:varchar(100)" json:"breed,omitempty"`
	WeightKg       *float64         `json:"weight_kg,omitempty"`
	OwnerFirstName string           `gorm:"type:varchar(100);not null" json:"owner_first_name"`
	OwnerLastName  string           `gorm:"type:varchar(100);not null" json:"owner_last_name"`
	OwnerEmail     string           `gorm:"type:varchar(255);not null" json:"owner_email"`
	OwnerPhone     string           `gorm:"type:varchar(50)" json:"owner_phone,omitempty"`
	ServiceType    ServiceType      `gorm:"type:varchar(20);not null" json:"service_type"`
	Instructions   string           `gorm:"type:text" json:"instructions,omitempty"`
	ReferringVet   string           `gorm:"type:varchar(255)" json:"referring_vet,omitempty"`
	Status         lifecycle.Status `gorm:"type:varchar(20);not null;default:'received';index" json:"status"`
	IntakeAt       time.Time        `json:"intake_at"`
	PreparedAt     *time.Time       `json:"prepared_at,omitempty"`
	ChamberEntryAt *time.Time       `json:"chamber_entry_at,omitempty"`
	CrematedAt     *time.Time       `json:"cremated_at,omitempty"`
	PackagedAt     *time.Time       `json:"packaged_at,omitempty"`
	ReadyAt        *time.Time       `json:"ready_at,omitempty"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	CreatedBy      uint64           `gorm:"not null;index" json:"created_by"`
	CreatedAt      time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Creator      User         `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Checkpoints  []Checkpoint `gorm:"foreignKey:PetID" json:"checkpoints,omitempty"`
}
