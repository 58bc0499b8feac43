package models

import (
	"time"

	"github.com/trailpaw/custody-api/internal/lifecycle"
)

// Checkpoint is an append-only custody record: a case reached a lifecycle
// status, stamped with who completed it and when. Rows are never updated or
// deleted.
type Checkpoint struct {
	ID             uint64           `gorm:"primarykey" json:"id"`
	PetID          uint64           `gorm:"not null;index" json:"pet_id"`
	CheckpointType lifecycle.Status `gorm:"type:varchar(20);not null" json:"checkpoint_type"`
	Notes          string           `gorm:"type:text" json:"notes,omitempty"`
	Latitude       *float64         `json:"latitude,omitempty"`
	Longitude      *float64         `json:"longitude,omitempty"`
	CompletedAt    time.Time        `gorm:"not null;index" json:"completed_at"`
	CompletedBy    uint64           `gorm:"not null" json:"completed_by"`
	CreatedAt      time.Time        `json:"created_at"`

	// Relations
	Pet       Pet               `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	Completer User              `gorm:"foreignKey:CompletedBy" json:"completer,omitempty"`
	Photos    []CheckpointPhoto `gorm:"foreignKey:CheckpointID" json:"photos,omitempty"`
}

// CheckpointPhoto records a reference to photo evidence held in object
// storage. Only the reference is stored here, never the bytes.
type CheckpointPhoto struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	CheckpointID uint64    `gorm:"not null;index" json:"checkpoint_id"`
	PetID        uint64    `gorm:"not null;index" json:"pet_id"`
	URL          string    `gorm:"type:varchar(500);not null" json:"url"`
	StoragePath  string    `gorm:"type:varchar(500)" json:"storage_path,omitempty"`
	UploadedBy   uint64    `gorm:"not null" json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}
