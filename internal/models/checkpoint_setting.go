package models

import (
	"time"

	"github.com/trailpaw/custody-api/internal/lifecycle"
)

// CheckpointSetting is an organization's photo-evidence requirement for one
// lifecycle status. A full set is seeded from lifecycle.DefaultEvidenceRules
// when the tenant is provisioned.
type CheckpointSetting struct {
	OrganizationID uint64           `gorm:"primarykey" json:"organization_id"`
	Status         lifecycle.Status `gorm:"primarykey;type:varchar(20)" json:"status"`
	PhotoRequired  bool             `gorm:"not null;default:false" json:"photo_required"`
	MinPhotos      int              `gorm:"not null;default:0" json:"min_photos"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Rule converts the setting to a lifecycle evidence rule.
func (s CheckpointSetting) Rule() lifecycle.EvidenceRule {
	return lifecycle.EvidenceRule{PhotoRequired: s.PhotoRequired, MinPhotos: s.MinPhotos}
}
