package models

// TrackingSequence is the per-organization monotonic counter behind tracking
// codes. The row is locked for the duration of an intake transaction so codes
// never collide under concurrent creation.
type TrackingSequence struct {
	OrganizationID uint64 `gorm:"primarykey"`
	NextValue      uint64 `gorm:"not null;default:1"`
}
