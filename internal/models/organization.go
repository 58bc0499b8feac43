package models

import (
	"time"

	"gorm.io/gorm"
)

type SubscriptionPlan string

const (
	PlanStarter SubscriptionPlan = "starter"
	PlanGrowth  SubscriptionPlan = "growth"
	PlanPro     SubscriptionPlan = "pro"
	PlanNone    SubscriptionPlan = "none"
)

type SubscriptionStatus string

const (
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionUnpaid   SubscriptionStatus = "unpaid"
)

// Organization is the tenant boundary. Every user and case belongs to exactly
// one organization.
type Organization struct {
	ID                   uint64             `gorm:"primarykey" json:"id"`
	Name                 string             `gorm:"type:varchar(255);not null" json:"name"`
	Slug                 string             `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	TrackingPrefix       string             `gorm:"type:varchar(8);uniqueIndex;not null" json:"tracking_prefix"`
	Email                string             `gorm:"type:varchar(255)" json:"email,omitempty"`
	Phone                string             `gorm:"type:varchar(50)" json:"phone,omitempty"`
	AddressLine1         string             `gorm:"type:varchar(255)" json:"address_line1,omitempty"`
	City                 string             `gorm:"type:varchar(100)" json:"city,omitempty"`
	State                string             `gorm:"type:varchar(100)" json:"state,omitempty"`
	PostalCode           string             `gorm:"type:varchar(20)" json:"postal_code,omitempty"`
	Country              string             `gorm:"type:varchar(2);not null;default:'US'" json:"country"`
	SubscriptionPlan     SubscriptionPlan   `gorm:"type:varchar(20);not null;default:'starter'" json:"subscription_plan"`
	SubscriptionStatus   SubscriptionStatus `gorm:"type:varchar(20);not null;default:'trialing'" json:"subscription_status"`
	StripeCustomerID     string             `gorm:"type:varchar(255)" json:"-"`
	StripeSubscriptionID string             `gorm:"type:varchar(255)" json:"-"`
	TrialEndsAt          *time.Time         `json:"trial_ends_at,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
	DeletedAt            gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relations
	Users              []User              `gorm:"foreignKey:OrganizationID" json:"users,omitempty"`
	Pets               []Pet               `gorm:"foreignKey:OrganizationID" json:"pets,omitempty"`
	CheckpointSettings []CheckpointSetting `gorm:"foreignKey:OrganizationID" json:"checkpoint_settings,omitempty"`
}
