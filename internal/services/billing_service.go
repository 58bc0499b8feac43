package services

import (
	"fmt"
	"math"
	"time"

	"github.com/trailpaw/custody-api/internal/models"
	"github.com/trailpaw/custody-api/internal/repository"
)

// Plan describes one subscription tier's included quota and overage rate.
type Plan struct {
	PetsIncluded int64
	OverageRate  float64
	Unlimited    bool
}

// planTable mirrors the live billing configuration.
var planTable = map[models.SubscriptionPlan]Plan{
	models.PlanStarter: {PetsIncluded: 75, OverageRate: 1.50},
	models.PlanGrowth:  {PetsIncluded: 250, OverageRate: 1.00},
	models.PlanPro:     {Unlimited: true},
}

// PlanFor returns the plan for a tier, falling back to starter for unknown or
// unset tiers.
func PlanFor(tier models.SubscriptionPlan) Plan {
	if plan, ok := planTable[tier]; ok {
		return plan
	}
	return planTable[models.PlanStarter]
}

// MonthlyUsage reports cases processed against the plan quota for the current
// billing month.
type MonthlyUsage struct {
	Processed          int64   `json:"processed"`
	Limit              int64   `json:"limit"`
	Unlimited          bool    `json:"unlimited"`
	OveragePets        int64   `json:"overage_pets"`
	OverageCharge      float64 `json:"overage_charge"`
	UtilizationPercent *int    `json:"utilization_percent,omitempty"`
}

// ComputeUsage is the pure metering arithmetic over an externally supplied
// count. Utilization is omitted for unlimited plans.
func ComputeUsage(plan Plan, processed int64) MonthlyUsage {
	usage := MonthlyUsage{
		Processed: processed,
		Limit:     plan.PetsIncluded,
		Unlimited: plan.Unlimited,
	}

	if plan.Unlimited {
		return usage
	}

	if over := processed - plan.PetsIncluded; over > 0 {
		usage.OveragePets = over
		usage.OverageCharge = float64(over) * plan.OverageRate
	}

	if plan.PetsIncluded > 0 {
		pct := int(math.Round(100 * float64(processed) / float64(plan.PetsIncluded)))
		usage.UtilizationPercent = &pct
	}

	return usage
}

// BillingService meters monthly case volume against the subscription plan.
// It owns no mutable state; subscription status itself is written by the
// payment provider's webhook pipeline, outside this core.
type BillingService struct {
	petRepo repository.PetRepository
}

// NewBillingService creates a new BillingService
func NewBillingService(petRepo repository.PetRepository) *BillingService {
	return &BillingService{petRepo: petRepo}
}

// GetMonthlyUsage returns usage for the calendar month containing now.
func (s *BillingService) GetMonthlyUsage(org *models.Organization, now time.Time) (*MonthlyUsage, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	processed, err := s.petRepo.CountCreatedBetween(org.ID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to count monthly cases: %w", err)
	}

	usage := ComputeUsage(PlanFor(org.SubscriptionPlan), processed)
	return &usage, nil
}
