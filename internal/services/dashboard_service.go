package services

import (
	"fmt"
	"time"

	"github.com/trailpaw/custody-api/internal/lifecycle"
	"github.com/trailpaw/custody-api/internal/models"
	"github.com/trailpaw/custody-api/internal/repository"
)

// DashboardStats are the queue counts shown on the staff dashboard.
type DashboardStats struct {
	Awaiting    int64 `json:"awaiting"`
	InProgress  int64 `json:"in_progress"`
	Ready       int64 `json:"ready"`
	TodayIntake int64 `json:"today_intake"`
}

// DashboardService derives queue counts from current case state. It is a
// read-only projection recomputed on every call.
type DashboardService struct {
	petRepo repository.PetRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(petRepo repository.PetRepository) *DashboardService {
	return &DashboardService{petRepo: petRepo}
}

// GetStats returns the organization's dashboard counts. "Today" is the
// calendar day of now in its location.
func (s *DashboardService) GetStats(org *models.Organization, now time.Time) (*DashboardStats, error) {
	counts, err := s.petRepo.CountByStatus(org.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count cases: %w", err)
	}

	stats := &DashboardStats{
		Awaiting: counts[lifecycle.StatusReceived],
		Ready:    counts[lifecycle.StatusReady],
	}
	for _, status := range lifecycle.InProgressStatuses {
		stats.InProgress += counts[status]
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	today, err := s.petRepo.CountCreatedBetween(org.ID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's intake: %w", err)
	}
	stats.TodayIntake = today

	return stats, nil
}
