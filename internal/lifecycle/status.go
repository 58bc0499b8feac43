package lifecycle

import "fmt"

// Status is a custody checkpoint in the case lifecycle.
type Status string

const (
	StatusReceived  Status = "received"
	StatusPrepared  Status = "prepared"
	StatusInChamber Status = "in_chamber"
	StatusCremated  Status = "cremated"
	StatusPackaged  Status = "packaged"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
)

// Order is the required custody sequence. Every case passes through every
// status in this order; the checkpoint history must be gapless.
var Order = []Status{
	StatusReceived,
	StatusPrepared,
	StatusInChamber,
	StatusCremated,
	StatusPackaged,
	StatusReady,
	StatusCompleted,
}

var indexOf = func() map[Status]int {
	m := make(map[Status]int, len(Order))
	for i, s := range Order {
		m[s] = i
	}
	return m
}()

// Parse converts a raw string to a Status.
func Parse(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := indexOf[s]; !ok {
		return "", fmt.Errorf("unknown status %q", raw)
	}
	return s, nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := indexOf[s]
	return ok
}

// Index returns the position of s in the custody sequence, or -1.
func (s Status) Index() int {
	i, ok := indexOf[s]
	if !ok {
		return -1
	}
	return i
}

// Terminal reports whether s is the final lifecycle status.
func (s Status) Terminal() bool {
	return s == StatusCompleted
}

// Next returns the only status a case at s may advance to.
func (s Status) Next() (Status, bool) {
	i, ok := indexOf[s]
	if !ok || i+1 >= len(Order) {
		return "", false
	}
	return Order[i+1], true
}

// CanTransition holds iff new immediately follows old in the custody
// sequence. No skipping, no repeats, no backward transitions.
func CanTransition(old, new Status) bool {
	oi, ok := indexOf[old]
	if !ok {
		return false
	}
	ni, ok := indexOf[new]
	if !ok {
		return false
	}
	return ni == oi+1
}

// TransitionError reports a rejected status change. It carries both statuses
// so the caller can render an actionable message.
type TransitionError struct {
	Current   Status
	Requested Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.Current, e.Requested)
}

// TimestampColumn returns the pets column stamped when a case reaches s.
func (s Status) TimestampColumn() string {
	switch s {
	case StatusReceived:
		return "intake_at"
	case StatusPrepared:
		return "prepared_at"
	case StatusInChamber:
		return "chamber_entry_at"
	case StatusCremated:
		return "cremated_at"
	case StatusPackaged:
		return "packaged_at"
	case StatusReady:
		return "ready_at"
	case StatusCompleted:
		return "completed_at"
	}
	return ""
}

// EvidenceRule describes the photo evidence a checkpoint demands.
type EvidenceRule struct {
	PhotoRequired bool
	MinPhotos     int
}

// DefaultEvidenceRules are the per-status photo requirements seeded for a new
// organization. Organizations may tighten or relax them afterwards.
var DefaultEvidenceRules = map[Status]EvidenceRule{
	StatusReceived:  {PhotoRequired: true, MinPhotos: 1},
	StatusPrepared:  {PhotoRequired: true, MinPhotos: 1},
	StatusInChamber: {PhotoRequired: true, MinPhotos: 2},
	StatusCremated:  {PhotoRequired: true, MinPhotos: 1},
	StatusPackaged:  {PhotoRequired: true, MinPhotos: 1},
	StatusReady:     {PhotoRequired: false, MinPhotos: 0},
	StatusCompleted: {PhotoRequired: false, MinPhotos: 0},
}

// InProgressStatuses are the statuses counted as "in progress" on the
// dashboard: past intake but not yet ready for pickup.
var InProgressStatuses = []Status{
	StatusPrepared,
	StatusInChamber,
	StatusCremated,
	StatusPackaged,
}
