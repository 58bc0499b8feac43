package roles

// Role is a staff member's position within an organization.
type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Capability is a single permitted operation class.
type Capability string

const (
	CapBilling Capability = "billing"
	CapTeam    Capability = "team"
	CapDelete  Capability = "delete"
	CapInvite  Capability = "invite"
	CapReports Capability = "reports"
	CapCaseRW  Capability = "case_rw"
)

// capabilities maps each role to its capability set. The owner > admin > staff
// hierarchy is expressed only through this table, never through the types.
var capabilities = map[Role]map[Capability]struct{}{
	RoleOwner: set(CapBilling, CapTeam, CapDelete, CapInvite, CapReports, CapCaseRW),
	RoleAdmin: set(CapTeam, CapDelete, CapInvite, CapReports, CapCaseRW),
	RoleStaff: set(CapCaseRW),
}

func set(caps ...Capability) map[Capability]struct{} {
	m := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		m[c] = struct{}{}
	}
	return m
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

// HasCapability reports whether role holds cap.
func HasCapability(role Role, cap Capability) bool {
	caps, ok := capabilities[role]
	if !ok {
		return false
	}
	_, ok = caps[cap]
	return ok
}
