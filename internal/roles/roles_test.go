package roles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasCapability(t *testing.T) {
	cases := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleOwner, CapBilling, true},
		{RoleOwner, CapCaseRW, true},
		{RoleAdmin, CapBilling, false},
		{RoleAdmin, CapTeam, true},
		{RoleAdmin, CapCaseRW, true},
		{RoleStaff, CapCaseRW, true},
		{RoleStaff, CapInvite, false},
		{RoleStaff, CapTeam, false},
		{Role("intern"), CapCaseRW, false},
	}

	for _, tc := range cases {
		require.Equalf(t, tc.want, HasCapability(tc.role, tc.cap), "%s/%s", tc.role, tc.cap)
	}
}

func TestAdminCapabilitiesAreSubsetOfOwner(t *testing.T) {
	for cap := range capabilities[RoleAdmin] {
		require.Truef(t, HasCapability(RoleOwner, cap), "owner missing admin capability %s", cap)
	}
	for cap := range capabilities[RoleStaff] {
		require.Truef(t, HasCapability(RoleAdmin, cap), "admin missing staff capability %s", cap)
	}
}

func TestValid(t *testing.T) {
	require.True(t, RoleOwner.Valid())
	require.True(t, RoleStaff.Valid())
	require.False(t, Role("superuser").Valid())
}
