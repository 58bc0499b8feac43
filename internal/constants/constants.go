package constants

// Session / context keys
const (
	SessionCookieName      = "custody_session"
	ContextKeyUserID       = "user_id"
	ContextKeyUser         = "current_user"
	ContextKeyOrganization = "current_organization"
)

// Validation limits
const (
	MinPasswordLength = 8
)

// Listing limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// TrialDays is the length of the free trial granted at signup.
const TrialDays = 14
