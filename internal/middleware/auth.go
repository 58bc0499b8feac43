package middleware

import (
	"errors"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/trailpaw/custody-api/internal/constants"
	apierrors "github.com/trailpaw/custody-api/internal/errors"
	"github.com/trailpaw/custody-api/internal/models"
	"github.com/trailpaw/custody-api/internal/roles"
	"github.com/trailpaw/custody-api/internal/services"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// RequireTenant resolves the session principal to a staff profile and its
// organization. Deactivated accounts are rejected here, before any handler
// can touch case state.
func RequireTenant(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		user, org, err := authService.ResolveTenant(userID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrProfileNotFound):
				apierrors.ProfileNotFound(c)
			case errors.Is(err, services.ErrAccountDeactivated):
				apierrors.AccountDeactivated(c)
			default:
				apierrors.StorageUnavailable(c)
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyOrganization, org)
		c.Next()
	}
}

// RequireCapability gates a route on the current user's role capability.
func RequireCapability(cap roles.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetUser(c)
		if !exists {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		if !roles.HasCapability(user.Role, cap) {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUser retrieves the resolved staff profile from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// GetOrganization retrieves the resolved organization from context
func GetOrganization(c *gin.Context) (*models.Organization, bool) {
	value, exists := c.Get(constants.ContextKeyOrganization)
	if !exists {
		return nil, false
	}
	org, ok := value.(*models.Organization)
	return org, ok
}
