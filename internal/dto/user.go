package dto

import (
	"time"

	"github.com/trailpaw/custody-api/internal/models"
	"github.com/trailpaw/custody-api/internal/roles"
)

// UserDTO represents a staff member in API responses
type UserDTO struct {
	ID         uint64     `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name,omitempty"`
	LastName   string     `json:"last_name,omitempty"`
	FullName   string     `json:"full_name"`
	Role       roles.Role `json:"role"`
	IsActive   bool       `json:"is_active"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		FullName:   user.FullName(),
		Role:       user.Role,
		IsActive:   user.IsActive,
		LastSeenAt: user.LastSeenAt,
		CreatedAt:  user.CreatedAt,
	}
}
