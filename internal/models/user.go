package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleDataOwner       = "data_owner"
	RoleMediaBuyer      = "media_buyer"
	RoleSolutionCreator = "solution_creator"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleDataOwner, RoleMediaBuyer, RoleSolutionCreator:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Onboarded    bool      `json:"onboarded"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}
