package dto

import (
	"time"

	"github.com/kevinaaaquil/compro/models"
)

type CreateUserRequest struct {
	Username      string   `json:"username"`
	FullName      string   `json:"fullName"`
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	Roles         []string `json:"roles"`
	EmailVerified bool     `json:"emailVerified"`
}

// UpdateUserRequest is a partial update; absent fields are left unchanged.
type UpdateUserRequest struct {
	Username      *string   `json:"username"`
	FullName      *string   `json:"fullName"`
	Email         *string   `json:"email"`
	Password      *string   `json:"password"`
	Roles         *[]string `json:"roles"`
	EmailVerified *bool     `json:"emailVerified"`
}

// Privileged reports whether the request touches fields only a SUPER_ADMIN may set.
func (r UpdateUserRequest) Privileged() bool {
	return r.Roles != nil || r.EmailVerified != nil
}

type UserResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	Roles         []string  `json:"roles"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func NewUserResponse(u *models.User) UserResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		ID:            u.ID,
		Username:      u.Username,
		FullName:      u.FullName,
		Email:         u.Email,
		Roles:         roles,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
