package models

import "time"

// Role constants for user authorization.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleManager    = "MANAGER"
	RoleMember     = "MEMBER"
)

var ValidRoles = []string{RoleSuperAdmin, RoleManager, RoleMember}

// PostEditorRoles may create posts and edit posts they do not own.
var PostEditorRoles = []string{RoleManager, RoleSuperAdmin}

func RoleValid(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether roles and allowed intersect.
func HasAnyRole(roles []string, allowed ...string) bool {
	for _, r := range roles {
		for _, a := range allowed {
			if r == a {
				return true
			}
		}
	}
	return false
}

type User struct {
	ID            string    `bson:"_id" json:"id"`
	Username      string    `bson:"username" json:"username"`
	FullName      string    `bson:"fullName" json:"fullName"`
	Email         string    `bson:"email" json:"email"`
	PasswordHash  string    `bson:"passwordHash" json:"-"` // bcrypt hash
	Roles         []string  `bson:"roles" json:"roles"`
	EmailVerified bool      `bson:"emailVerified" json:"emailVerified"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) HasRole(role string) bool {
	return HasAnyRole(u.Roles, role)
}

// UserUpdate carries the fields to change; nil means unchanged.
type UserUpdate struct {
	Username      *string
	FullName      *string
	Email         *string
	PasswordHash  *string
	Roles         *[]string
	EmailVerified *bool
}

func (u UserUpdate) Empty() bool {
	return u.Username == nil && u.FullName == nil && u.Email == nil &&
		u.PasswordHash == nil && u.Roles == nil && u.EmailVerified == nil
}
