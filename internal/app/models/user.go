package models

import "strings"

// Role is the coarse permission level reported by the identity endpoint.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
	RoleOther    Role = "other"
)

// ParseRole folds any value the gateway sends into one of the known roles.
func ParseRole(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	case RoleOperator:
		return RoleOperator
	default:
		return RoleOther
	}
}

// UserProfile is the "who am I" payload. It lives for one page render only.
type UserProfile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	RawRole  string `json:"role"`
}

func (u UserProfile) Role() Role {
	return ParseRole(u.RawRole)
}

// DisplayName prefers the full name and falls back to the username.
func (u UserProfile) DisplayName() string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.Username
}

// Credentials are the login form values. Never persisted.
type Credentials struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}
