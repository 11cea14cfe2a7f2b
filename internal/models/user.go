package models

// Role is the caller's role as reported by the auth service.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is an authenticated caller.
type Identity struct {
	UserID int
	Role   Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// UserProfile is the read-only directory view of a user.
type UserProfile struct {
	ID    int    `json:"id"`
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty"`
}
