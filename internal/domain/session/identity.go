// Package session holds the authenticated identity of a browser and decides
// which storage scope it lives in.
package session

// Role is the access level of an identity
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the authenticated user of a session
type Identity struct {
	UserID   uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Surname  string `json:"surname,omitempty"`
	Role     Role   `json:"role"`
	Remember bool   `json:"remember"`
	Token    string `json:"token,omitempty"`
}

// Valid reports whether i could have been produced by Login: it names a
// user and carries a known role
func (i *Identity) Valid() bool {
	if i.UserID == 0 || i.Email == "" {
		return false
	}
	return i.Role == RoleUser || i.Role == RoleAdmin
}

// IsAdmin reports whether the identity carries the admin role
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Requirement is a capability a protected route asks for
type Requirement int

const (
	// Authenticated requires any logged in identity
	Authenticated Requirement = iota
	// Admin requires an identity with the admin role
	Admin
)
