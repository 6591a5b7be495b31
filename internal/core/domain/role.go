package domain

// Role is the coarse permission level of an identity.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// Identity is the decoded subject of a verified session token.
type Identity struct {
	ID    string
	Email string
	Role  Role
}

// IsAdmin reports whether the identity may act on every owner's data.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Authorize allows role when required is empty (any authenticated identity)
// or when role is one of required. Denials are reported as ErrForbidden.
func Authorize(role Role, required ...Role) error {
	if len(required) == 0 {
		return nil
	}
	for _, r := range required {
		if r == role {
			return nil
		}
	}
	return ErrForbidden
}

// CanAccess reports whether the identity may read or mutate a resource owned
// by ownerID. Admins reach everything, clients only what they own.
func (i Identity) CanAccess(ownerID string) bool {
	return i.IsAdmin() || i.ID == ownerID
}
