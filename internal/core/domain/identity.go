package domain

// Identity is the authenticated subject decoded from a bearer token.
// It never carries the password or its hash.
type Identity struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Banned bool   `json:"banned"`
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// CanActOn reports whether the identity may operate on resources owned by userID.
func (i Identity) CanActOn(userID string) bool {
	return i.IsAdmin() || i.ID == userID
}
