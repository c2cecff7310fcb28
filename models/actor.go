package models

// Roles recognised by the auth context.
const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// Actor is the resolved identity behind a request. It comes from the
// authentication layer; the engine only uses it for ownership checks and stamps.
type Actor struct {
	ID         string `json:"id"`
	Role       string `json:"role"`
	BusinessID string `json:"businessId,omitempty"`
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
