package model

// Role is a coarse permission attached to a principal.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Principal is the identity resolved from a bearer token.
type Principal struct {
	UserID int64
	Email  string
	Roles  []Role
}

// HasRole reports whether the principal carries role.
func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal carries at least one of roles.
// An empty roles list is satisfied by any principal.
func (p *Principal) HasAnyRole(roles ...Role) bool {
	if p == nil {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}
