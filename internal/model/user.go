package model

// User is a registered account. Password holds the bcrypt hash, never the
// clear text.
type User struct {
	Base
	Email     string
	LastName  string
	FirstName string
	Password  string
	Admin     bool
}

// Roles returns the role set granted to the user.
func (u *User) Roles() []Role {
	if u.Admin {
		return []Role{RoleUser, RoleAdmin}
	}
	return []Role{RoleUser}
}

// Principal builds the authenticated identity for this user.
func (u *User) Principal() *Principal {
	return &Principal{
		UserID: u.ID,
		Email:  u.Email,
		Roles:  u.Roles(),
	}
}

// UserDTO is the outbound representation of a user. It never carries the
// password.
type UserDTO struct {
	Base
	Email     string `json:"email"`
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`
	Admin     bool   `json:"admin"`
}
