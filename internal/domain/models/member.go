// internal/domain/models/member.go
package models

// Domain roles as stored on Member.Role. Matching is exact.
const (
	RolePresident     = "President"
	RoleVicePresident = "Vice President"
	RoleManager       = "Manager"
	RoleViceManager   = "Vice Manager"
	RoleMember        = "Member"
)

// DomainRoles lists the closed set of domain roles, highest first.
var DomainRoles = []string{RolePresident, RoleVicePresident, RoleManager, RoleViceManager, RoleMember}

// Member is a committee member. Password holds a bcrypt hash when the
// member can sign in.
type Member struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	NameCI    string `json:"nameCi,omitempty"`
	Role      string `json:"role"`
	Contact   string `json:"contact"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	ClubID    string `json:"clubId,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Redacted returns a copy safe to send to clients.
func (m Member) Redacted() Member {
	m.Password = ""
	return m
}

// ValidDomainRole reports whether role is one of DomainRoles.
func ValidDomainRole(role string) bool {
	return oneOf(role, DomainRoles...)
}
