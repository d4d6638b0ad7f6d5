// internal/domain/models/club.go
package models

// ClubRoles names the members holding office in a club.
type ClubRoles struct {
	President     string `json:"president,omitempty"`
	VicePresident string `json:"vicePresident,omitempty"`
	Secretary     string `json:"secretary,omitempty"`
}

// Club is the tenant in multi-club mode. Email and Password are the club
// login pair; Password holds a bcrypt hash.
type Club struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	Roles     ClubRoles `json:"roles"`
	CreatedAt string    `json:"createdAt,omitempty"`
	UpdatedAt string    `json:"updatedAt,omitempty"`
}

func (c Club) Redacted() Club {
	c.Password = ""
	return c
}
