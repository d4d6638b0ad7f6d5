package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/dalemusser/pujahub/internal/app/policy/tierpolicy"
	"github.com/dalemusser/pujahub/internal/app/system/auth"
	"github.com/dalemusser/pujahub/internal/domain/models"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID           string
	Name         string
	Email        string
	Role         string
	ClubID       string
	PlatformRole string
}

func PresidentUser() TestUser {
	return TestUser{ID: "u-president", Name: "Test President", Email: "president@test.com", Role: models.RolePresident}
}

func ManagerUser() TestUser {
	return TestUser{ID: "u-manager", Name: "Test Manager", Email: "manager@test.com", Role: models.RoleManager}
}

func MemberUser() TestUser {
	return TestUser{ID: "u-member", Name: "Test Member", Email: "member@test.com", Role: models.RoleMember}
}

// ClubAdminUser is signed in with the club's own credentials.
func ClubAdminUser(clubID string) TestUser {
	return TestUser{ID: clubID, Name: "Test Club", Email: "club@test.com", ClubID: clubID, PlatformRole: tierpolicy.ClubAdmin}
}

func PlatformAdminUser() TestUser {
	return TestUser{ID: "platform-admin", Name: "Platform Admin", Email: "admin@test.com", PlatformRole: tierpolicy.PlatformAdmin}
}

// SessionUser converts u the way Login would, tier included.
func (u TestUser) SessionUser() *auth.SessionUser {
	su := &auth.SessionUser{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		DomainRole:   u.Role,
		ClubID:       u.ClubID,
		PlatformRole: u.PlatformRole,
	}
	su.Heal()
	return su
}

// WithUser adds a user to the request context, bypassing the session
// middleware.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, user.SessionUser())
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request whose body is body encoded as JSON.
func NewJSONRequest(method, target string, body any) *http.Request {
	b, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	r := httptest.NewRequest(method, target, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// DecodeJSON decodes a recorder body into v.
func DecodeJSON(rec *httptest.ResponseRecorder, v any) error {
	return json.NewDecoder(rec.Body).Decode(v)
}
