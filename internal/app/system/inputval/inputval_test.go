package inputval

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"a@b.co", true},
		{"  user@example.com  ", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{".user@example.com", false},
		{"user..name@example.com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
		{"user@exam ple.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidContact(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"9876543210", true},
		{"987654321", false},
		{"98765432100", false},
		{"98765-4321", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidContact(tt.in); got != tt.want {
			t.Errorf("IsValidContact(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

type registration struct {
	Name     string `json:"name" validate:"required,max=100" label:"Name"`
	Email    string `json:"email" validate:"required,emailaddr" label:"Email"`
	Contact  string `json:"contact" validate:"required,phone10" label:"Contact"`
	Password string `json:"password" validate:"required,min=6" label:"Password"`
	Confirm  string `json:"confirmPassword" validate:"eqfield=Password" label:"Confirm password"`
}

func TestValidate_OK(t *testing.T) {
	res := Validate(registration{
		Name: "Asha Roy", Email: "asha@example.com", Contact: "9876543210",
		Password: "secret1", Confirm: "secret1",
	})
	if res.HasErrors() {
		t.Fatalf("unexpected errors: %s", res.All())
	}
	if res.First() != "" {
		t.Errorf("First() on empty result = %q", res.First())
	}
}

func TestValidate_Messages(t *testing.T) {
	res := Validate(&registration{
		Email: "not-an-email", Contact: "12345", Password: "abc", Confirm: "abd",
	})
	if !res.HasErrors() {
		t.Fatal("expected errors")
	}
	m := res.Map()
	want := map[string]string{
		"name":            "Name is required.",
		"email":           "Email must be a valid email address.",
		"contact":         "Contact must be a 10-digit number.",
		"password":        "Password must be at least 6 characters.",
		"confirmPassword": "Passwords do not match.",
	}
	for field, msg := range want {
		if m[field] != msg {
			t.Errorf("%s: got %q, want %q", field, m[field], msg)
		}
	}
	if res.First() != "Name is required." {
		t.Errorf("First() = %q", res.First())
	}
	if !strings.Contains(res.All(), "; ") {
		t.Errorf("All() should join messages, got %q", res.All())
	}
}

func TestValidate_MaxLength(t *testing.T) {
	type short struct {
		Code string `json:"code" validate:"required,max=10" label:"Code"`
	}
	res := Validate(short{Code: strings.Repeat("x", 11)})
	if res.First() != "Code must be at most 10 characters." {
		t.Errorf("got %q", res.First())
	}
}
