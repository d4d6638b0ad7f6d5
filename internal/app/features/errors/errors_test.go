package errors_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	uierrors "github.com/dalemusser/pujahub/internal/app/features/errors"
	"github.com/dalemusser/pujahub/internal/app/policy/pujapolicy"
	registrationstore "github.com/dalemusser/pujahub/internal/app/store/registrations"
	"github.com/dalemusser/pujahub/internal/app/system/inputval"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRespond_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		body string
	}{
		{"validation", inputval.Fail("amount", "Amount must be greater than 0."), http.StatusBadRequest, "Amount must be greater than 0."},
		{"not found", fmt.Errorf("get puja: %w", docstore.ErrNotFound), http.StatusNotFound, "Not found"},
		{"complete forbidden", pujapolicy.ErrForbidden, http.StatusForbidden, "highest tier"},
		{"bad transition", pujapolicy.ErrInvalidTransition, http.StatusConflict, "not allowed"},
		{"already member", registrationstore.ErrAlreadyMember, http.StatusConflict, "already a member"},
		{"store failure", fmt.Errorf("boom"), http.StatusInternalServerError, "Failed to add expense"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			uierrors.NewErrorLogger(zap.NewNop()).Respond(rec, httptest.NewRequest("POST", "/expenses", nil), "add expense", tt.err)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("expected body to contain %q, got %q", tt.body, rec.Body.String())
			}
		})
	}
}

func TestRespond_ValidationCarriesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	uierrors.NewErrorLogger(zap.NewNop()).Respond(rec, httptest.NewRequest("POST", "/", nil), "register", inputval.Fail("contact", "Contact must be a 10-digit number."))

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Fields["contact"] == "" {
		t.Errorf("expected a contact field message, got %+v", body)
	}
}

func TestRespond_ServerErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rec := httptest.NewRecorder()
	uierrors.NewErrorLogger(zap.New(core)).Respond(rec, httptest.NewRequest("DELETE", "/sponsors/x", nil), "delete sponsor", fmt.Errorf("connection reset"))

	if logs.Len() != 1 {
		t.Fatalf("expected one error log, got %d", logs.Len())
	}
	if got := logs.All()[0].Message; got != "delete sponsor failed" {
		t.Errorf("unexpected log message %q", got)
	}
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	var v struct{ Name string }
	req := httptest.NewRequest("POST", "/", strings.NewReader(""))
	if err := uierrors.DecodeJSON(httptest.NewRecorder(), req, &v); err != nil {
		t.Errorf("expected empty body to be accepted, got %v", err)
	}
	req = httptest.NewRequest("POST", "/", strings.NewReader("{"))
	if err := uierrors.DecodeJSON(httptest.NewRecorder(), req, &v); err == nil {
		t.Error("expected malformed body to fail")
	}
}

func TestForbidden(t *testing.T) {
	rec := httptest.NewRecorder()
	uierrors.NewHandler().Forbidden(rec, httptest.NewRequest("GET", "/forbidden", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}
