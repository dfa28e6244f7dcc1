package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/csg-hackathon/dilbot/internal/core/storage/filestore"
	"github.com/csg-hackathon/dilbot/internal/services"
)

func newTestAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	store, err := filestore.New(t.TempDir())
	if err != nil {
		t.Fatalf("new filestore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	users := services.NewUserService(store, "admin", "hunter2")
	return NewAuthHandler(users, "test-secret")
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestSignupCreatesUser(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t)

	rec := postJSON(t, h.Signup, `{"username":"maya","email":"maya@example.com","password":"pw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["username"] != "maya" {
		t.Fatalf("resp = %v", resp)
	}
	if _, ok := resp["password_hash"]; ok {
		t.Fatalf("password hash leaked in response")
	}
}

func TestSignupConflictAndBadEmail(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t)

	if rec := postJSON(t, h.Signup, `{"username":"maya","email":"maya@example.com","password":"pw"}`); rec.Code != http.StatusCreated {
		t.Fatalf("first signup: %d", rec.Code)
	}
	if rec := postJSON(t, h.Signup, `{"username":"maya","email":"other@example.com","password":"pw"}`); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate signup: status = %d, want 409", rec.Code)
	}
	if rec := postJSON(t, h.Signup, `{"username":"noah","email":"bad-email","password":"pw"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad email: status = %d, want 400", rec.Code)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t)

	postJSON(t, h.Signup, `{"username":"maya","email":"maya@example.com","password":"pw"}`)

	rec := postJSON(t, h.Login, `{"username":"maya","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["token"] == "" || resp["role"] != "user" {
		t.Fatalf("resp = %v", resp)
	}
}

func TestLoginAdmin(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t)

	rec := postJSON(t, h.Login, `{"username":"admin","password":"hunter2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp["role"] != "admin" {
		t.Fatalf("role = %q, want admin", resp["role"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t)

	if rec := postJSON(t, h.Login, `{"username":"ghost","password":"pw"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown user: status = %d, want 401", rec.Code)
	}
	if rec := postJSON(t, h.Login, `{"username":"admin","password":"wrong"}`); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong admin password: status = %d, want 401", rec.Code)
	}
}
