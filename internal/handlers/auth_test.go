package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/swapcycle/apiserver/internal/services"
)

func doJSON(t *testing.T, router http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp.Error
}

func registerUser(t *testing.T, router http.Handler, email, password string) (string, int) {
	t.Helper()

	recorder := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d: %s", email, recorder.Code, recorder.Body.String())
	}
	var resp AuthResponse
	if err := json.NewDecoder(recorder.Body).Decode(&resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return resp.Token, resp.User.ID
}

func TestRegisterAndMe(t *testing.T) {
	router := newTestRouter()

	token, _ := registerUser(t, router, "a@example.com", "pw123456")

	recorder := doJSON(t, router, http.MethodGet, "/auth/me", token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("me: status %d", recorder.Code)
	}
	var me struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(recorder.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Email != "a@example.com" {
		t.Fatalf("me email %q", me.Email)
	}
}

func TestRegisterNeverLeaksPasswordHash(t *testing.T) {
	router := newTestRouter()

	recorder := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "a@example.com",
		"password": "pw123456",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("register: status %d", recorder.Code)
	}
	body := recorder.Body.String()
	if strings.Contains(body, "password") || strings.Contains(body, "hash") {
		t.Fatalf("response leaks credential material: %s", body)
	}
}

func TestRegisterConflictMapsTo400(t *testing.T) {
	router := newTestRouter()

	registerUser(t, router, "a@example.com", "pw123456")
	recorder := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "a@example.com",
		"password": "other",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: status %d, want 400", recorder.Code)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	router := newTestRouter()

	recorder := doJSON(t, router, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "a@example.com",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("register without password: status %d, want 400", recorder.Code)
	}
}

func TestLoginFailureStatusAndMessage(t *testing.T) {
	router := newTestRouter()
	registerUser(t, router, "a@example.com", "pw123456")

	wrongPass := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "a@example.com",
		"password": "nope",
	})
	unknown := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "ghost@example.com",
		"password": "pw123456",
	})

	if wrongPass.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("login failures: %d / %d, want 401 / 401", wrongPass.Code, unknown.Code)
	}
	if decodeError(t, wrongPass) != "Invalid credentials" || decodeError(t, unknown) != "Invalid credentials" {
		t.Fatal("both login failures must return the identical message")
	}
}

func TestRequireAuthHeaderShapes(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name    string
		header  string
		message string
	}{
		{"absent", "", "Missing Authorization"},
		{"wrong scheme", "Token abc", "Bad Authorization"},
		{"no token", "Bearer ", "Bad Authorization"},
		{"garbage token", "Bearer not-a-jwt", "Invalid token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)

			if recorder.Code != http.StatusUnauthorized {
				t.Fatalf("status %d, want 401", recorder.Code)
			}
			if got := decodeError(t, recorder); got != tc.message {
				t.Fatalf("message %q, want %q", got, tc.message)
			}
		})
	}
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	router := newTestRouter()

	expired, err := services.IssueToken(1, "a@example.com", testSecret, -1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	recorder := doJSON(t, router, http.MethodGet, "/auth/me", expired, nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", recorder.Code)
	}
	if got := decodeError(t, recorder); got != "Invalid token" {
		t.Fatalf("message %q, want Invalid token", got)
	}
}
