package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/storefront/internal/model"
)

// mockVerifier はテスト用のTokenVerifier。
type mockVerifier struct {
	verifyFn func(tokenString string) (string, error)
}

func (m *mockVerifier) Verify(tokenString string) (string, error) {
	if m.verifyFn != nil {
		return m.verifyFn(tokenString)
	}
	return "", errors.New("not configured")
}

func acceptOnly(valid, userID string) *mockVerifier {
	return &mockVerifier{
		verifyFn: func(tokenString string) (string, error) {
			if tokenString == valid {
				return userID, nil
			}
			return "", model.NewAuthenticationError(model.MsgTokenInvalid, nil)
		},
	}
}

func decodeGateBody(t *testing.T, w *httptest.ResponseRecorder) GateFailureBody {
	t.Helper()
	var body GateFailureBody
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	return body
}

func TestTokenMiddleware_ValidToken_InjectsUserID(t *testing.T) {
	mw := NewTokenMiddleware(acceptOnly("good", "user-1"))

	var captured string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/customer/checkout", nil)
	req.Header.Set("x-access-token", "good")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if captured != "user-1" {
		t.Errorf("userID = %q, want %q", captured, "user-1")
	}
}

func TestTokenMiddleware_BearerHeader(t *testing.T) {
	mw := NewTokenMiddleware(acceptOnly("good", "user-2"))

	called := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders/x", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !called {
		t.Error("handler should have been called with a bearer token")
	}
}

func TestTokenMiddleware_MissingToken_Returns401(t *testing.T) {
	mw := NewTokenMiddleware(acceptOnly("good", "user-1"))
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/products/x", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
	body := decodeGateBody(t, w)
	if body.Success || body.Message != "Auth token is not supplied" {
		t.Errorf("body = %+v, want success=false message=%q", body, "Auth token is not supplied")
	}
}

func TestTokenMiddleware_InvalidToken_Returns401(t *testing.T) {
	mw := NewTokenMiddleware(acceptOnly("good", "user-1"))
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	for _, header := range []string{"x-access-token", "Authorization"} {
		req := httptest.NewRequest(http.MethodPut, "/api/customer/customers/x", nil)
		value := "forged"
		if header == "Authorization" {
			value = "Bearer forged"
		}
		req.Header.Set(header, value)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want %d", header, w.Result().StatusCode, http.StatusUnauthorized)
		}
		body := decodeGateBody(t, w)
		if body.Message != "Token is not valid" {
			t.Errorf("%s: message = %q, want %q", header, body.Message, "Token is not valid")
		}
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		want   string
	}{
		{"none", nil, ""},
		{"access token", map[string]string{"x-access-token": " abc "}, "abc"},
		{"bearer", map[string]string{"Authorization": "Bearer xyz"}, "xyz"},
		{"bearer lowercase", map[string]string{"Authorization": "bearer xyz"}, "xyz"},
		{"basic ignored", map[string]string{"Authorization": "Basic Zm9vOmJhcg=="}, ""},
		{"access token wins", map[string]string{"x-access-token": "a", "Authorization": "Bearer b"}, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if got := extractToken(req); got != tt.want {
				t.Errorf("extractToken = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserIDFromContext_Missing(t *testing.T) {
	if _, err := UserIDFromContext(context.Background()); err == nil {
		t.Error("expected error for context without user ID")
	}

	ctx := ContextWithUserID(context.Background(), "user-9")
	got, err := UserIDFromContext(ctx)
	if err != nil || got != "user-9" {
		t.Errorf("UserIDFromContext = (%q, %v), want (user-9, nil)", got, err)
	}
}
