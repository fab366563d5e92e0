package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOwnerGuard_NoVerifiedEmail_Returns401(t *testing.T) {
	handler := NewOwnerGuard()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/bids?email=buyer@example.com", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestOwnerGuard_EmailMismatch_Returns403(t *testing.T) {
	handler := NewOwnerGuard()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/bids?email=other@example.com", nil)
	req = req.WithContext(ContextWithEmail(req.Context(), "buyer@example.com"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
	if !strings.Contains(rec.Body.String(), `"forbidden access"`) {
		t.Errorf("body = %q, want to contain %q", rec.Body.String(), "forbidden access")
	}
}

func TestOwnerGuard_EmailMatch_PassesThrough(t *testing.T) {
	called := false
	handler := NewOwnerGuard()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/bids?email=buyer@example.com", nil)
	req = req.WithContext(ContextWithEmail(req.Context(), "buyer@example.com"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("next handler was not called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

// クエリパラメータ未指定の場合は比較をスキップして通す。
// 絞り込みなしのクエリとして後段が処理する。
func TestOwnerGuard_NoQueryParam_PassesThrough(t *testing.T) {
	called := false
	handler := NewOwnerGuard()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/bids", nil)
	req = req.WithContext(ContextWithEmail(req.Context(), "buyer@example.com"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if !called {
		t.Error("next handler was not called")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
