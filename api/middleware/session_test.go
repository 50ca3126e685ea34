package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/angelmondragon/tvshop-backend/pkg/config"
	"github.com/google/uuid"
)

func TestCartSessionIssuesCookieForNewVisitors(t *testing.T) {
	cfg := config.CartConfig{SessionTTL: time.Hour, CookieName: "cart_sid", CookieSecure: true}
	var seen string
	handler := CartSession(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected generated session id, got %q", seen)
	}
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "cart_sid" || cookies[0].Value != seen {
		t.Fatalf("unexpected cookies %+v", cookies)
	}
	if !cookies[0].HttpOnly || !cookies[0].Secure || cookies[0].MaxAge != 3600 {
		t.Fatalf("unexpected cookie attributes %+v", cookies[0])
	}
}

func TestCartSessionReusesCookie(t *testing.T) {
	cfg := config.CartConfig{SessionTTL: time.Hour, CookieName: "cart_sid"}
	existing := uuid.NewString()
	var seen string
	handler := CartSession(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(&http.Cookie{Name: "cart_sid", Value: existing})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen != existing {
		t.Fatalf("expected %s got %s", existing, seen)
	}
	if len(resp.Result().Cookies()) != 0 {
		t.Fatal("expected no new cookie")
	}
}

func TestCartSessionKeepsTokenSession(t *testing.T) {
	var seen string
	handler := CartSession(config.CartConfig{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(WithSessionID(req.Context(), "jti-123"))
	req.AddCookie(&http.Cookie{Name: "tvshop_session", Value: uuid.NewString()})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "jti-123" {
		t.Fatalf("expected token session to win, got %s", seen)
	}
}
