package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/soonhyok/accountd/internal/config"
	"github.com/soonhyok/accountd/internal/entities"
)

func setupSessionManager(t *testing.T) *SessionManager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get SQL DB: %v", err)
	}

	cfg := config.Auth{
		SessionLifetime: 24 * time.Hour,
		SecureCookies:   false,
	}

	sm, err := NewSessionManager(sqlDB, cfg)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	return sm
}

func TestNewSessionManager(t *testing.T) {
	sm := setupSessionManager(t)

	if sm.SessionManager == nil {
		t.Fatal("inner session manager should not be nil")
	}

	// Verify cookie configuration
	if sm.Cookie.Name != "session" {
		t.Errorf("Expected cookie name 'session', got '%s'", sm.Cookie.Name)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("Cookie should be HttpOnly")
	}
	if sm.Cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("Expected SameSiteStrictMode, got %v", sm.Cookie.SameSite)
	}
}

func TestSessionManager_CreateAndRetrieveSession(t *testing.T) {
	sm := setupSessionManager(t)

	principal := Principal{
		AccountID:     123,
		Username:      "soon",
		Role:          entities.RoleUser,
		Authenticated: true,
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := sm.CreateSession(r, principal); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if got := sm.GetAccountID(r); got != principal.AccountID {
			t.Errorf("GetAccountID() = %d, want %d", got, principal.AccountID)
		}
		if got := sm.GetUsername(r); got != principal.Username {
			t.Errorf("GetUsername() = %q, want %q", got, principal.Username)
		}
		if got := sm.GetRole(r); got != principal.Role {
			t.Errorf("GetRole() = %q, want %q", got, principal.Role)
		}
		if !sm.IsAuthenticated(r) {
			t.Error("IsAuthenticated() = false after CreateSession")
		}
	}))

	handler.ServeHTTP(rr, req)

	// A session cookie must be set on the response
	cookies := rr.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "session" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("no session cookie written")
	}
}

func TestSessionManager_DestroySession(t *testing.T) {
	sm := setupSessionManager(t)

	principal := Principal{AccountID: 7, Username: "soon", Role: entities.RoleUser, Authenticated: true}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := sm.CreateSession(r, principal); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}
		if err := sm.DestroySession(r); err != nil {
			t.Fatalf("failed to destroy session: %v", err)
		}

		if sm.IsAuthenticated(r) {
			t.Error("IsAuthenticated() = true after DestroySession")
		}
		if got := sm.GetAccountID(r); got != 0 {
			t.Errorf("GetAccountID() = %d after destroy, want 0", got)
		}
	}))

	handler.ServeHTTP(rr, req)
}

func TestSessionManager_AnonymousRequest(t *testing.T) {
	sm := setupSessionManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sm.IsAuthenticated(r) {
			t.Error("IsAuthenticated() = true for request without session")
		}
		if got := sm.GetRole(r); got != "" {
			t.Errorf("GetRole() = %q for anonymous, want empty", got)
		}
	}))

	handler.ServeHTTP(rr, req)
}
