package auth

import (
	"testing"

	"github.com/soonhyok/accountd/internal/entities"
)

func userPrincipal(role entities.AccountRole) Principal {
	return Principal{AccountID: 1, Username: "soon", Role: role, Authenticated: true}
}

func TestPolicy_DefaultRules(t *testing.T) {
	policy := NewPolicy(DefaultRules())

	tests := []struct {
		name      string
		path      string
		principal Principal
		want      Decision
	}{
		{name: "anonymous on home", path: "/", principal: Anonymous(), want: DecisionAllow},
		{name: "user on home", path: "/", principal: userPrincipal(entities.RoleUser), want: DecisionAllow},
		{name: "admin on home", path: "/", principal: userPrincipal(entities.RoleAdmin), want: DecisionAllow},
		{name: "anonymous on login", path: "/login", principal: Anonymous(), want: DecisionAllow},
		{name: "anonymous on admin", path: "/admin", principal: Anonymous(), want: DecisionUnauthenticated},
		// The shipped rule table grants /admin to no role at all: USER and
		// ADMIN are both forbidden. Pinned deliberately.
		{name: "user on admin", path: "/admin", principal: userPrincipal(entities.RoleUser), want: DecisionForbidden},
		{name: "admin on admin", path: "/admin", principal: userPrincipal(entities.RoleAdmin), want: DecisionForbidden},
		{name: "admin on admin subpath", path: "/admin/reports", principal: userPrincipal(entities.RoleAdmin), want: DecisionForbidden},
		{name: "trailing slash", path: "/admin/", principal: userPrincipal(entities.RoleUser), want: DecisionForbidden},
		{name: "static is public", path: "/static/css/app.css", principal: Anonymous(), want: DecisionAllow},
		{name: "health is public", path: "/health", principal: Anonymous(), want: DecisionAllow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Evaluate(tt.path, tt.principal)
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	policy := NewPolicy([]Rule{
		{Pattern: "/admin/**", Roles: []entities.AccountRole{entities.RoleAdmin}},
		{Pattern: "/**", Public: true},
	})

	if got := policy.Evaluate("/admin", userPrincipal(entities.RoleUser)); got != DecisionForbidden {
		t.Errorf("specific rule should win over catch-all, got %v", got)
	}
	if got := policy.Evaluate("/admin", userPrincipal(entities.RoleAdmin)); got != DecisionAllow {
		t.Errorf("admin should be allowed by explicit grant, got %v", got)
	}
	if got := policy.Evaluate("/anything", Anonymous()); got != DecisionAllow {
		t.Errorf("catch-all should allow, got %v", got)
	}
}

func TestPolicy_ExactRoleMatching(t *testing.T) {
	// Roles never escalate: ADMIN does not inherit USER routes.
	policy := NewPolicy([]Rule{
		{Pattern: "/user-area/**", Roles: []entities.AccountRole{entities.RoleUser}},
		{Pattern: "/shared/**", Roles: []entities.AccountRole{entities.RoleUser, entities.RoleAdmin}},
	})

	if got := policy.Evaluate("/user-area/profile", userPrincipal(entities.RoleAdmin)); got != DecisionForbidden {
		t.Errorf("ADMIN on USER-only route = %v, want forbidden", got)
	}
	if got := policy.Evaluate("/user-area/profile", userPrincipal(entities.RoleUser)); got != DecisionAllow {
		t.Errorf("USER on USER-only route = %v, want allow", got)
	}
	if got := policy.Evaluate("/shared/docs", userPrincipal(entities.RoleAdmin)); got != DecisionAllow {
		t.Errorf("ADMIN on multi-role route = %v, want allow", got)
	}
}

func TestPolicy_SingleSegmentWildcard(t *testing.T) {
	policy := NewPolicy([]Rule{
		{Pattern: "/accounts/*/edit", Roles: []entities.AccountRole{entities.RoleAdmin}},
	})

	if got := policy.Evaluate("/accounts/42/edit", userPrincipal(entities.RoleAdmin)); got != DecisionAllow {
		t.Errorf("wildcard segment should match, got %v", got)
	}
	// "*" matches exactly one segment
	if got := policy.Evaluate("/accounts/42/extra/edit", userPrincipal(entities.RoleAdmin)); got != DecisionForbidden {
		t.Errorf("two segments should not match single wildcard, got %v", got)
	}
}

func TestPolicy_NoMatchFailsClosed(t *testing.T) {
	policy := NewPolicy([]Rule{
		{Pattern: "/login", Public: true},
	})

	if got := policy.Evaluate("/unknown", Anonymous()); got != DecisionUnauthenticated {
		t.Errorf("unmatched path for anonymous = %v, want unauthenticated", got)
	}
	if got := policy.Evaluate("/unknown", userPrincipal(entities.RoleAdmin)); got != DecisionForbidden {
		t.Errorf("unmatched path for authenticated = %v, want forbidden", got)
	}
}

func TestPolicy_EmptyRoleSetDeniesEveryone(t *testing.T) {
	policy := NewPolicy([]Rule{
		{Pattern: "/restricted/**", Roles: nil},
	})

	for _, role := range []entities.AccountRole{entities.RoleUser, entities.RoleAdmin} {
		if got := policy.Evaluate("/restricted", userPrincipal(role)); got != DecisionForbidden {
			t.Errorf("role %s on empty-set route = %v, want forbidden", role, got)
		}
	}
	if got := policy.Evaluate("/restricted", Anonymous()); got != DecisionUnauthenticated {
		t.Errorf("anonymous on empty-set route = %v, want unauthenticated", got)
	}
}
