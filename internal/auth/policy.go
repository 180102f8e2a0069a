package auth

import (
	"strings"

	"github.com/soonhyok/accountd/internal/entities"
)

// Decision is the outcome of evaluating a request against the policy.
type Decision int

const (
	// DecisionAllow lets the request through.
	DecisionAllow Decision = iota
	// DecisionUnauthenticated means the route is protected and the request
	// carries no authenticated principal.
	DecisionUnauthenticated
	// DecisionForbidden means the principal is authenticated but its role is
	// not in the rule's permitted set.
	DecisionForbidden
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionUnauthenticated:
		return "unauthenticated"
	case DecisionForbidden:
		return "forbidden"
	}
	return "unknown"
}

// Rule maps a route pattern to the set of roles permitted to access it.
// Public rules need no principal at all. A non-public rule with an empty
// role set requires authentication but grants access to nobody.
//
// Patterns support three forms:
//   - exact paths: "/login"
//   - "*" matching a single path segment: "/accounts/*/edit"
//   - a trailing "/**" matching the path itself and everything below it:
//     "/admin/**" matches "/admin" and "/admin/reports"
type Rule struct {
	Pattern string
	Public  bool
	Roles   []entities.AccountRole
}

type compiledRule struct {
	pattern  string
	prefix   string // set for trailing "/**" patterns
	segments []string
	public   bool
	roles    map[entities.AccountRole]struct{}
}

// Policy evaluates requests against an ordered rule table. Rules are matched
// first-match-wins, so callers must list the most specific patterns first
// ("/admin/**" before "/**"). The table is immutable after construction and
// safe for concurrent use.
type Policy struct {
	rules []compiledRule
}

// NewPolicy builds a policy from an ordered rule list.
func NewPolicy(rules []Rule) *Policy {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr := compiledRule{
			pattern: r.Pattern,
			public:  r.Public,
			roles:   make(map[entities.AccountRole]struct{}, len(r.Roles)),
		}
		for _, role := range r.Roles {
			cr.roles[role] = struct{}{}
		}
		if before, ok := strings.CutSuffix(r.Pattern, "/**"); ok {
			cr.prefix = before
		} else if strings.Contains(r.Pattern, "*") {
			cr.segments = strings.Split(r.Pattern, "/")
		}
		compiled = append(compiled, cr)
	}
	return &Policy{rules: compiled}
}

// Evaluate decides whether the principal may access the path. Role matching
// is exact set membership: a principal holding a different privileged role
// than required is denied, never escalated. Paths with no matching rule are
// treated as protected with no roles granted (fail closed).
func (p *Policy) Evaluate(path string, principal Principal) Decision {
	path = normalizePath(path)

	for _, rule := range p.rules {
		if !rule.matches(path) {
			continue
		}
		if rule.public {
			return DecisionAllow
		}
		if !principal.Authenticated {
			return DecisionUnauthenticated
		}
		if _, ok := rule.roles[principal.Role]; ok {
			return DecisionAllow
		}
		return DecisionForbidden
	}

	// No rule matched: fail closed.
	if !principal.Authenticated {
		return DecisionUnauthenticated
	}
	return DecisionForbidden
}

func (r *compiledRule) matches(path string) bool {
	if r.prefix != "" || r.pattern == "/**" {
		if r.pattern == "/**" {
			return true
		}
		return path == r.prefix || strings.HasPrefix(path, r.prefix+"/")
	}
	if r.segments != nil {
		parts := strings.Split(path, "/")
		if len(parts) != len(r.segments) {
			return false
		}
		for i, seg := range r.segments {
			if seg != "*" && seg != parts[i] {
				return false
			}
		}
		return true
	}
	return path == r.pattern
}

// normalizePath strips a trailing slash so "/admin/" and "/admin" evaluate
// the same. The root path is left as is.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// DefaultRules returns the rule table the application ships with. No role is
// currently granted the admin section: authenticated users of any role get a
// 403 there, matching the access contract this app is built to.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: "/login", Public: true},
		{Pattern: "/logout", Public: true},
		{Pattern: "/health", Public: true},
		{Pattern: "/ping", Public: true},
		{Pattern: "/favicon.ico", Public: true},
		{Pattern: "/static/**", Public: true},
		{Pattern: "/admin/**", Public: false, Roles: nil},
		{Pattern: "/**", Public: true},
	}
}
