package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/kevinaaaquil/compro/models"
)

// ProtectedRoute admits only sessions holding one of Roles.
type ProtectedRoute struct {
	Prefix string
	Roles  []string
}

type GuardRules struct {
	// GuestOnly paths are for visitors without a session (login and sign-up forms).
	GuestOnly     []string
	Protected     []ProtectedRoute
	LandingPath   string
	LoginPath     string
	ForbiddenPath string
}

// DefaultGuardRules is the page access table of the dashboard.
func DefaultGuardRules() GuardRules {
	return GuardRules{
		GuestOnly: []string{"/login", "/register"},
		Protected: []ProtectedRoute{
			{Prefix: "/admin", Roles: []string{models.RoleSuperAdmin}},
			{Prefix: "/dashboard", Roles: []string{models.RoleSuperAdmin, models.RoleMember}},
		},
		LandingPath:   "/dashboard",
		LoginPath:     "/login",
		ForbiddenPath: "/403",
	}
}

type Action int

const (
	Allow Action = iota
	Redirect
)

type Decision struct {
	Action   Action
	Location string
}

// matchPath reports whether p starts with prefix. Sibling files such as
// /admin.html fall under /admin.
func matchPath(p, prefix string) bool {
	return strings.HasPrefix(p, prefix)
}

// Decide evaluates the rules for path. A nil claims means no valid session.
func (g GuardRules) Decide(path string, claims *Claims) Decision {
	for _, p := range g.GuestOnly {
		if matchPath(path, p) {
			if claims != nil {
				return Decision{Action: Redirect, Location: g.LandingPath}
			}
			return Decision{Action: Allow}
		}
	}
	for _, route := range g.Protected {
		if !matchPath(path, route.Prefix) {
			continue
		}
		if claims == nil {
			return Decision{Action: Redirect, Location: g.LoginPath}
		}
		if !claims.HasAnyRole(route.Roles...) {
			return Decision{Action: Redirect, Location: g.ForbiddenPath}
		}
		return Decision{Action: Allow}
	}
	return Decision{Action: Allow}
}

// Guard redirects page requests according to rules. Malformed or expired tokens count as no token.
func Guard(rules GuardRules, secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := rules.Decide(path.Clean("/"+r.URL.Path), ClaimsFromRequest(r, secret))
			if d.Action == Redirect {
				http.Redirect(w, r, d.Location, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
