package session

import (
	"context"
	"net/http"
)

type contextKey string

const RoleKey contextKey = "role"

// Load resolves the session cookie once per request and stores the role in
// the request context.
func (m *Manager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), RoleKey, m.RoleFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the role stored by Load, or RoleAnonymous when Load
// did not run.
func FromContext(ctx context.Context) Role {
	if role, ok := ctx.Value(RoleKey).(Role); ok {
		return role
	}
	return RoleAnonymous
}

// RequireAdmin short-circuits to the admin login page unless the session is
// an admin session.
func (m *Manager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) != RoleAdmin {
			Flash(w, "error", "Please login as admin to access this page")
			http.Redirect(w, r, "/admin-login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RejectReadOnly short-circuits to the listing when the session is read-only.
// It checks the role value itself rather than assuming RequireAdmin already
// ran.
func (m *Manager) RejectReadOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == RoleReadOnly {
			Flash(w, "error", "You are in read-only mode. You cannot modify reservations.")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireViewer gates the listing and calendar pages: anonymous sessions are
// sent to the mode chooser.
func (m *Manager) RequireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if FromContext(r.Context()) == RoleAnonymous {
			http.Redirect(w, r, "/login-select", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
