package handlers

import (
	"net/http"

	"github.com/KaLuReTu/apartment-reservation-manager/internal/config"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/session"
	"github.com/KaLuReTu/apartment-reservation-manager/internal/views"
)

// AuthHandler owns the mode-transition routes: admin login/logout, read-only
// entry/exit, and the mode chooser.
type AuthHandler struct {
	cfg      *config.Config
	sessions *session.Manager
	views    *views.Renderer
}

func NewAuthHandler(cfg *config.Config, sessions *session.Manager, renderer *views.Renderer) *AuthHandler {
	return &AuthHandler{cfg: cfg, sessions: sessions, views: renderer}
}

func (h *AuthHandler) HandleAdminLoginForm(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()) == session.RoleAdmin {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.views.Render(w, "admin_login.html", views.PageData{
		Notice: session.PopFlash(w, r),
	})
}

func (h *AuthHandler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("password") != h.cfg.AdminPassword {
		// Re-render the form directly; no redirect on a failed login.
		h.views.Render(w, "admin_login.html", views.PageData{
			Notice: &session.Notice{Category: "error", Message: "Invalid admin password"},
		})
		return
	}

	if err := h.sessions.SetRole(w, session.RoleAdmin); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	session.Flash(w, "success", "Logged in as Admin")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) HandleAdminLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.SetRole(w, session.RoleAnonymous)
	session.Flash(w, "success", "Logged out from admin mode")
	http.Redirect(w, r, "/admin-login", http.StatusFound)
}

func (h *AuthHandler) HandleReadOnly(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SetRole(w, session.RoleReadOnly); err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	session.Flash(w, "success", "Viewing in read-only mode")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) HandleExitReadOnly(w http.ResponseWriter, r *http.Request) {
	h.sessions.SetRole(w, session.RoleAnonymous)
	session.Flash(w, "success", "Exited read-only mode")
	http.Redirect(w, r, "/login-select", http.StatusFound)
}

func (h *AuthHandler) HandleLoginSelect(w http.ResponseWriter, r *http.Request) {
	if session.FromContext(r.Context()) != session.RoleAnonymous {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.views.Render(w, "login_select.html", views.PageData{
		Notice: session.PopFlash(w, r),
	})
}
