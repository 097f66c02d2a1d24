package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"placement-admin/internal/creds"
	"placement-admin/internal/repo"
)

// Minimal placeholders: the admin UI is served separately, the backend only
// owns the redirect logic around it.
const (
	loginPage     = `<!DOCTYPE html><html><head><title>Placement Admin - Login</title></head><body><h1>Placement Admin</h1><p>Sign in to continue.</p></body></html>`
	dashboardPage = `<!DOCTYPE html><html><head><title>Placement Admin - Dashboard</title></head><body><h1>Dashboard</h1></body></html>`
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.currentSession(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if s.currentSession(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(loginPage))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(dashboardPage))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request body"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Username and password required!"})
		return
	}

	admin, err := s.repo.GetAdminByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		s.logger.Error("admin lookup failed", "error", err)
		s.metrics.Errors.WithLabelValues("auth").Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Login failed"})
		return
	}

	if admin == nil || !creds.Verify(req.Password, admin.Password) {
		s.metrics.LoginAttempts.WithLabelValues("failure").Inc()
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Invalid username or password!"})
		return
	}

	sess, err := s.sessions.Create(r.Context(), admin.Username)
	if err != nil {
		s.logger.Error("session create failed", "error", err)
		s.metrics.Errors.WithLabelValues("session").Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Login failed"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.metrics.LoginAttempts.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Login successful!"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			s.logger.Error("session delete failed", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleGetCredentials(w http.ResponseWriter, r *http.Request) {
	admin, err := s.repo.GetAdmin(r.Context())
	if errors.Is(err, repo.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "No admin found"})
		return
	}
	if err != nil {
		s.logger.Error("admin lookup failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "Lookup failed"})
		return
	}
	// passwordLength is a fixed decoy; the real password is never measured.
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"username":       admin.Username,
		"passwordLength": 8,
	})
}

func (s *Server) handleChangeCredentials(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewUsername     string `json:"newUsername"`
		NewPassword     string `json:"newPassword"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Invalid request body"})
		return
	}

	if req.CurrentPassword == "" {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Current password is required!"})
		return
	}
	req.NewUsername = strings.TrimSpace(req.NewUsername)

	if err := creds.Change(r.Context(), s.repo, req.CurrentPassword, req.NewUsername, req.NewPassword); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": changeErrorMessage(err)})
		return
	}

	// A live session keeps working under the new username.
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := s.sessions.SetUsername(r.Context(), cookie.Value, req.NewUsername); err != nil {
			s.logger.Error("session rename failed", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Credentials updated successfully!"})
}

func changeErrorMessage(err error) string {
	switch {
	case errors.Is(err, creds.ErrUsernameTooShort):
		return "Username must be at least 3 characters!"
	case errors.Is(err, creds.ErrPasswordTooShort):
		return "Password must be at least 6 characters!"
	case errors.Is(err, creds.ErrInvalidCredential):
		return "Current password is incorrect!"
	case errors.Is(err, repo.ErrNotFound):
		return "No admin account found!"
	default:
		return err.Error()
	}
}
