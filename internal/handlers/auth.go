package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"spendlog/internal/auth"
	"spendlog/internal/service"
)

// AuthViewModel holds data for the login and register pages.
type AuthViewModel struct {
	Error    string
	Username string
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	// If already logged in, go straight to the expense list.
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if _, err := h.db.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/expenses", http.StatusFound)
			return
		}
	}
	h.render(w, r, "login.html", AuthViewModel{})
}

// Login handles the login form submission.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "login.html", AuthViewModel{Error: "Invalid form submission"})
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := h.users.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.render(w, r, "login.html", AuthViewModel{
				Error:    "Invalid username or password!",
				Username: username,
			})
			return
		}
		h.logger.Error("login failed", "error", err)
		h.render(w, r, "login.html", AuthViewModel{Error: "An error occurred. Please try again.", Username: username})
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		h.logger.Error("failed to generate session token", "error", err)
		h.render(w, r, "login.html", AuthViewModel{Error: "An error occurred. Please try again."})
		return
	}

	expiresAt := time.Now().Add(SessionDuration)
	if err := h.db.CreateSession(token, user.ID, expiresAt); err != nil {
		h.logger.Error("failed to create session", "error", err, "user", user.Username)
		h.render(w, r, "login.html", AuthViewModel{Error: "An error occurred. Please try again."})
		return
	}

	h.setSessionCookie(w, token)
	http.Redirect(w, r, "/expenses", http.StatusFound)
}

// RegisterForm renders the registration page.
func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register.html", AuthViewModel{})
}

// Register handles the registration form submission.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, "register.html", AuthViewModel{Error: "Invalid form submission"})
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	_, err := h.users.Register(username, password)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			h.render(w, r, "register.html", AuthViewModel{Error: "Username already exists!", Username: username})
		case errors.As(err, &verr):
			h.render(w, r, "register.html", AuthViewModel{Error: verr.Reason, Username: username})
		default:
			h.logger.Error("registration failed", "error", err)
			h.render(w, r, "register.html", AuthViewModel{Error: "An error occurred. Please try again.", Username: username})
		}
		return
	}

	h.logger.Info("user registered", "username", username)
	h.setFlash(w, "success", "Registration successful! Please log in.")
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Logout terminates the current session. Logging out twice is harmless.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.db.DeleteSession(cookie.Value); err != nil {
			h.logger.Error("failed to delete session", "error", err)
		}
	}
	h.clearSessionCookie(w)
	h.setFlash(w, "success", "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusFound)
}
