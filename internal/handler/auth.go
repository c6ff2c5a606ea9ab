package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/imagevault/internal/auth"
	"github.com/sakif/imagevault/internal/service"
	"github.com/sakif/imagevault/internal/session"
)

const registerForm = `<form method="post" action="/register">
<p><label>Username <input type="text" name="username" required></label></p>
<p><label>Email <input type="email" name="email" required></label></p>
<p><label>Password <input type="password" name="password" required></label></p>
<p><button type="submit">Register</button></p>
</form>
<p><a href="/login">Already have an account? Log in</a></p>`

const loginForm = `<form method="post" action="/login">
<p><label>Username <input type="text" name="username" required></label></p>
<p><label>Password <input type="password" name="password" required></label></p>
<p><button type="submit">Log in</button></p>
</form>
<p><a href="/register">Need an account? Register</a></p>`

// AuthHandler serves the registration and login pages and manages the
// session lifecycle (login establishes the session cookie, logout clears
// it).
type AuthHandler struct {
	authService *service.AuthService
	tokens      *auth.TokenService
	flashes     *session.FlashStore
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler. Dependencies are injected; the
// handler constructs nothing itself.
func NewAuthHandler(authService *service.AuthService, tokens *auth.TokenService, flashes *session.FlashStore, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokens:      tokens,
		flashes:     flashes,
		logger:      logger,
	}
}

// HandleRegisterPage renders the registration form.
//
// HTTP: GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.flashes, http.StatusOK, "Register", registerForm)
}

// HandleRegister creates an account from the submitted form. Success
// redirects to the login page; a duplicate username or email flashes the
// corresponding message back on the registration page.
//
// HTTP: POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, h.flashes, "/register", "Invalid form submission")
		return
	}

	_, err := h.authService.Register(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
	)
	if err != nil {
		handleError(w, r, h.flashes, h.logger, err, "/register")
		return
	}

	redirectWithFlash(w, r, h.flashes, "/login", "Registration successful")
}

// HandleLoginPage renders the login form.
//
// HTTP: GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.flashes, http.StatusOK, "Log in", loginForm)
}

// HandleLogin authenticates the submitted credentials and establishes the
// session. Invalid credentials flash back on the login page without
// revealing whether the username exists.
//
// HTTP: POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithFlash(w, r, h.flashes, "/login", "Invalid form submission")
		return
	}

	userID, err := h.authService.Authenticate(r.Context(),
		r.PostFormValue("username"),
		r.PostFormValue("password"),
	)
	if err != nil {
		handleError(w, r, h.flashes, h.logger, err, "/login")
		return
	}

	if err := h.tokens.Login(w, userID); err != nil {
		h.logger.Error("issuing session failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		ServerError(w, r)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout destroys the session and returns to the login page.
//
// HTTP: GET /logout (auth required)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.tokens.Logout(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
