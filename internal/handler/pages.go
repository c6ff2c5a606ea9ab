// Package handler contains the HTTP handlers for the vault's browser-facing
// routes. Pages are small inline HTML documents — no template engine, no
// static assets. Every taxonomy error surfaces as a flash message plus a
// redirect to a safe page; only unexpected failures reach the generic
// server-error page.
package handler

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/imagevault/internal/apperror"
	"github.com/sakif/imagevault/internal/session"
)

const pageShell = `<!DOCTYPE html>
<html>
<head><title>%s — Image Vault</title></head>
<body>
<h1>%s</h1>
%s%s
</body>
</html>
`

// renderPage writes a full HTML page. Flash messages queued by earlier
// requests are rendered at the top and cleared.
func renderPage(w http.ResponseWriter, r *http.Request, flashes *session.FlashStore, status int, title, body string) {
	var flashHTML strings.Builder
	for _, msg := range flashes.Pop(w, r) {
		flashHTML.WriteString("<p class=\"flash\">")
		flashHTML.WriteString(html.EscapeString(msg))
		flashHTML.WriteString("</p>\n")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, pageShell,
		html.EscapeString(title),
		html.EscapeString(title),
		flashHTML.String(),
		body,
	)
}

// redirectWithFlash queues a message and redirects to target.
func redirectWithFlash(w http.ResponseWriter, r *http.Request, flashes *session.FlashStore, target, message string) {
	flashes.Add(w, r, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleError recovers a service error at the request boundary.
//
// Taxonomy errors carry a user-visible message: they become a flash plus a
// redirect. Unauthenticated goes to the login page; everything else goes
// back to the given safe page. Unknown errors are logged and mapped to the
// generic server-error page — never a raw error to the end user.
func handleError(w http.ResponseWriter, r *http.Request, flashes *session.FlashStore, logger *slog.Logger, err error, safePage string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		target := safePage
		if errors.Is(err, apperror.ErrUnauthenticated) {
			target = "/login"
		}
		redirectWithFlash(w, r, flashes, target, appErr.Message)
		return
	}

	logger.Error("unhandled request error",
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	ServerError(w, r)
}

// NotFound renders the generic not-found page for unmatched routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, pageShell, "Page Not Found", "Page Not Found",
		"", `<p>The page you are looking for does not exist.</p>`)
}

// ServerError renders the generic server-error page for unhandled failures.
func ServerError(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, pageShell, "Server Error", "Server Error",
		"", `<p>Something went wrong. Please try again later.</p>`)
}
