// Package session carries short-lived flash messages between requests.
//
// Every taxonomy error (and every success notice) surfaces to the user as a
// flash plus a redirect to a safe page — never a raw error. Flashes ride in
// a signed cookie separate from the auth session, so a message survives
// exactly one redirect and nothing more.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const flashSession = "vault_flash"

// FlashStore wraps a gorilla signed cookie store for flash messages.
type FlashStore struct {
	store *sessions.CookieStore
}

// NewFlashStore creates a FlashStore signing cookies with the given secret.
func NewFlashStore(secret string) *FlashStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300, // flashes are meaningless after a few minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &FlashStore{store: store}
}

// Add queues a message to be shown on the next rendered page.
func (f *FlashStore) Add(w http.ResponseWriter, r *http.Request, message string) {
	// Get never fails for cookie stores; a tampered cookie yields a fresh
	// session, which is the behaviour we want anyway.
	s, _ := f.store.Get(r, flashSession)
	s.AddFlash(message)
	_ = s.Save(r, w)
}

// Pop returns all queued messages and clears them. The Save writes back the
// emptied session so the flashes appear only once.
func (f *FlashStore) Pop(w http.ResponseWriter, r *http.Request) []string {
	s, _ := f.store.Get(r, flashSession)
	raw := s.Flashes()
	if len(raw) > 0 {
		_ = s.Save(r, w)
	}

	messages := make([]string, 0, len(raw))
	for _, v := range raw {
		if msg, ok := v.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}
