// Package clientcookie identifies browser clients across page loads.
//
// The client id scopes the per-client key/value store, so every persisted
// form snapshot and page-state marker belongs to exactly one browser.
package clientcookie

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gdresist/optimizer/internal/platform/id"
)

// Name is the client id cookie name.
const Name = "gd_client"

const maxAge = 400 * 24 * time.Hour

// Read returns the client id cookie value when present and well formed.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(Name)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if !id.Valid(value) {
		return "", false
	}
	return value, true
}

// Write sets the client id cookie.
func Write(w http.ResponseWriter, r *http.Request, clientID string) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    strings.TrimSpace(clientID),
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   r != nil && r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// Ensure returns the request's client id, issuing a new one when the request
// carries none.
func Ensure(w http.ResponseWriter, r *http.Request) (string, error) {
	if clientID, ok := Read(r); ok {
		return clientID, nil
	}
	clientID, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("issue client id: %w", err)
	}
	Write(w, r, clientID)
	return clientID, nil
}
