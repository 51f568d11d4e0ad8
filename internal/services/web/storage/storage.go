// Package storage declares the per-client key/value store that holds form
// state between page loads.
//
// Each browser client owns an isolated key space, the server-side
// counterpart of browser local storage.
package storage

import (
	"context"
	"fmt"
	"strings"
)

// Store persists string values per client and key.
type Store interface {
	Get(ctx context.Context, clientID, key string) (string, bool, error)
	Set(ctx context.Context, clientID, key, value string) error
	Delete(ctx context.Context, clientID, key string) error
	Close() error
}

// Local is a Store view scoped to one client.
type Local struct {
	store    Store
	clientID string
}

// Scope returns the view of store owned by clientID.
func Scope(store Store, clientID string) *Local {
	return &Local{store: store, clientID: strings.TrimSpace(clientID)}
}

// ClientID returns the owning client.
func (l *Local) ClientID() string {
	if l == nil {
		return ""
	}
	return l.clientID
}

// GetItem reads key.
func (l *Local) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := l.check(); err != nil {
		return "", false, err
	}
	return l.store.Get(ctx, l.clientID, key)
}

// SetItem writes key, overwriting any previous value.
func (l *Local) SetItem(ctx context.Context, key, value string) error {
	if err := l.check(); err != nil {
		return err
	}
	return l.store.Set(ctx, l.clientID, key, value)
}

// RemoveItem deletes key. Removing an absent key is not an error.
func (l *Local) RemoveItem(ctx context.Context, key string) error {
	if err := l.check(); err != nil {
		return err
	}
	return l.store.Delete(ctx, l.clientID, key)
}

func (l *Local) check() error {
	if l == nil || l.store == nil {
		return fmt.Errorf("storage is not configured")
	}
	if l.clientID == "" {
		return fmt.Errorf("client id is required")
	}
	return nil
}
