// Package memory provides an in-process Store for tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	webstorage "github.com/gdresist/optimizer/internal/services/web/storage"
)

type entryKey struct {
	clientID string
	key      string
}

// Store keeps values in a mutex-guarded map.
type Store struct {
	mu     sync.Mutex
	values map[entryKey]string
	closed bool
}

var _ webstorage.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{values: map[entryKey]string{}}
}

// Get reads one value.
func (s *Store) Get(_ context.Context, clientID, key string) (string, bool, error) {
	k, err := normalize(clientID, key)
	if err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", false, fmt.Errorf("storage is closed")
	}
	value, ok := s.values[k]
	return value, ok, nil
}

// Set writes one value.
func (s *Store) Set(_ context.Context, clientID, key, value string) error {
	k, err := normalize(clientID, key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("storage is closed")
	}
	s.values[k] = value
	return nil
}

// Delete removes one value.
func (s *Store) Delete(_ context.Context, clientID, key string) error {
	k, err := normalize(clientID, key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("storage is closed")
	}
	delete(s.values, k)
	return nil
}

// Close marks the store closed; later calls fail.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Keys returns the keys held for clientID.
func (s *Store) Keys(clientID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for k := range s.values {
		if k.clientID == clientID {
			keys = append(keys, k.key)
		}
	}
	return keys
}

func normalize(clientID, key string) (entryKey, error) {
	clientID = strings.TrimSpace(clientID)
	key = strings.TrimSpace(key)
	if clientID == "" {
		return entryKey{}, fmt.Errorf("client id is required")
	}
	if key == "" {
		return entryKey{}, fmt.Errorf("key is required")
	}
	return entryKey{clientID: clientID, key: key}, nil
}
