// Package statestore persists the form snapshot and the one-shot tab/scroll
// page state in a client's local store.
//
// Every operation is total: storage failures and corrupt payloads are logged
// and treated as absence, so the form always stays usable.
package statestore

import (
	"context"
	"encoding/json"
	"log"
	"sort"

	"github.com/gdresist/optimizer/internal/platform/timeouts"
	"github.com/gdresist/optimizer/internal/services/web/form"
	apperrors "github.com/gdresist/optimizer/internal/services/web/platform/errors"
	"github.com/gdresist/optimizer/internal/services/web/storage"
)

// Storage keys. They are stable across releases.
const (
	FormKey      = "grimDawnOptimizerForm"
	ActiveTabKey = "activeTab"
	ScrollKey    = "scrollPositions"
)

// Store reads and writes form state for one client.
type Store struct {
	local  *storage.Local
	logger *log.Logger
}

// New returns a Store over local. A nil logger uses log.Default().
func New(local *storage.Local, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	return &Store{local: local, logger: logger}
}

// Save writes the value of every registered control, replacing the previous
// snapshot.
func (s *Store) Save(ctx context.Context, registry *form.Registry) {
	data, err := json.Marshal(registry.Snapshot())
	if err != nil {
		s.logger.Printf("save form state failed client=%s err=%v", s.local.ClientID(), err)
		return
	}
	s.set(ctx, FormKey, string(data))
}

// Load returns the stored snapshot. Entries that do not decode as a value are
// dropped individually; a payload that is not a JSON object is reported as
// absent.
func (s *Store) Load(ctx context.Context) (form.Snapshot, bool) {
	raw, ok := s.get(ctx, FormKey)
	if !ok {
		return nil, false
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil || entries == nil {
		s.corrupt(FormKey, err)
		return nil, false
	}
	snapshot := make(form.Snapshot, len(entries))
	for name, data := range entries {
		var value form.Value
		if err := json.Unmarshal(data, &value); err != nil {
			s.logger.Printf("skip stored field client=%s field=%s err=%v", s.local.ClientID(), name, err)
			continue
		}
		snapshot[name] = value
	}
	return snapshot, true
}

// Restore applies the stored snapshot to the registered controls. Keys with
// no registered control and values the control rejects are skipped; every
// other control keeps its rendered default.
func (s *Store) Restore(ctx context.Context, registry *form.Registry) {
	snapshot, ok := s.Load(ctx)
	if !ok {
		return
	}
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		control, ok := registry.Lookup(name)
		if !ok {
			continue
		}
		if err := control.Apply(snapshot[name]); err != nil {
			s.logger.Printf("skip stored field client=%s field=%s kind=%s err=%v", s.local.ClientID(), name, apperrors.KindOf(err), err)
		}
	}
}

// SaveScroll writes the per-tab scroll offsets.
func (s *Store) SaveScroll(ctx context.Context, offsets map[string]int) {
	data, err := json.Marshal(offsets)
	if err != nil {
		s.logger.Printf("save scroll failed client=%s err=%v", s.local.ClientID(), err)
		return
	}
	s.set(ctx, ScrollKey, string(data))
}

// SaveActiveTab writes the active tab marker.
func (s *Store) SaveActiveTab(ctx context.Context, tab string) {
	s.set(ctx, ActiveTabKey, tab)
}

// SavePageState writes both one-shot keys.
func (s *Store) SavePageState(ctx context.Context, state form.PageState) {
	s.SaveScroll(ctx, state.Scroll)
	s.SaveActiveTab(ctx, state.ActiveTab)
}

// ConsumePageState reads the one-shot keys and deletes both, whatever was
// found. It reports false when no active tab marker was stored.
func (s *Store) ConsumePageState(ctx context.Context) (form.PageState, bool) {
	defer s.remove(ctx, ActiveTabKey)
	defer s.remove(ctx, ScrollKey)

	state := form.PageState{Scroll: map[string]int{}}
	if raw, ok := s.get(ctx, ScrollKey); ok {
		var offsets map[string]int
		if err := json.Unmarshal([]byte(raw), &offsets); err != nil {
			s.corrupt(ScrollKey, err)
		} else {
			for tab, offset := range offsets {
				if offset >= 0 {
					state.Scroll[tab] = offset
				}
			}
		}
	}
	tab, ok := s.get(ctx, ActiveTabKey)
	if !ok || tab == "" {
		return state, false
	}
	state.ActiveTab = tab
	return state, true
}

func (s *Store) get(ctx context.Context, key string) (string, bool) {
	value, ok, err := s.local.GetItem(ctx, key)
	if err != nil {
		s.logger.Printf("read state failed client=%s key=%s err=%v", s.local.ClientID(), key, err)
		return "", false
	}
	return value, ok
}

func (s *Store) set(ctx context.Context, key, value string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.StorageWrite)
	defer cancel()
	if err := s.local.SetItem(ctx, key, value); err != nil {
		s.logger.Printf("write state failed client=%s key=%s err=%v", s.local.ClientID(), key, err)
	}
}

func (s *Store) remove(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.StorageWrite)
	defer cancel()
	if err := s.local.RemoveItem(ctx, key); err != nil {
		s.logger.Printf("remove state failed client=%s key=%s err=%v", s.local.ClientID(), key, err)
	}
}

func (s *Store) corrupt(key string, err error) {
	err = apperrors.Wrap(apperrors.KindStorageCorrupt, "decode "+key, err)
	s.logger.Printf("stored state ignored client=%s key=%s kind=%s err=%v", s.local.ClientID(), key, apperrors.KindOf(err), err)
}
