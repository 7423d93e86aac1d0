// Package store holds the three persisted biweekly records (accounts,
// trackers and the session) and writes each one back through a kv.Store
// after every change.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/biweekly-dev/biweekly/internal/kv"
	"github.com/biweekly-dev/biweekly/internal/logging"
	"github.com/biweekly-dev/biweekly/internal/model"
)

// Keys of the persisted records.
const (
	KeyAccounts = "biweekly.accounts"
	KeyTrackers = "biweekly.trackers"
	KeySession  = "biweekly.session"
)

// Store is the in-memory copy of all persisted state. It is not safe for
// concurrent use.
type Store struct {
	kv       kv.Store
	log      *slog.Logger
	accounts map[string]model.Account
	trackers map[string]model.Tracker
	session  *model.Session
}

// Open reads all records from backend. Missing or unparsable records are
// treated as empty and logged. Only errors from backend itself are returned.
func Open(ctx context.Context, backend kv.Store, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Store{
		kv:       backend,
		log:      logger.With(logging.FieldComponent, logging.ComponentStore),
		accounts: make(map[string]model.Account),
		trackers: make(map[string]model.Tracker),
	}

	if err := s.load(ctx, KeyAccounts, &s.accounts); err != nil {
		return nil, err
	}
	if err := s.load(ctx, KeyTrackers, &s.trackers); err != nil {
		return nil, err
	}
	if err := s.load(ctx, KeySession, &s.session); err != nil {
		return nil, err
	}

	s.normalize()
	return s, nil
}

// load decodes key into dst, leaving dst untouched if the value is missing
// or malformed.
func (s *Store) load(ctx context.Context, key string, dst any) error {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}

	// Decode into a scratch value first so a half-decoded record never leaks.
	switch d := dst.(type) {
	case *map[string]model.Account:
		var v map[string]model.Account
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			s.log.Warn("ignoring malformed record", logging.FieldKey, key, logging.FieldError, err)
			return nil
		}
		if v != nil {
			*d = v
		}
	case *map[string]model.Tracker:
		var v map[string]model.Tracker
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			s.log.Warn("ignoring malformed record", logging.FieldKey, key, logging.FieldError, err)
			return nil
		}
		if v != nil {
			*d = v
		}
	case **model.Session:
		var v *model.Session
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			s.log.Warn("ignoring malformed record", logging.FieldKey, key, logging.FieldError, err)
			return nil
		}
		if v != nil && v.AccountID != "" {
			*d = v
		}
	}
	return nil
}

// normalize fills in IDs that only appear as map keys.
func (s *Store) normalize() {
	for k, a := range s.accounts {
		if a.ID == "" {
			a.ID = k
			s.accounts[k] = a
		}
	}
	for k, t := range s.trackers {
		if t.ID == "" {
			t.ID = k
			s.trackers[k] = t
		}
	}
}

// Account returns the account with id.
func (s *Store) Account(id string) (model.Account, bool) {
	a, ok := s.accounts[id]
	return a, ok
}

// Accounts returns every account sorted by ID.
func (s *Store) Accounts() []model.Account {
	out := make([]model.Account, 0, len(s.accounts))
	for _, k := range slices.Sorted(maps.Keys(s.accounts)) {
		out = append(out, s.accounts[k])
	}
	return out
}

// Tracker returns a copy of the tracker with id.
func (s *Store) Tracker(id string) (model.Tracker, bool) {
	t, ok := s.trackers[id]
	if !ok {
		return model.Tracker{}, false
	}
	return t.Clone(), true
}

// Trackers returns copies of every tracker sorted by ID.
func (s *Store) Trackers() []model.Tracker {
	out := make([]model.Tracker, 0, len(s.trackers))
	for _, k := range slices.Sorted(maps.Keys(s.trackers)) {
		out = append(out, s.trackers[k].Clone())
	}
	return out
}

// Session returns the active session, if any.
func (s *Store) Session() (model.Session, bool) {
	if s.session == nil {
		return model.Session{}, false
	}
	return *s.session, true
}

// SaveAccount inserts or replaces a and persists all accounts.
func (s *Store) SaveAccount(ctx context.Context, a model.Account) error {
	prev, had := s.accounts[a.ID]
	s.accounts[a.ID] = a
	if err := s.write(ctx, KeyAccounts, s.accounts); err != nil {
		if had {
			s.accounts[a.ID] = prev
		} else {
			delete(s.accounts, a.ID)
		}
		return err
	}
	return nil
}

// SaveTracker inserts or replaces t and persists all trackers.
func (s *Store) SaveTracker(ctx context.Context, t model.Tracker) error {
	prev, had := s.trackers[t.ID]
	s.trackers[t.ID] = t.Clone()
	if err := s.write(ctx, KeyTrackers, s.trackers); err != nil {
		if had {
			s.trackers[t.ID] = prev
		} else {
			delete(s.trackers, t.ID)
		}
		return err
	}
	return nil
}

// DeleteTracker removes the tracker with id. Deleting a missing tracker is a no-op.
func (s *Store) DeleteTracker(ctx context.Context, id string) error {
	prev, had := s.trackers[id]
	if !had {
		return nil
	}
	delete(s.trackers, id)
	if err := s.write(ctx, KeyTrackers, s.trackers); err != nil {
		s.trackers[id] = prev
		return err
	}
	return nil
}

// SetSession makes sess the active session.
func (s *Store) SetSession(ctx context.Context, sess model.Session) error {
	prev := s.session
	s.session = &sess
	if err := s.write(ctx, KeySession, s.session); err != nil {
		s.session = prev
		return err
	}
	return nil
}

// ClearSession signs out.
func (s *Store) ClearSession(ctx context.Context) error {
	prev := s.session
	s.session = nil
	if err := s.write(ctx, KeySession, nil); err != nil {
		s.session = prev
		return err
	}
	return nil
}

func (s *Store) write(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	s.log.Debug("record written", logging.FieldKey, key)
	return nil
}

// Close closes the underlying kv store.
func (s *Store) Close() error {
	return s.kv.Close()
}
