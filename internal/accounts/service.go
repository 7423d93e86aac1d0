package accounts

import (
	"github.com/biweekly-dev/biweekly/internal/model"
)

// Source lists stored accounts.
type Source interface {
	Accounts() []model.Account
}

// Service provides in-memory lookup over accounts.
type Service struct {
	byID map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byID := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}
	return &Service{byID: byID}
}

// Load builds a Service from everything src holds.
func Load(src Source) *Service {
	return NewService(src.Accounts())
}

// Get returns an account by ID.
func (s *Service) Get(id string) (model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exists reports whether an account ID exists.
func (s *Service) Exists(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Members resolves t's member IDs in membership order. IDs with no stored
// account come back with only the ID set.
func (s *Service) Members(t model.Tracker) []model.Account {
	result := make([]model.Account, 0, len(t.Members))
	for _, id := range t.Members {
		a, ok := s.byID[id]
		if !ok {
			a = model.Account{ID: id}
		}
		result = append(result, a)
	}
	return result
}

// DisplayName returns the account's name, or the ID if it has none.
func (s *Service) DisplayName(id string) string {
	if a, ok := s.byID[id]; ok && a.Name != "" {
		return a.Name
	}
	return id
}

// Author returns who added e. A stored account's display name wins over the
// name copied onto the entry, which covers entries from other devices.
func (s *Service) Author(e model.Entry) string {
	if _, ok := s.byID[e.AccountID]; ok {
		return s.DisplayName(e.AccountID)
	}
	if e.AccountName != "" {
		return e.AccountName
	}
	return e.AccountID
}
