// Package storefakes provides an in-memory tokens.Store for tests.
package storefakes

import (
	"sync"

	"github.com/vetcare/portal/tokens"
)

// FakeStore is an in-memory implementation of tokens.Store
type FakeStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

// NewFakeStore creates a new in-memory token store
func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (s *FakeStore) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.access != ""
}

func (s *FakeStore) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = token
	return nil
}

func (s *FakeStore) ClearAccessToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	return nil
}

func (s *FakeStore) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh, s.refresh != ""
}

func (s *FakeStore) SetRefreshToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = token
	return nil
}

func (s *FakeStore) ClearRefreshToken() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh = ""
	return nil
}

var _ tokens.Store = (*FakeStore)(nil)
