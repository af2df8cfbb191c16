// Package memstore keeps the bearer token in process memory. The token lives exactly as
// long as the process, which is the session scope of the client: nothing is written to disk.
package memstore

import (
	"sync"

	"github.com/jrsteele09/go-efact-client/token"
)

var _ token.Store = (*Store)(nil)

type Store struct {
	slots map[string]string
	lock  sync.RWMutex
}

func New() *Store {
	return &Store{slots: make(map[string]string)}
}

// NewWithToken returns a store that already holds raw, as when a session is resumed.
func NewWithToken(raw string) *Store {
	s := New()
	if raw != "" {
		s.Save(raw)
	}
	return s
}

func (s *Store) Save(raw string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.slots[token.StorageKey] = raw
}

func (s *Store) Get() (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	raw, ok := s.slots[token.StorageKey]
	return raw, ok
}

func (s *Store) Remove() {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.slots, token.StorageKey)
}

func (s *Store) Has() bool {
	_, ok := s.Get()
	return ok
}
