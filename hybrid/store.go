package hybrid

import "sync"

// keyStore guards the live key pairs. Signing holds the read lock for the
// whole operation, so rotation (which takes the write lock) only ever swaps
// a key after in-flight uses finish.
type keyStore struct {
	mu   sync.RWMutex
	keys map[string]*KeyPair
}

func newKeyStore() *keyStore {
	return &keyStore{keys: make(map[string]*KeyPair)}
}

func (s *keyStore) put(kp *KeyPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[kp.ID] = kp
}

func (s *keyStore) get(id string) (*KeyPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kp, ok := s.keys[id]
	return kp, ok
}

func (s *keyStore) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, id)
}

func (s *keyStore) ids() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.keys))
	for id := range s.keys {
		out = append(out, id)
	}
	return out
}

func (s *keyStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// withRead runs fn on the key pair while holding the read lock.
func (s *keyStore) withRead(id string, fn func(*KeyPair) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kp, ok := s.keys[id]
	if !ok {
		return errKeyNotFound(id)
	}
	return fn(kp)
}

// replace swaps the key pair stored under id, keeping the id stable.
func (s *keyStore) replace(id string, kp *KeyPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kp.ID = id
	s.keys[id] = kp
}
