package session

import (
	"context"
	"sync"
)

// MemoryStore keeps one session in process memory.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	delete(s.data, key)
	return v, ok, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	return nil
}

// MemoryProvider keeps one MemoryStore per session id. A session is only
// allocated by its first write; reads of unknown sessions allocate nothing.
type MemoryProvider struct {
	mu       sync.Mutex
	sessions map[string]*MemoryStore
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{sessions: make(map[string]*MemoryStore)}
}

func (p *MemoryProvider) Open(id string) Store {
	return memorySession{p: p, id: id}
}

func (p *MemoryProvider) Destroy(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, id)
	return nil
}

// Len is the number of sessions held.
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

func (p *MemoryProvider) lookup(id string, create bool) *MemoryStore {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[id]
	if !ok && create {
		s = NewMemoryStore()
		p.sessions[id] = s
	}
	return s
}

type memorySession struct {
	p  *MemoryProvider
	id string
}

func (s memorySession) Get(ctx context.Context, key string) (string, bool, error) {
	st := s.p.lookup(s.id, false)
	if st == nil {
		return "", false, nil
	}
	return st.Get(ctx, key)
}

func (s memorySession) Put(ctx context.Context, key, value string) error {
	return s.p.lookup(s.id, true).Put(ctx, key, value)
}

func (s memorySession) Pop(ctx context.Context, key string) (string, bool, error) {
	st := s.p.lookup(s.id, false)
	if st == nil {
		return "", false, nil
	}
	return st.Pop(ctx, key)
}

func (s memorySession) Clear(ctx context.Context) error {
	st := s.p.lookup(s.id, false)
	if st == nil {
		return nil
	}
	return st.Clear(ctx)
}
