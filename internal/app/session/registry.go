package session

import (
	"sync"
	"time"

	"promptworld/internal/domain/world"
)

// Session owns one world. mu serializes every read and write of the world,
// the plan and the tick.
type Session struct {
	mu sync.Mutex

	id        string
	prompt    string
	cfg       world.Config
	source    Source
	world     *world.World
	actions   []world.Action
	cursor    int
	tick      int
	createdAt time.Time
}

type Source string

const (
	SourceRandom    Source = "random"
	SourceGenerator Source = "generator"
)

type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*Session{}}
}

func (r *Registry) put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.id] = s
}

func (r *Registry) get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
