package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/windwardaviation/rescue10-aar/internal/config"
	"github.com/windwardaviation/rescue10-aar/internal/domain"
)

var ErrNotFound = errors.New("session not found")

// Store holds the live sessions for this process. Sessions are purely
// in-memory: nothing survives a restart, and Delete discards the draft.
type Store struct {
	sectionIDs []string
	Now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore builds a store bound to the static section catalog.
func NewStore(cfg *config.Config) *Store {
	return &Store{
		sectionIDs: cfg.SectionIDs(),
		Now:        time.Now,
		sessions:   map[string]*Session{},
	}
}

// Create starts a new session with a fresh default report at step 0.
func (st *Store) Create() *Session {
	now := st.Now
	if now == nil {
		now = time.Now
	}
	s := &Session{
		ID:         uuid.NewString(),
		sectionIDs: st.sectionIDs,
		now:        now,
		step:       StepMissionDetails,
		draft:      domain.NewReport(now()),
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session for id, or ErrNotFound.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete ends a session and discards its draft.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
