package web

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"vote-dashboard-go/internal/dataset"
)

const (
	sessionCookie = "session_id"

	// sessions that never loaded or uploaded anything expire sooner
	unusedSessionIdle  = 10 * time.Minute
	defaultMaxSessions = 1000
)

// Session holds one browser's uploaded override and loaded collection.
type Session struct {
	ID string

	mu         sync.Mutex
	upload     []byte
	uploadName string
	dataset    *dataset.Dataset
	lastSeen   time.Time
	used       atomic.Bool
}

// Dataset loads the session's collection on first use. Failed loads are not
// cached so the next request tries again.
func (s *Session) Dataset(ctx context.Context, loader *dataset.Loader) (*dataset.Dataset, error) {
	s.used.Store(true)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataset != nil {
		return s.dataset, nil
	}
	ds, err := loader.Load(ctx, s.upload, s.uploadName)
	if err != nil {
		return nil, err
	}
	s.dataset = ds
	return ds, nil
}

func (s *Session) SetUpload(name string, payload []byte) {
	s.used.Store(true)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = payload
	s.uploadName = name
	s.dataset = nil
}

func (s *Session) ClearUpload() {
	s.SetUpload("", nil)
}

// Reload drops the cached collection.
func (s *Session) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataset = nil
}

func (s *Session) HasUpload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upload != nil
}

// SessionStore keeps at most max sessions. When full, the least recently
// seen session is evicted to make room.
type SessionStore struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	idle       time.Duration
	unusedIdle time.Duration
	max        int
	now        func() time.Time
}

func NewSessionStore(idle time.Duration) *SessionStore {
	return &SessionStore{
		sessions:   map[string]*Session{},
		idle:       idle,
		unusedIdle: min(idle, unusedSessionIdle),
		max:        defaultMaxSessions,
		now:        time.Now,
	}
}

// Get returns the session named by the request cookie, creating one and
// setting the cookie when needed.
func (st *SessionStore) Get(w http.ResponseWriter, r *http.Request) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	st.prune(now)

	if c, err := r.Cookie(sessionCookie); err == nil {
		if s, ok := st.sessions[c.Value]; ok {
			s.lastSeen = now
			return s
		}
	}

	if st.max > 0 && len(st.sessions) >= st.max {
		st.evictOldest()
	}
	s := &Session{ID: uuid.New().String(), lastSeen: now}
	st.sessions[s.ID] = s
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

func (st *SessionStore) prune(now time.Time) {
	if st.idle <= 0 {
		return
	}
	for id, s := range st.sessions {
		limit := st.idle
		if !s.used.Load() {
			limit = st.unusedIdle
		}
		if now.Sub(s.lastSeen) > limit {
			delete(st.sessions, id)
		}
	}
}

func (st *SessionStore) evictOldest() {
	var oldest *Session
	for _, s := range st.sessions {
		if oldest == nil || s.lastSeen.Before(oldest.lastSeen) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(st.sessions, oldest.ID)
	}
}
