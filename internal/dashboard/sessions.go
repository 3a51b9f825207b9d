package dashboard

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
)

const (
	sessionCookie      = "insights_session"
	defaultMaxSessions = 1024
)

// Sessions maps a viewer cookie to that viewer's Page. The oldest page is
// evicted once the limit is reached.
type Sessions struct {
	mu    sync.Mutex
	max   int
	pages map[string]*Page
	order []string
}

// NewSessions builds a session table holding at most max pages. A
// non-positive max uses the default.
func NewSessions(max int) *Sessions {
	if max <= 0 {
		max = defaultMaxSessions
	}
	return &Sessions{max: max, pages: make(map[string]*Page)}
}

// Page returns the page for the request's cookie, creating one and setting
// the cookie when needed.
func (s *Sessions) Page(w http.ResponseWriter, r *http.Request) *Page {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if p := s.lookup(c.Value); p != nil {
			return p
		}
	}

	id := uuid.NewString()
	p := s.create(id)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return p
}

// Len reports how many pages are held.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

func (s *Sessions) lookup(id string) *Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pages[id]
}

func (s *Sessions) create(id string) *Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.order) >= s.max {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.pages, oldest)
	}
	p := NewPage()
	s.pages[id] = p
	s.order = append(s.order, id)
	return p
}
