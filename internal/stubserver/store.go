package stubserver

import (
	"sync"

	"github.com/google/uuid"

	"github.com/studenthelper/studenthelper/internal/models"
)

type user struct {
	id           string
	email        string
	passwordHash []byte
}

type scoreRecord struct {
	Subject string
	Score   int
	Total   int
}

// userState is everything the stub keeps per account. All of it lives in
// memory; restarting the server wipes it, which is fine for a dev backend.
type userState struct {
	events   map[string][]models.Event
	threads  []*models.ChatThread
	analyses map[string]models.Analysis
	scores   []scoreRecord
}

type memStore struct {
	mu           sync.Mutex
	usersByEmail map[string]*user
	usersByID    map[string]*user
	states       map[string]*userState
}

func newMemStore() *memStore {
	return &memStore{
		usersByEmail: make(map[string]*user),
		usersByID:    make(map[string]*user),
		states:       make(map[string]*userState),
	}
}

func (m *memStore) createUser(email string, passwordHash []byte) (*user, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.usersByEmail[email]; exists {
		return nil, false
	}

	u := &user{id: uuid.New().String(), email: email, passwordHash: passwordHash}
	m.usersByEmail[email] = u
	m.usersByID[u.id] = u
	m.states[u.id] = &userState{
		events:   make(map[string][]models.Event),
		analyses: make(map[string]models.Analysis),
	}
	return u, true
}

func (m *memStore) userByEmail(email string) *user {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usersByEmail[email]
}

func (m *memStore) userByID(id string) *user {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usersByID[id]
}

func (m *memStore) setPassword(userID string, passwordHash []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.usersByID[userID]
	if !ok {
		return false
	}
	u.passwordHash = passwordHash
	return true
}

// withState runs fn with the user's state under the store lock.
func (m *memStore) withState(userID string, fn func(*userState)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[userID]
	if !ok {
		return false
	}
	fn(st)
	return true
}

func (st *userState) findThread(id string) *models.ChatThread {
	for _, t := range st.threads {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (st *userState) deleteEvent(date, description string) bool {
	dayEvents := st.events[date]
	for i, ev := range dayEvents {
		if ev.Description == description {
			st.events[date] = append(dayEvents[:i], dayEvents[i+1:]...)
			if len(st.events[date]) == 0 {
				delete(st.events, date)
			}
			return true
		}
	}
	return false
}
