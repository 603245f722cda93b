package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// AppointmentSummary is the confirmation shown at the end of the workflow
type AppointmentSummary struct {
	ID              uint   `json:"id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	TechnicianName  string `json:"technician"`
	TechnicianPhone string `json:"phone"`
}

// WorkflowSession carries the in-progress support workflow for one browser
// session: the defect analysis, the verified customer, the selected
// technician and the scheduled appointment. It is cleared by an explicit
// reset or by expiry.
type WorkflowSession struct {
	Token          string              `json:"token"`
	DefectAnalysis *DefectAnalysis     `json:"defect_analysis,omitempty"`
	ImageKey       string              `json:"image_key,omitempty"`
	CustomerID     uint                `json:"customer_id,omitempty"`
	AddressUpdated bool                `json:"address_updated"`
	Appointment    *AppointmentSummary `json:"appointment,omitempty"`
}

// sessionTTL is the sliding idle timeout for workflow sessions
const sessionTTL = 2 * time.Hour

type sessionEntry struct {
	session  WorkflowSession
	lastSeen time.Time
}

// SessionStore is an in-memory store of workflow sessions keyed by opaque
// uuid tokens. Expired entries are purged lazily on access.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	ttl      time.Duration
	now      func() time.Time // injectable for expiry tests
}

var sessionStoreInstance *SessionStore

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*sessionEntry),
		ttl:      sessionTTL,
		now:      time.Now,
	}
}

// InitSessionStore initializes the global session store
func InitSessionStore() *SessionStore {
	sessionStoreInstance = NewSessionStore()
	return sessionStoreInstance
}

// GetSessionStore returns the global session store instance
func GetSessionStore() *SessionStore {
	return sessionStoreInstance
}

// SetSessionStore sets the session store instance (primarily for testing)
func SetSessionStore(store *SessionStore) {
	sessionStoreInstance = store
}

// Create starts a new workflow session and returns its token
func (s *SessionStore) Create() WorkflowSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()

	token := uuid.NewString()
	entry := &sessionEntry{
		session:  WorkflowSession{Token: token},
		lastSeen: s.now(),
	}
	s.sessions[token] = entry
	return entry.session
}

// Get returns a copy of the session for the token, refreshing its idle
// timer. The second return is false for unknown or expired tokens.
func (s *SessionStore) Get(token string) (WorkflowSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()

	entry, ok := s.sessions[token]
	if !ok {
		return WorkflowSession{}, false
	}
	entry.lastSeen = s.now()
	return entry.session, true
}

// Put writes the session back under its token. Unknown tokens are ignored;
// the caller already holds a session obtained from Get or Create.
func (s *SessionStore) Put(session WorkflowSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[session.Token]
	if !ok {
		return
	}
	entry.session = session
	entry.lastSeen = s.now()
}

// Reset clears the workflow state for the token, keeping the session alive
// so the customer can schedule another appointment
func (s *SessionStore) Reset(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[token]
	if !ok {
		return
	}
	entry.session = WorkflowSession{Token: token}
	entry.lastSeen = s.now()
}

// purgeLocked drops sessions idle past the TTL. Caller holds the lock.
func (s *SessionStore) purgeLocked() {
	cutoff := s.now().Add(-s.ttl)
	for token, entry := range s.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(s.sessions, token)
		}
	}
}
