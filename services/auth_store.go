package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Auth roles recognized by the portal
const (
	RoleTechnician = "technician"
	RoleAdmin      = "admin"
)

// AuthSession is an authenticated identity behind a bearer token
type AuthSession struct {
	Token        string
	Role         string
	TechnicianID uint // set for technician sessions only
}

// authTTL is the sliding idle timeout for login sessions
const authTTL = 8 * time.Hour

type authEntry struct {
	session  AuthSession
	lastSeen time.Time
}

// AuthStore issues and resolves bearer tokens for the technician and admin
// portals. Tokens are opaque uuids held in memory.
type AuthStore struct {
	mu      sync.Mutex
	entries map[string]*authEntry
	ttl     time.Duration
	now     func() time.Time
}

var authStoreInstance *AuthStore

// NewAuthStore creates an empty auth store
func NewAuthStore() *AuthStore {
	return &AuthStore{
		entries: make(map[string]*authEntry),
		ttl:     authTTL,
		now:     time.Now,
	}
}

// InitAuthStore initializes the global auth store
func InitAuthStore() *AuthStore {
	authStoreInstance = NewAuthStore()
	return authStoreInstance
}

// GetAuthStore returns the global auth store instance
func GetAuthStore() *AuthStore {
	return authStoreInstance
}

// SetAuthStore sets the auth store instance (primarily for testing)
func SetAuthStore(store *AuthStore) {
	authStoreInstance = store
}

// Issue creates a login session and returns its bearer token
func (s *AuthStore) Issue(role string, technicianID uint) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()

	token := uuid.NewString()
	s.entries[token] = &authEntry{
		session:  AuthSession{Token: token, Role: role, TechnicianID: technicianID},
		lastSeen: s.now(),
	}
	return token
}

// Resolve returns the session behind a bearer token, refreshing its idle
// timer. Unknown or expired tokens return false.
func (s *AuthStore) Resolve(token string) (AuthSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()

	entry, ok := s.entries[token]
	if !ok {
		return AuthSession{}, false
	}
	entry.lastSeen = s.now()
	return entry.session, true
}

// Revoke drops a login session
func (s *AuthStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
}

func (s *AuthStore) purgeLocked() {
	cutoff := s.now().Add(-s.ttl)
	for token, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(s.entries, token)
		}
	}
}
