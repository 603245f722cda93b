package services

import "sync"

// SentMail records one message delivered through the mock mail service
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MockMailService is a mock implementation of MailService for testing
type MockMailService struct {
	Err error // returned by Send when set, to simulate relay failures

	mu   sync.Mutex
	sent []SentMail
}

// NewMockMailService creates a new mock mail service
func NewMockMailService() *MockMailService {
	return &MockMailService{}
}

// SetAsMockForTesting sets this mock as the global mail service instance
func (m *MockMailService) SetAsMockForTesting() {
	SetMailService(m)
}

// Send records the message instead of delivering it
func (m *MockMailService) Send(toEmail, subject, htmlBody string) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	m.sent = append(m.sent, SentMail{To: toEmail, Subject: subject, Body: htmlBody})
	m.mu.Unlock()
	return nil
}

// Sent returns a copy of the recorded messages
func (m *MockMailService) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// Clear removes all recorded messages
func (m *MockMailService) Clear() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}
