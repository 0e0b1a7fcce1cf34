package services

import (
	"alphaDash/internal/models"
	"alphaDash/internal/session"
)

// Logger provides the minimal logging the services need.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

func loggerOrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}

// Live event types pushed to the browser.
const (
	EventAssignmentStatus = "assignment_status"
	EventCartUpdated      = "cart_updated"
	EventOrderPlaced      = "order_placed"
	EventLoggedOut        = "logged_out"
)

type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Publisher delivers an event to every live socket of a session.
type Publisher interface {
	Publish(sessionID string, event Event)
}

func publish(p Publisher, sessionID string, event Event) {
	if p == nil {
		return
	}
	p.Publish(sessionID, event)
}

// accessToken returns the platform token of an authenticated session.
func accessToken(sess *session.Session) (string, error) {
	if sess == nil || !sess.IsAuthenticated() {
		return "", models.ErrNotAuthenticated
	}
	return sess.AccessToken(), nil
}
