package service

// Broadcaster pushes interview events to a session's live connection
type Broadcaster interface {
	BroadcastToSession(sessionID string, event string, payload interface{})
}
