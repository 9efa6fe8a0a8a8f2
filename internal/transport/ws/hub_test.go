package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func receive(t *testing.T, conn *Connection) *Message {
	t.Helper()
	select {
	case data := <-conn.Send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal envelope: %v", err)
		}
		return &msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a message")
		return nil
	}
}

func TestBroadcastReachesOnlyItsSession(t *testing.T) {
	hub := NewHub()

	target := &Connection{SessionID: "s_one", Send: make(chan []byte, 4), Hub: hub}
	other := &Connection{SessionID: "s_two", Send: make(chan []byte, 4), Hub: hub}
	hub.Register(target)
	hub.Register(other)

	hub.BroadcastToSession("s_one", string(MsgSegmentAdvanced), map[string]string{"segmentId": "challenges"})

	msg := receive(t, target)
	if msg.Type != MsgSegmentAdvanced {
		t.Errorf("expected %s, got %s", MsgSegmentAdvanced, msg.Type)
	}
	var payload map[string]string
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload["segmentId"] != "challenges" {
		t.Errorf("unexpected payload %v", payload)
	}

	select {
	case data := <-other.Send:
		t.Errorf("other session received a message: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBroadcastToAbsentSessionIsDropped(t *testing.T) {
	hub := NewHub()

	// Nothing registered; must not block or panic.
	hub.BroadcastToSession("s_ghost", string(MsgAIThinking), map[string]int{"turn": 1})
}

func TestUnregisterClosesConnection(t *testing.T) {
	hub := NewHub()

	conn := &Connection{SessionID: "s_one", Send: make(chan []byte, 4), Hub: hub}
	hub.Register(conn)
	hub.Unregister(conn)

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Error("expected the send channel closed, got a message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the channel to close")
	}

	// Events for the departed session are dropped.
	hub.BroadcastToSession("s_one", string(MsgEvaluationResult), nil)
}
