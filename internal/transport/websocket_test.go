// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"vocalpitch/internal/detect"
)

func dialWithRetry(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatalf("dial %s: %v", url, err)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketPublisherBroadcast(t *testing.T) {
	pub := NewWebSocketPublisher("18473")
	defer pub.Close()

	conn := dialWithRetry(t, "ws://127.0.0.1:18473/state")
	defer conn.Close()

	state := detect.State{
		PitchHz:        220,
		Note:           "A3",
		CentsOff:       2,
		Voiced:         true,
		Detecting:      true,
		Method:         "yin",
		StabilityPct:   95,
		LastStableNote: "A3",
	}

	// The first send may land before the client registration finishes;
	// keep publishing until the message arrives. Publishes inside the
	// rate-limit window are dropped silently.
	received := make(chan detect.State, 1)
	go func() {
		var got detect.State
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if json.Unmarshal(payload, &got) == nil {
				received <- got
				return
			}
		}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := pub.Publish(state); err != nil {
			t.Fatalf("Publish: %v", err)
		}
		select {
		case got := <-received:
			if got != state {
				t.Errorf("received %+v, want %+v", got, state)
			}
			return
		case <-time.After(60 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatal("no state received")
		}
	}
}

func TestWebSocketPublisherNoClients(t *testing.T) {
	pub := NewWebSocketPublisher("18474")
	defer pub.Close()

	// Publishing with no connected clients must not error.
	if err := pub.Publish(detect.State{Detecting: true}); err != nil {
		t.Errorf("Publish without clients returned %v", err)
	}
}

func TestLogPublisherNeverErrors(t *testing.T) {
	var pub LogPublisher
	if err := pub.Publish(detect.State{Voiced: true, Note: "A4", PitchHz: 440}); err != nil {
		t.Errorf("Publish returned %v", err)
	}
	if err := pub.Publish(detect.State{}); err != nil {
		t.Errorf("Publish returned %v", err)
	}
	if err := pub.Close(); err != nil {
		t.Errorf("Close returned %v", err)
	}
}
