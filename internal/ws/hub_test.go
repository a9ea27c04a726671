package ws

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHub_RegisterAndBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(ctx)
	go hub.Run()

	userID := uuid.New()
	client := NewClient(nil, hub, userID)
	hub.Register(client)

	err := hub.BroadcastToUser(userID, "withdrawal_status", map[string]string{"status": "approved"})
	assert.NoError(t, err)

	select {
	case raw := <-client.send:
		assert.Contains(t, string(raw), `"type":"withdrawal_status"`)
		assert.Contains(t, string(raw), `"approved"`)
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
}

func TestHub_RegisterAfterShutdownReturns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(ctx)

	done := make(chan struct{})
	go func() {
		hub.Run()
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	// With the loop gone nobody drains the channels. A late connect or
	// disconnect must still return instead of parking its goroutine.
	returned := make(chan struct{})
	go func() {
		client := NewClient(nil, hub, uuid.New())
		hub.Register(client)
		hub.Unregister(client)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Register blocked after shutdown")
	}
}
