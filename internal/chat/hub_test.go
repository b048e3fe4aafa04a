package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveWithin(t *testing.T, ch chan []byte, d time.Duration) []byte {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "send channel closed unexpectedly")
		return msg
	case <-time.After(d):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	a := &client{id: "a", send: make(chan []byte, 4)}
	b := &client{id: "b", send: make(chan []byte, 4)}
	h.register <- a
	h.register <- b

	h.Broadcast([]byte("hello"))

	assert.Equal(t, "hello", string(receiveWithin(t, a.send, time.Second)))
	assert.Equal(t, "hello", string(receiveWithin(t, b.send, time.Second)))
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	c := &client{id: "c", send: make(chan []byte, 1)}
	h.register <- c
	h.unregister <- c.id

	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed after unregister")
	}

	// Broadcasting to an empty registry must not block.
	h.Broadcast([]byte("nobody listening"))
}

func TestHubDropsMessagesForSlowClients(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	slow := &client{id: "slow", send: make(chan []byte, 1)}
	fast := &client{id: "fast", send: make(chan []byte, 8)}
	h.register <- slow
	h.register <- fast

	h.Broadcast([]byte("one"))
	h.Broadcast([]byte("two"))
	h.Broadcast([]byte("three"))

	// The fast client sees everything.
	assert.Equal(t, "one", string(receiveWithin(t, fast.send, time.Second)))
	assert.Equal(t, "two", string(receiveWithin(t, fast.send, time.Second)))
	assert.Equal(t, "three", string(receiveWithin(t, fast.send, time.Second)))

	// The slow client got the first message; later ones may have been
	// dropped but the hub never stalled.
	assert.Equal(t, "one", string(receiveWithin(t, slow.send, time.Second)))
}

func TestHubStopDisconnectsEveryone(t *testing.T) {
	h := NewHub()
	go h.Run()

	c := &client{id: "c", send: make(chan []byte, 1)}
	h.register <- c

	h.Stop()

	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on shutdown")
	}

	// Broadcast after shutdown is a no-op rather than a deadlock.
	h.Broadcast([]byte("late"))
}
