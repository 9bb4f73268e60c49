package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	writeErr error
	closed   bool
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.messages))
	copy(out, c.messages)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestHub_BroadcastsToRegisteredClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := &fakeConn{}
	hub.Register <- conn

	hub.Publish(Event{Type: "stock_update", Action: "distributed", Entity: "product", EntityID: "p1"})

	waitFor(t, func() bool { return len(conn.received()) == 1 })

	var evt Event
	require.NoError(t, json.Unmarshal(conn.received()[0], &evt))
	assert.Equal(t, "stock_update", evt.Type)
	assert.Equal(t, "p1", evt.EntityID)
}

func TestHub_DropsBrokenClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	good := &fakeConn{}
	broken := &fakeConn{writeErr: errors.New("write: broken pipe")}
	hub.Register <- good
	hub.Register <- broken

	hub.Publish(Event{Type: "sale_update", Action: "completed", Entity: "sale", EntityID: "s1"})

	waitFor(t, func() bool { return len(good.received()) == 1 })
	waitFor(t, func() bool {
		broken.mu.Lock()
		defer broken.mu.Unlock()
		return broken.closed
	})

	// The broken client stops receiving further events
	hub.Publish(Event{Type: "sale_update", Action: "completed", Entity: "sale", EntityID: "s2"})
	waitFor(t, func() bool { return len(good.received()) == 2 })
	assert.Empty(t, broken.received())
}

func TestHub_Unregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	conn := &fakeConn{}
	hub.Register <- conn
	hub.Unregister <- conn

	waitFor(t, func() bool {
		conn.mu.Lock()
		defer conn.mu.Unlock()
		return conn.closed
	})

	hub.Publish(Event{Type: "stock_update"})
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, conn.received())
}
