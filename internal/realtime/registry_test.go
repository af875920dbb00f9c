package realtime

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mindmaze/internal/protocol"
	"github.com/mcoot/mindmaze/internal/testutil"
)

type recordingConn struct {
	mu      sync.Mutex
	sent    []protocol.Notification
	closed  bool
	sendErr error
}

func (c *recordingConn) Send(n protocol.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, n)
	return nil
}

func (c *recordingConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *recordingConn) Sent() []protocol.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]protocol.Notification(nil), c.sent...)
}

func TestRegistryRegisterAndSend(t *testing.T) {
	r := NewRegistry(testutil.NopLogger())
	conn := &recordingConn{}

	prev := r.Register("alice", conn)
	assert.Nil(t, prev)
	assert.Equal(t, 1, r.Count())

	r.Send("alice", protocol.NewSearchCancelled())

	sent := conn.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, protocol.NotifySearchCancelled, sent[0].Kind())
}

func TestRegistryReplaceReturnsPrevious(t *testing.T) {
	r := NewRegistry(testutil.NopLogger())
	first := &recordingConn{}
	second := &recordingConn{}

	r.Register("alice", first)
	prev := r.Register("alice", second)

	assert.Same(t, first, prev)
	assert.Equal(t, 1, r.Count())

	got, ok := r.Lookup("alice")
	require.True(t, ok)
	assert.Same(t, second, got)
}

func TestRegistryRegisterSameConnTwice(t *testing.T) {
	r := NewRegistry(testutil.NopLogger())
	conn := &recordingConn{}

	r.Register("alice", conn)
	assert.Nil(t, r.Register("alice", conn))
}

func TestRegistryUnregisterIgnoresStaleConn(t *testing.T) {
	r := NewRegistry(testutil.NopLogger())
	first := &recordingConn{}
	second := &recordingConn{}

	r.Register("alice", first)
	r.Register("alice", second)

	assert.False(t, r.Unregister("alice", first))
	_, ok := r.Lookup("alice")
	assert.True(t, ok)

	assert.True(t, r.Unregister("alice", second))
	_, ok = r.Lookup("alice")
	assert.False(t, ok)
	assert.False(t, r.Unregister("alice", second))
}

func TestRegistrySendToUnknownIsSilent(t *testing.T) {
	r := NewRegistry(testutil.NopLogger())

	assert.NotPanics(t, func() {
		r.Send("nobody", protocol.NewError("x"))
	})
}

func TestRegistrySendSwallowsErrors(t *testing.T) {
	r := NewRegistry(testutil.NopLogger())
	conn := &recordingConn{sendErr: ErrSendBufferFull}
	r.Register("alice", conn)

	assert.NotPanics(t, func() {
		r.Send("alice", protocol.NewError("x"))
	})
	assert.Empty(t, conn.Sent())
}
