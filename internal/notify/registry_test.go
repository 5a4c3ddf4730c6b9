package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChannel is an in-memory Channel double recording every send and close.
type fakeChannel struct {
	mu         sync.Mutex
	state      ChannelState
	sent       [][]byte
	sendErr    error
	closeCalls int
	onTerm     func()
	terminated bool
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{state: StateOpen}
}

func (c *fakeChannel) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, data)
	return nil
}

func (c *fakeChannel) Close(code int, reason string) error {
	c.mu.Lock()
	c.closeCalls++
	c.state = StateClosed
	c.mu.Unlock()
	c.fireTerminate()
	return nil
}

func (c *fakeChannel) State() ChannelState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *fakeChannel) OnTerminate(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTerm = fn
}

func (c *fakeChannel) setState(s ChannelState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func (c *fakeChannel) fireTerminate() {
	c.mu.Lock()
	fn := c.onTerm
	fired := c.terminated
	c.terminated = true
	c.mu.Unlock()
	if !fired && fn != nil {
		fn()
	}
}

func (c *fakeChannel) sentFrames(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	frames := make([]map[string]any, 0, len(c.sent))
	for _, raw := range c.sent {
		var m map[string]any
		require.NoError(t, json.Unmarshal(raw, &m))
		frames = append(frames, m)
	}
	return frames
}

func TestRegisterMakesIdentityConnected(t *testing.T) {
	r := NewRegistry(nil)
	ch := newFakeChannel()

	r.Register("alice", ch)

	assert.True(t, r.IsConnected("alice"))
	assert.Equal(t, 1, r.ConnectionCount())
	assert.ElementsMatch(t, []string{"alice"}, r.ListConnectedIdentities())
}

func TestRegisterSendsWelcomeNotification(t *testing.T) {
	r := NewRegistry(nil)
	ch := newFakeChannel()

	r.Register("alice", ch)

	frames := ch.sentFrames(t)
	require.Len(t, frames, 1)
	assert.Equal(t, "system", frames[0]["kind"])
	assert.Equal(t, "connected", frames[0]["message"])
	assert.Equal(t, "alice", frames[0]["identity"])
	assert.NotEmpty(t, frames[0]["delivered_at"])
}

func TestRegisterReplacesExistingConnection(t *testing.T) {
	r := NewRegistry(nil)
	c1 := newFakeChannel()
	c2 := newFakeChannel()

	r.Register("alice", c1)
	require.Equal(t, 1, r.ConnectionCount())

	r.Register("alice", c2)

	assert.Equal(t, 1, c1.closeCalls, "replaced channel must be closed")
	assert.Equal(t, 1, r.ConnectionCount())
	assert.True(t, r.IsConnected("alice"))

	// Sends now flow to the replacement, not the old channel.
	delivered := r.SendToIdentity("alice", Payload{Kind: KindSystem, Message: "ping"})
	assert.True(t, delivered)
	assert.Len(t, c2.sentFrames(t), 2) // welcome + ping
	assert.Len(t, c1.sentFrames(t), 1) // welcome only
}

func TestStaleTerminationDoesNotEvictReplacement(t *testing.T) {
	r := NewRegistry(nil)
	c1 := newFakeChannel()
	c2 := newFakeChannel()

	r.Register("alice", c1)
	r.Register("alice", c2)

	// A late signal from the old channel must not clobber the new entry.
	c1.fireTerminate()

	assert.True(t, r.IsConnected("alice"))
	assert.Equal(t, 1, r.ConnectionCount())
}

func TestRemoveIgnoresChannelMismatch(t *testing.T) {
	r := NewRegistry(nil)
	current := newFakeChannel()
	stale := newFakeChannel()

	r.Register("alice", current)
	r.Remove("alice", stale)

	assert.True(t, r.IsConnected("alice"))
}

func TestRemoveIsIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	ch := newFakeChannel()

	r.Register("alice", ch)
	r.Remove("alice", ch)
	r.Remove("alice", ch)

	assert.False(t, r.IsConnected("alice"))
	assert.Equal(t, 0, r.ConnectionCount())
}

func TestSendToUnregisteredIdentity(t *testing.T) {
	r := NewRegistry(nil)

	delivered := r.SendToIdentity("carol", Payload{Kind: KindSystem, Message: "hi"})

	assert.False(t, delivered)
	assert.Equal(t, 0, r.ConnectionCount())
}

func TestSendToNotOpenChannelEvictsEntry(t *testing.T) {
	r := NewRegistry(nil)
	ch := newFakeChannel()

	r.Register("alice", ch)
	ch.setState(StateClosed)

	delivered := r.SendToIdentity("alice", Payload{Kind: KindSystem, Message: "hi"})

	assert.False(t, delivered)
	assert.False(t, r.IsConnected("alice"))
}

func TestSendFailureEvictsEntry(t *testing.T) {
	r := NewRegistry(nil)
	ch := newFakeChannel()

	r.Register("alice", ch)
	ch.sendErr = errors.New("broken pipe")

	delivered := r.SendToIdentity("alice", Payload{Kind: KindSystem, Message: "hi"})

	assert.False(t, delivered)
	assert.False(t, r.IsConnected("alice"))
}

func TestBroadcastDeliversToAllConnected(t *testing.T) {
	r := NewRegistry(nil)
	alice := newFakeChannel()
	bob := newFakeChannel()
	r.Register("alice", alice)
	r.Register("bob", bob)

	count := r.Broadcast(Payload{Kind: KindSystem, Message: "hi"}, "")

	assert.Equal(t, 2, count)
	for _, ch := range []*fakeChannel{alice, bob} {
		frames := ch.sentFrames(t)
		require.Len(t, frames, 2) // welcome + broadcast
		assert.Equal(t, "hi", frames[1]["message"])
		assert.NotEmpty(t, frames[1]["delivered_at"])
	}
}

func TestBroadcastExcludesIdentity(t *testing.T) {
	r := NewRegistry(nil)
	alice := newFakeChannel()
	bob := newFakeChannel()
	carol := newFakeChannel()
	r.Register("alice", alice)
	r.Register("bob", bob)
	r.Register("carol", carol)

	count := r.Broadcast(Payload{Kind: KindNewPost, Message: "new post"}, "bob")

	assert.Equal(t, 2, count)
	assert.Len(t, bob.sentFrames(t), 1, "excluded identity must only have the welcome frame")
	assert.Len(t, alice.sentFrames(t), 2)
	assert.Len(t, carol.sentFrames(t), 2)
}

func TestBroadcastToleratesDeadRecipients(t *testing.T) {
	r := NewRegistry(nil)
	alive := newFakeChannel()
	dead := newFakeChannel()
	r.Register("alice", alive)
	r.Register("bob", dead)
	dead.setState(StateClosed)

	count := r.Broadcast(Payload{Kind: KindSystem, Message: "hi"}, "")

	assert.Equal(t, 1, count)
	assert.True(t, r.IsConnected("alice"))
	assert.False(t, r.IsConnected("bob"))
}

func TestReapInactiveClosesAndRemoves(t *testing.T) {
	r := NewRegistry(nil)
	alice := newFakeChannel()
	bob := newFakeChannel()
	r.Register("alice", alice)
	r.Register("bob", bob)

	alice.setState(StateClosed)
	r.ReapInactive()

	assert.False(t, r.IsConnected("alice"))
	assert.GreaterOrEqual(t, alice.closeCalls, 1, "reaped channel must receive a close call")
	assert.True(t, r.IsConnected("bob"))
	assert.Equal(t, 0, bob.closeCalls)
}

func TestTerminationSignalRemovesEntry(t *testing.T) {
	r := NewRegistry(nil)
	ch := newFakeChannel()

	r.Register("alice", ch)
	ch.fireTerminate()

	assert.False(t, r.IsConnected("alice"))
}

func TestConcurrentRegisterSendRemove(t *testing.T) {
	r := NewRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		identity := fmt.Sprintf("user-%d", i%4)
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := newFakeChannel()
			r.Register(identity, ch)
			r.SendToIdentity(identity, Payload{Kind: KindSystem, Message: "hi"})
			r.Broadcast(Payload{Kind: KindSystem, Message: "fanout"}, identity)
			r.Remove(identity, ch)
		}()
	}
	wg.Wait()

	r.ReapInactive()
	assert.LessOrEqual(t, r.ConnectionCount(), 4)
}
