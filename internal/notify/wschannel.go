package notify

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

var ErrChannelNotOpen = errors.New("channel not open")

const writeWait = 10 * time.Second

// WSChannel adapts a gorilla websocket connection to the Channel interface.
// gorilla exposes no readyState, so the state is tracked here: Open from
// construction until Close is called or the read loop observes a transport
// error.
type WSChannel struct {
	conn  *websocket.Conn
	state atomic.Int32

	writeMu sync.Mutex // serializes writes to conn

	termMu     sync.Mutex
	terminated bool
	onTerm     func()
}

// NewWSChannel wraps an already-upgraded connection. The caller must run
// ReadLoop for close/error detection to work.
func NewWSChannel(conn *websocket.Conn) *WSChannel {
	c := &WSChannel{conn: conn}
	c.state.Store(int32(StateOpen))
	return c
}

func (c *WSChannel) Send(data []byte) error {
	if c.State() != StateOpen {
		return ErrChannelNotOpen
	}
	c.writeMu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err := c.conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		c.terminate()
	}
	return err
}

func (c *WSChannel) Close(code int, reason string) error {
	c.state.Store(int32(StateClosing))
	c.writeMu.Lock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	err := c.conn.Close()
	c.writeMu.Unlock()
	c.terminate()
	return err
}

func (c *WSChannel) State() ChannelState {
	return ChannelState(c.state.Load())
}

func (c *WSChannel) OnTerminate(fn func()) {
	c.termMu.Lock()
	if c.terminated {
		c.termMu.Unlock()
		fn()
		return
	}
	c.onTerm = fn
	c.termMu.Unlock()
}

// ReadLoop blocks reading (and discarding) inbound frames until the peer
// closes or the transport errors, then fires the termination listener. The
// connection is push-only: clients have no inbound protocol.
func (c *WSChannel) ReadLoop() {
	defer c.terminate()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// terminate flips the state to Closed and fires the listener exactly once.
func (c *WSChannel) terminate() {
	c.state.Store(int32(StateClosed))
	c.termMu.Lock()
	fn := c.onTerm
	fired := c.terminated
	c.terminated = true
	c.termMu.Unlock()
	if !fired && fn != nil {
		fn()
	}
}
