package notify

// ChannelState mirrors the ready states a duplex transport reports. The
// registry only ever treats StateOpen as "accepting sends right now".
type ChannelState int32

const (
	StateConnecting ChannelState = iota
	StateOpen
	StateClosing
	StateClosed
)

func (s ChannelState) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateOpen:
		return "OPEN"
	case StateClosing:
		return "CLOSING"
	case StateClosed:
		return "CLOSED"
	}
	return "UNKNOWN"
}

// Close codes handed to Channel.Close. Values follow RFC 6455.
const (
	CloseNormal          = 1000
	CloseGoingAway       = 1001
	ClosePolicyViolation = 1008
)

// Channel is the duplex connection handle the registry exclusively owns for
// the lifetime of an entry. Implementations must make Send/Close safe for
// concurrent use and must invoke the termination listener at most once, on
// transport close or error.
type Channel interface {
	// Send writes one serialized message. The returned error is the
	// transport's own, observed synchronously.
	Send(data []byte) error

	// Close tears the connection down. Closing an already-dead channel
	// must not block; errors are advisory.
	Close(code int, reason string) error

	// State reports the channel's current ready state.
	State() ChannelState

	// OnTerminate registers a listener invoked once when the channel
	// closes or errors. A channel that already terminated invokes the
	// listener immediately.
	OnTerminate(fn func())
}
