package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry owns the mapping from authenticated identity to the single live
// channel for that identity. Every mutation happens inside its lock, so no
// operation ever observes a half-applied change; sends run outside the lock
// so a slow socket cannot stall the registry.
//
// Dead connections are expected churn, not application errors: every failure
// in here is absorbed into entry removal plus a bool/count result.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Channel

	log *zap.Logger
	now func() time.Time
}

// NewRegistry builds an empty registry. Construct one per process and pass
// it to every collaborator that needs it.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		entries: make(map[string]Channel),
		log:     log,
		now:     time.Now,
	}
}

// Register inserts ch as the active connection for identity. An existing
// connection for the same identity is closed best-effort and replaced. The
// registry subscribes to the channel's termination signal so the entry is
// removed when the transport dies; the stored (identity, channel) pair is
// captured so a late signal from a replaced channel cannot evict its
// successor. A "connected" system notification is pushed through the normal
// send path. Register never fails.
func (r *Registry) Register(identity string, ch Channel) {
	r.mu.Lock()
	old := r.entries[identity]
	r.entries[identity] = ch
	r.mu.Unlock()

	if old != nil && old != ch {
		_ = old.Close(CloseNormal, "replaced by newer connection")
	}

	ch.OnTerminate(func() {
		r.Remove(identity, ch)
	})

	r.log.Info("connection registered", zap.String("identity", identity))

	r.SendToIdentity(identity, Payload{
		Kind:     KindSystem,
		Message:  "connected",
		Identity: identity,
	})
}

// Remove deletes the entry for identity only when the stored channel is the
// one given. A mismatch means a newer registration already took the slot and
// the signal is stale; it is silently ignored. Removing an absent identity
// is a no-op.
func (r *Registry) Remove(identity string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.entries[identity]; ok && cur == ch {
		delete(r.entries, identity)
	}
}

// SendToIdentity delivers payload to identity's channel, stamped with the
// delivery time. It reports false when the identity is not connected, the
// channel is not open, or the write fails; the latter two also evict the
// entry.
func (r *Registry) SendToIdentity(identity string, p Payload) bool {
	r.mu.RLock()
	ch, ok := r.entries[identity]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	if ch.State() != StateOpen {
		r.Remove(identity, ch)
		return false
	}

	data, err := encodeFrame(p, r.now())
	if err != nil {
		r.log.Warn("notification encode failed",
			zap.String("identity", identity),
			zap.String("kind", string(p.Kind)),
			zap.Error(err))
		r.Remove(identity, ch)
		return false
	}

	if err := ch.Send(data); err != nil {
		r.log.Warn("notification send failed",
			zap.String("identity", identity),
			zap.String("kind", string(p.Kind)),
			zap.Error(err))
		r.Remove(identity, ch)
		return false
	}

	return true
}

// Broadcast sends payload to every connected identity except exclude (pass
// "" for no exclusion) and returns the number of successful deliveries.
// Recipients are independent: one dead connection never aborts the rest.
func (r *Registry) Broadcast(p Payload, exclude string) int {
	count := 0
	for _, identity := range r.ListConnectedIdentities() {
		if exclude != "" && identity == exclude {
			continue
		}
		if r.SendToIdentity(identity, p) {
			count++
		}
	}
	return count
}

// ListConnectedIdentities returns a snapshot of the currently registered
// identities. No ordering is guaranteed.
func (r *Registry) ListConnectedIdentities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identities := make([]string, 0, len(r.entries))
	for identity := range r.entries {
		identities = append(identities, identity)
	}
	return identities
}

// ConnectionCount returns the number of registered identities.
func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// IsConnected reports whether identity currently has an entry.
func (r *Registry) IsConnected(identity string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[identity]
	return ok
}

// ReapInactive closes and evicts every entry whose channel is no longer
// open. It is meant to run on a periodic timer as a backstop for
// connections whose termination signal was missed.
func (r *Registry) ReapInactive() {
	r.mu.RLock()
	stale := make(map[string]Channel)
	for identity, ch := range r.entries {
		if ch.State() != StateOpen {
			stale[identity] = ch
		}
	}
	r.mu.RUnlock()

	for identity, ch := range stale {
		_ = ch.Close(CloseGoingAway, "inactive connection reaped")
		r.Remove(identity, ch)
		r.log.Info("reaped inactive connection", zap.String("identity", identity))
	}
}
