package notify

import (
	"encoding/json"
	"time"
)

// Kind is the closed set of notification categories.
type Kind string

const (
	KindNewPost       Kind = "new_post"
	KindProfileUpdate Kind = "profile_update"
	KindSystem        Kind = "system"
)

// Payload is what callers hand to the dispatcher. It is transmitted
// unchanged apart from the delivery timestamp the registry stamps on.
type Payload struct {
	Kind     Kind   `json:"kind"`
	Message  string `json:"message"`
	Identity string `json:"identity,omitempty"`
	Data     any    `json:"data,omitempty"`
}

// frame is the wire shape: the payload fields plus the server-assigned
// delivery timestamp.
type frame struct {
	Payload
	DeliveredAt string `json:"delivered_at"`
}

func encodeFrame(p Payload, at time.Time) ([]byte, error) {
	return json.Marshal(frame{
		Payload:     p,
		DeliveredAt: at.UTC().Format(time.RFC3339),
	})
}
