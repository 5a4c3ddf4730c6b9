package httpdto

// SendNotificationRequest is used for POST /v1/notify/users/:id and
// POST /v1/notify/broadcast
type SendNotificationRequest struct {
	Kind    string `json:"kind" binding:"required,oneof=new_post profile_update system"`
	Message string `json:"message" binding:"required"`
	Data    any    `json:"data,omitempty"`
}

// SendNotificationResponse reports whether a targeted send reached the user.
// A disconnected target is a successful response with Sent=false.
type SendNotificationResponse struct {
	Sent bool `json:"sent"`
}

// BroadcastResponse reports the number of connections the broadcast reached.
type BroadcastResponse struct {
	Delivered int `json:"delivered"`
}

// ConnectionsResponse lists currently connected identities.
type ConnectionsResponse struct {
	Identities []string `json:"identities"`
	Count      int      `json:"count"`
}

// ConnectionStatusResponse reports one identity's connection state.
type ConnectionStatusResponse struct {
	Identity  string `json:"identity"`
	Connected bool   `json:"connected"`
}
