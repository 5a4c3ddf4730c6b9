package services

import (
	"pulseboard/internal/domain/post"
	"pulseboard/internal/domain/user"
	"pulseboard/internal/notify"
)

// NotificationDispatcher is the slice of the connection registry the
// business services push through. *notify.Registry satisfies it.
type NotificationDispatcher interface {
	SendToIdentity(identity string, p notify.Payload) bool
	Broadcast(p notify.Payload, exclude string) int
}

// Notifier translates domain events into notification payloads. Delivery is
// fire-and-forget: a disconnected audience is not an error.
type Notifier struct {
	dispatcher NotificationDispatcher
}

func NewNotifier(dispatcher NotificationDispatcher) *Notifier {
	return &Notifier{dispatcher: dispatcher}
}

// PostCreated fans out a new-post notification to everyone but the author.
func (n *Notifier) PostCreated(author user.User, p post.Post) int {
	if n == nil || n.dispatcher == nil {
		return 0
	}
	return n.dispatcher.Broadcast(notify.Payload{
		Kind:     notify.KindNewPost,
		Message:  author.DisplayName + " published a new post",
		Identity: author.ID.String(),
		Data: map[string]any{
			"post_id": p.ID.String(),
			"title":   p.Title,
		},
	}, author.ID.String())
}

// ProfileUpdated fans out a profile-update notification to everyone but the
// updated user.
func (n *Notifier) ProfileUpdated(u user.User) int {
	if n == nil || n.dispatcher == nil {
		return 0
	}
	return n.dispatcher.Broadcast(notify.Payload{
		Kind:     notify.KindProfileUpdate,
		Message:  u.DisplayName + " updated their profile",
		Identity: u.ID.String(),
	}, u.ID.String())
}
