package services

// Notifier delivers realtime events to a profile's connected clients. The
// socket hub implements it; services treat delivery as fire-and-forget and
// never fail an operation over a notification.
type Notifier interface {
	Notify(profileID string, event string, payload interface{})
}

// NoopNotifier discards events. Used in tests and when the hub is disabled.
type NoopNotifier struct{}

func (NoopNotifier) Notify(string, string, interface{}) {}

// Notification event names
const (
	EventJoinRequest     = "join_request"
	EventRequestApproved = "request_approved"
	EventRequestRejected = "request_rejected"
	EventMemberLeft      = "member_left"
	EventLevelUp         = "level_up"
)
