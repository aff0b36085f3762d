package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// Hub wraps the socket.io server and implements the services.Notifier
// interface. Clients join a per-profile room after connecting and receive
// community events (join requests, approvals, level-ups) in realtime.
type Hub struct {
	Server *socketio.Server
}

const profileRoomPrefix = "profile:"

// NewHub initializes the socket.io server and its room handlers.
func NewHub() *Hub {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("✅ Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "subscribe", func(c socketio.Conn, profileID string) {
		if profileID == "" {
			log.Println("❌ Invalid profileId in subscribe request")
			return
		}
		c.Join(profileRoomPrefix + profileID)
		log.Printf("👥 Socket %s subscribed to profile %s\n", c.ID(), profileID)
	})

	server.OnEvent("/", "unsubscribe", func(c socketio.Conn, profileID string) {
		if profileID != "" {
			c.Leave(profileRoomPrefix + profileID)
		}
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", c.ID(), reason)
	})

	return &Hub{Server: server}
}

// Notify broadcasts an event to every client subscribed to the profile's room.
func (h *Hub) Notify(profileID string, event string, payload interface{}) {
	h.Server.BroadcastToRoom("/", profileRoomPrefix+profileID, event, payload)
}
