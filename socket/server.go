package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"

	"bartr_server/models"
)

// Server wraps the socket.io server and pushes match events into per-match
// rooms. Clients join the room for each of their matches after connecting.
type Server struct {
	io *socketio.Server
}

// NewServer builds the socket.io server and registers the room events.
func NewServer() *Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(conn socketio.Conn) error {
		log.Printf("🔌 Socket connected: %s", conn.ID())
		return nil
	})

	io.OnEvent("/", "joinMatch", func(conn socketio.Conn, matchID string) {
		conn.Join(matchID)
		log.Printf("👥 Socket %s joined match room %s", conn.ID(), matchID)
	})

	io.OnEvent("/", "leaveMatch", func(conn socketio.Conn, matchID string) {
		conn.Leave(matchID)
	})

	io.OnError("/", func(conn socketio.Conn, err error) {
		log.Printf("❌ Socket error: %v", err)
	})

	io.OnDisconnect("/", func(conn socketio.Conn, reason string) {
		log.Printf("🔌 Socket disconnected: %s (%s)", conn.ID(), reason)
	})

	return &Server{io: io}
}

// Serve runs the socket.io event loop until Close.
func (s *Server) Serve() error {
	return s.io.Serve()
}

// Close shuts the event loop down.
func (s *Server) Close() error {
	return s.io.Close()
}

// Handler exposes the HTTP endpoint to mount at /socket.io/.
func (s *Server) Handler() *socketio.Server {
	return s.io
}

// PublishNewMessage fans a stored message out to the match room.
func (s *Server) PublishNewMessage(matchID string, message models.Message) {
	s.io.BroadcastToRoom("/", matchID, "newMessage", message)
}

// PublishMatchUpdated notifies the match room of a lifecycle change, for
// example chat unlocking or the match completing.
func (s *Server) PublishMatchUpdated(matchID string, match *models.Match) {
	s.io.BroadcastToRoom("/", matchID, "matchUpdated", match)
}
