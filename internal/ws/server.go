package ws

import (
	"net/http"

	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	eventUpdate  = "domains:update"
	eventInitial = "domains:initial"
	eventRequest = "request:domains"
)

var (
	// Server is the global Socket.IO server instance
	Server *socketio.Server
)

// InitServer initializes the Socket.IO server and starts serving it
func InitServer(db *gorm.DB, logger *logrus.Entry) error {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	logger = logger.WithField("component", "ws")

	checkOrigin := func(r *http.Request) bool { return true }
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&polling.Transport{CheckOrigin: checkOrigin},
			&websocket.Transport{CheckOrigin: checkOrigin},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		u := s.URL()
		teamID, err := tenantFromRequest(s.RemoteHeader(), u.Query())
		if err != nil {
			logger.WithField("conn", s.ID()).Warnf("connection rejected: %v", err)
			return err
		}

		s.SetContext(teamID)
		s.Join(teamRoom(teamID))
		logger.WithFields(logrus.Fields{"conn": s.ID(), "team": teamID}).Debug("client connected")

		s.Emit("connected", map[string]interface{}{"ok": true})
		return nil
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		logger.WithField("conn", s.ID()).Debugf("client disconnected: %s", reason)
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		if s == nil {
			logger.Errorf("socket error: %v", e)
			return
		}
		logger.WithField("conn", s.ID()).Errorf("socket error: %v", e)
	})

	server.OnEvent("/", eventRequest, requestDomainsHandler(db, logger))

	go func() {
		if err := server.Serve(); err != nil {
			logger.Errorf("socket.io server stopped: %v", err)
		}
	}()

	Server = server
	logger.Info("Socket.IO server initialized")
	return nil
}

// Close stops the Socket.IO server
func Close() error {
	if Server == nil {
		return nil
	}
	return Server.Close()
}

// BroadcastToTeam sends an event to every client of one team
func BroadcastToTeam(teamID string, event string, data interface{}) {
	if Server != nil {
		Server.BroadcastToRoom("/", teamRoom(teamID), event, data)
	}
}

func teamRoom(teamID string) string {
	return "team:" + teamID
}
