package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/frenchcercle/cercle/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamMessage is one frame of the directory feed
type StreamMessage struct {
	Type       string             `json:"type"`
	Registrant *models.Registrant `json:"registrant,omitempty"`
	Data       string             `json:"data,omitempty"`
}

// handleDirectoryStream pushes every new registrant to a signed-in admin
func (s *Server) handleDirectoryStream(w http.ResponseWriter, r *http.Request) {
	identifier := ""
	if session := SessionFromContext(r.Context()); session != nil {
		identifier = session.Identifier
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	events, unsubscribe := s.directory.Subscribe()
	defer unsubscribe()

	slog.Info("directory stream connected", "identifier", identifier)

	if err := sendStreamMessage(conn, StreamMessage{Type: "connected", Data: "Listening for new registrants"}); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// directory -> websocket
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case reg, ok := <-events:
				if !ok {
					return
				}
				if err := sendStreamMessage(conn, StreamMessage{Type: "registrant", Registrant: &reg}); err != nil {
					return
				}
			}
		}
	}()

	// websocket reads only detect the client going away
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					slog.Debug("websocket read error", "error", err)
				}
				return
			}
		}
	}()

	<-ctx.Done()
	conn.Close()
	wg.Wait()
	slog.Info("directory stream disconnected", "identifier", identifier)
}

func sendStreamMessage(conn *websocket.Conn, msg StreamMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal stream message", "error", err)
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Debug("failed to send stream message", "error", err)
		return err
	}
	return nil
}
