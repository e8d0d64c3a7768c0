package server

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"TradeTrends/internal/model"
)

const (
	writeWait      = 2 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// checkOrigin accepts non-browser clients, local dashboards and pages
// served by this server.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || localOrigin(origin) {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

// streamMessage is one frame of the snapshot stream.
type streamMessage struct {
	Type     string          `json:"type"` // "snapshot" or "error"
	Snapshot *model.Snapshot `json:"snapshot,omitempty"`
	Error    string          `json:"error,omitempty"`
	Kind     string          `json:"kind,omitempty"`
}

// streamSnapshot pushes a fresh snapshot on connect and then every
// StreamInterval until the client goes away.
func (s *Server) streamSnapshot(c *gin.Context) {
	symbol := model.ResolvePreset(c.Param("symbol"))
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WARN] websocket upgrade: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	go readPump(conn, cancel)
	s.writePump(ctx, conn, symbol)
	cancel()
}

// readPump discards client frames and cancels the stream when the peer
// closes or stops answering pings.
func readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WARN] websocket read: %v", err)
			}
			return
		}
	}
}

func (s *Server) writePump(ctx context.Context, conn *websocket.Conn, symbol string) {
	interval := s.StreamInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	tick := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		tick.Stop()
		ping.Stop()
		conn.Close()
	}()

	if !s.pushSnapshot(ctx, conn, symbol) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-tick.C:
			if !s.pushSnapshot(ctx, conn, symbol) {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// pushSnapshot fetches and writes one frame. Fetch failures are sent to the
// client as error frames; it returns false only when the write fails.
func (s *Server) pushSnapshot(ctx context.Context, conn *websocket.Conn, symbol string) bool {
	msg := streamMessage{Type: "snapshot"}
	snap, err := s.Collector.Snapshot(ctx, symbol)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		msg = streamMessage{Type: "error", Error: err.Error(), Kind: model.Kind(err)}
	} else {
		msg.Snapshot = snap
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("[WARN] websocket write %s: %v", symbol, err)
		return false
	}
	return true
}
