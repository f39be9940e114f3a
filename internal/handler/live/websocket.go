package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/chat"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/model/persona"
	chatservice "github.com/ShawnKBeck/GraceAI-Frontend/internal/service/chat"
	"github.com/ShawnKBeck/GraceAI-Frontend/internal/service/reply"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	writeWait  = 10 * time.Second
)

// Frame types exchanged over the socket.
const (
	TypeTranscript = "transcript"
	TypeMessage    = "message"
	TypePending    = "pending"
	TypeRejected   = "rejected"
	TypeError      = "error"
	TypeSubmit     = "submit"
)

// WebSocketHandler runs one chat session per websocket connection.
type WebSocketHandler struct {
	replier  reply.Replier
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the live chat handler. Every session asks replier for replies.
func NewWebSocketHandler(replier reply.Replier, logger zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		replier: replier,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the websocket route.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

// InboundMessage is a frame sent by the browser.
type InboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// OutgoingMessage is a frame sent to the browser.
type OutgoingMessage struct {
	Type      string         `json:"type"`
	SessionID string         `json:"sessionId,omitempty"`
	Messages  []chat.Message `json:"messages,omitempty"`
	Message   *chat.Message  `json:"message,omitempty"`
	Index     int            `json:"index,omitempty"`
	Pending   *bool          `json:"pending,omitempty"`
	Text      string         `json:"text,omitempty"`
	Error     string         `json:"error,omitempty"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	session := chat.Session{
		ID:        uuid.NewString(),
		PersonaID: persona.GraceID,
		CreatedAt: time.Now().UTC(),
	}
	logger := h.logger.With().Str("session", session.ID).Logger()
	logger.Info().Msg("live session opened")
	defer logger.Info().Msg("live session closed")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	out := make(chan OutgoingMessage, 16)
	send := func(msg OutgoingMessage) {
		msg.SessionID = session.ID
		select {
		case out <- msg:
		case <-ctx.Done():
		}
	}

	var writerDone sync.WaitGroup
	writerDone.Add(1)
	go func() {
		defer writerDone.Done()
		h.writeLoop(ctx, conn, out, logger)
	}()

	ctrl := chatservice.NewController(h.replier, chatservice.WithLogger(logger))
	send(OutgoingMessage{Type: TypeTranscript, Messages: ctrl.Visible(), Pending: boolPtr(ctrl.Pending())})
	unsubscribe := ctrl.Subscribe(chatservice.ListenerFunc(func(e chatservice.Event) {
		send(eventFrame(e))
	}))
	defer unsubscribe()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var submits sync.WaitGroup
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn().Err(err).Msg("websocket read error")
			}
			break
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			send(OutgoingMessage{Type: TypeError, Error: "invalid frame"})
			continue
		}

		switch msg.Type {
		case TypeSubmit:
			submits.Add(1)
			go func(text string) {
				defer submits.Done()
				if !ctrl.Submit(ctx, text) {
					send(OutgoingMessage{Type: TypeRejected, Text: text})
				}
			}(msg.Text)
		default:
			send(OutgoingMessage{Type: TypeError, Error: "unsupported message type: " + msg.Type})
		}
	}

	cancel()
	submits.Wait()
	writerDone.Wait()
}

// writeLoop is the only goroutine writing to conn.
func (h *WebSocketHandler) writeLoop(ctx context.Context, conn *websocket.Conn, out <-chan OutgoingMessage, logger zerolog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case msg := <-out:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				logger.Warn().Err(err).Str("type", msg.Type).Msg("websocket write failed")
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func eventFrame(e chatservice.Event) OutgoingMessage {
	if e.Kind == chatservice.EventPending {
		return OutgoingMessage{Type: TypePending, Pending: boolPtr(e.Pending)}
	}
	msg := e.Message
	return OutgoingMessage{Type: TypeMessage, Message: &msg, Index: e.Index}
}

func boolPtr(v bool) *bool { return &v }
