package live

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/citizenconnect/gujarat-guide/backend/internal/middleware"
	"github.com/citizenconnect/gujarat-guide/backend/internal/model/guide"
	chatservice "github.com/citizenconnect/gujarat-guide/backend/internal/service/chat"
	"github.com/citizenconnect/gujarat-guide/backend/internal/view"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Inbound event types.
const (
	EventRender       = "render"
	EventNewChat      = "new_chat"
	EventSelect       = "select"
	EventSubmit       = "submit"
	EventSuggestion   = "suggestion"
	EventClear        = "clear"
	EventConfirmClear = "confirm_clear"
	EventCancelClear  = "cancel_clear"
)

// WebSocketHandler carries UI events from the browser and answers each one
// with a freshly rendered page.
type WebSocketHandler struct {
	chatSvc  *chatservice.Service
	catalog  guide.Catalog
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the live UI channel.
func NewWebSocketHandler(chatSvc *chatservice.Service, catalog guide.Catalog, logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketHandler{
		chatSvc: chatSvc,
		catalog: catalog,
		logger:  logger.Named("live"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the WebSocket endpoint.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

// InboundEvent is one UI action sent by the client.
type InboundEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Question  string `json:"question,omitempty"`
	Index     int    `json:"index,omitempty"`
}

// OutgoingMessage is either a rendered page or an error.
type OutgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws := h.chatSvc.Workspace(middleware.ClientID(r))

	// Upgrade writes only these headers into the handshake, so the client
	// cookie issued by middleware.Client has to be carried over.
	header := http.Header{}
	for _, cookie := range w.Header().Values("Set-Cookie") {
		header.Add("Set-Cookie", cookie)
	}
	header.Set(middleware.ClientHeader, ws.ID)

	conn, err := h.upgrader.Upgrade(w, r, header)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Info("connection opened", zap.String("workspace", ws.ID))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, conn)

	h.sendPage(conn, ws, nil)

	for {
		var event InboundEvent
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read failed", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		// Re-resolving marks the workspace as used.
		ws = h.chatSvc.Workspace(ws.ID)
		notice, err := h.apply(ctx, ws, event)
		if err != nil {
			h.sendError(conn, err.Error())
			continue
		}
		h.sendPage(conn, ws, notice)
	}
}

// apply mutates the workspace for one event. Rendering happens separately.
func (h *WebSocketHandler) apply(ctx context.Context, ws *chatservice.Workspace, event InboundEvent) (*view.Notice, error) {
	switch event.Type {
	case EventRender:
		return nil, nil
	case EventNewChat:
		ws.NewChat()
		return nil, nil
	case EventSelect:
		return nil, ws.Select(event.SessionID)
	case EventSubmit:
		outcome, err := ws.Submit(ctx, event.Question)
		if err != nil {
			return nil, err
		}
		return view.ErrorNotice(outcome.Reply.Notice), nil
	case EventSuggestion:
		outcome, err := ws.SubmitSuggestion(ctx, event.Index)
		if err != nil {
			return nil, err
		}
		return view.ErrorNotice(outcome.Reply.Notice), nil
	case EventClear:
		ws.RequestClear()
		return nil, nil
	case EventConfirmClear:
		if err := ws.ConfirmClear(); err != nil {
			return nil, err
		}
		return view.SuccessNotice(view.ClearedText), nil
	case EventCancelClear:
		return nil, ws.CancelClear()
	default:
		return nil, fmt.Errorf("unsupported event type: %q", event.Type)
	}
}

func (h *WebSocketHandler) sendPage(conn *websocket.Conn, ws *chatservice.Workspace, notice *view.Notice) {
	ws.EnsureActive()
	h.write(conn, OutgoingMessage{
		Type:      "page",
		Data:      view.Render(ws, h.catalog, notice),
		Timestamp: time.Now().Unix(),
	})
}

func (h *WebSocketHandler) sendError(conn *websocket.Conn, message string) {
	h.write(conn, OutgoingMessage{
		Type:      "error",
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().Unix(),
	})
}

func (h *WebSocketHandler) write(conn *websocket.Conn, msg OutgoingMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal outgoing message", zap.Error(err))
		return
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		h.logger.Debug("write failed", zap.String("type", msg.Type), zap.Error(err))
	}
}

// pingLoop keeps idle connections alive. WriteControl may run concurrently
// with the main writer.
func (h *WebSocketHandler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
