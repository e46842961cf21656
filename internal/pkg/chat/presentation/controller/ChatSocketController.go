package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/metrics"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/realtime"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/auth"
	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/usecase"
)

// ChatSocketController handles the websocket endpoint for realtime chat traffic.
type ChatSocketController struct {
	hub             *realtime.Hub
	dispatcher      *usecase.MessageDispatcher
	joinUC          *usecase.JoinConversationUseCase
	markReadUC      *usecase.MarkReadUseCase
	jwtSecret       string
	logger          *zap.Logger
	inflightTimeout time.Duration
}

func NewChatSocketController(
	hub *realtime.Hub,
	dispatcher *usecase.MessageDispatcher,
	joinUC *usecase.JoinConversationUseCase,
	markReadUC *usecase.MarkReadUseCase,
	jwtSecret string,
	logger *zap.Logger,
) *ChatSocketController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatSocketController{
		hub:             hub,
		dispatcher:      dispatcher,
		joinUC:          joinUC,
		markReadUC:      markReadUC,
		jwtSecret:       jwtSecret,
		logger:          logger,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when the web
		// client's deploy origin is fixed.
		return true
	},
}

type inboundFrame struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversationId,omitempty"`
	Content        string `json:"content,omitempty"`
}

type errorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ackFrame struct {
	Type           string `json:"type"`
	UserID         string `json:"userId,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
}

const defaultReadTimeout = 60 * time.Second

// Handle authenticates the handshake, upgrades to websocket and processes
// frames until the client disconnects. The token comes from the
// Authorization header or, for browser clients, a token query parameter.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.Query("token")
		}
		claims, err := auth.VerifyToken(ctl.jwtSecret, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication required"})
			return
		}
		userID := claims.UserID()

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.logger.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		conn := realtime.NewConnection(userID, ws)
		conn.Start()
		ctl.hub.Attach(conn)
		metrics.WSConnectionsActive.Inc()
		ctl.logger.Info("user connected",
			zap.String("user_id", userID), zap.String("session_id", conn.SessionID()))

		defer func() {
			ctl.hub.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
			metrics.WSConnectionsActive.Dec()
			ctl.logger.Info("user disconnected",
				zap.String("user_id", userID), zap.String("session_id", conn.SessionID()))
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		ack := ackFrame{Type: usecase.EventConnected, UserID: userID}
		if payload, err := json.Marshal(ack); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) &&
					!errors.Is(err, websocket.ErrCloseSent) {
					ctl.logger.Warn("websocket read failed",
						zap.String("user_id", userID), zap.Error(err))
				}
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "join-conversation":
				ctl.handleJoin(c, conn, frame)
			case "send-message":
				ctl.handleSendMessage(c, conn, userID, frame)
			case "mark-read":
				ctl.handleMarkRead(c, conn, userID, frame)
			case "typing":
				ctl.handleTyping(conn, userID, frame, usecase.EventUserTyping)
			case "stop-typing":
				ctl.handleTyping(conn, userID, frame, usecase.EventUserStopTyping)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) handleJoin(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.joinUC.Execute(ctx, frame.ConversationID, conn.User()); err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	ctl.hub.Join(chat.ConversationChannel(frame.ConversationID), conn)

	ack := ackFrame{Type: usecase.EventJoined, ConversationID: frame.ConversationID}
	if payload, err := json.Marshal(ack); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) handleSendMessage(c *gin.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if _, err := ctl.dispatcher.Dispatch(ctx, frame.ConversationID, userID, frame.Content); err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

func (ctl *ChatSocketController) handleMarkRead(c *gin.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if _, err := ctl.markReadUC.Execute(ctx, frame.ConversationID, userID); err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

// handleTyping relays a typing signal to the conversation channel, skipping
// every connection of the typist. Typing is ephemeral, so there is no
// membership check and nothing is persisted.
func (ctl *ChatSocketController) handleTyping(conn *realtime.Connection, userID string, frame inboundFrame, eventType string) {
	if frame.ConversationID == "" {
		ctl.replyError(conn, "bad_request", "conversationId is required")
		return
	}
	payload := usecase.EncodeTyping(eventType, frame.ConversationID, userID)
	ctl.hub.Broadcast(chat.ConversationChannel(frame.ConversationID), payload, userID)
}

func (ctl *ChatSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	case errors.Is(err, chat.ErrNotParticipant):
		ctl.replyError(conn, "forbidden", "you are not a participant in this conversation")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{
		Type:    usecase.EventError,
		Code:    code,
		Message: message,
	}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
