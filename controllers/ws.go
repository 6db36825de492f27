package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"HDTN/middleware"
	"HDTN/pkg/chat"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsWriteWait  = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS handled at HTTP level; allow WS here
		return true
	},
}

type wsInbound struct {
	Type        string `json:"type"`
	RecipientID string `json:"recipientId"`
	Text        string `json:"text"`
	Grounded    bool   `json:"grounded"`
	Language    string `json:"language"`
}

// ChatWS streams chat events to an authenticated viewer.
// Client protocol (JSON messages):
//
//	-> {type: "send", recipientId: string, text: string, grounded?: bool}
//	-> {type: "language", language: string}
//	<- {type: "message" | "translation", message: Message}
//	<- {type: "exchange", exchange: Exchange}
//	<- {type: "language", language: string, translated: number}
//	<- {type: "error", error: string}
func ChatWS(svc *chat.Service, db *gorm.DB, auth *middleware.Authenticator, limiter *middleware.Limiter, log *zap.Logger) gin.HandlerFunc {
	log = log.Named("ws")
	return func(c *gin.Context) {
		// Authenticate via ?token=JWT
		tokenStr := strings.TrimSpace(c.Query("token"))
		if tokenStr == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": "missing token query"})
			return
		}
		claims, err := auth.Parse(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
			return
		}
		uid := claims.ParticipantID

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn("upgrade error", zap.Error(err))
			return
		}
		defer conn.Close()

		var wmu sync.Mutex
		send := func(v any) error {
			wmu.Lock()
			defer wmu.Unlock()
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			return conn.WriteJSON(v)
		}

		conn.SetReadLimit(1 << 20) // 1MB
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		events, unsubscribe := svc.State().Log.Subscribe(64)
		defer unsubscribe()

		go func() {
			ticker := time.NewTicker(wsPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case evt, ok := <-events:
					if !ok {
						return
					}
					if !chat.Participates(evt.Message.ConversationID, uid) {
						continue
					}
					if err := send(evt); err != nil {
						_ = conn.Close()
						return
					}
				case <-ticker.C:
					wmu.Lock()
					err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
					wmu.Unlock()
					if err != nil {
						_ = conn.Close()
						return
					}
				}
			}
		}()

		log.Debug("connected", zap.String("user", uid))
		for {
			mt, raw, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Info("read error", zap.String("user", uid), zap.Error(err))
				}
				return
			}
			if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
				continue
			}
			var in wsInbound
			if err := json.Unmarshal(raw, &in); err != nil {
				_ = send(gin.H{"type": "error", "error": "invalid payload"})
				continue
			}
			if reply := handleWSMessage(ctx, svc, db, limiter, uid, in); reply != nil {
				if err := send(reply); err != nil {
					return
				}
			}
		}
	}
}

func handleWSMessage(ctx context.Context, svc *chat.Service, db *gorm.DB, limiter *middleware.Limiter, uid string, in wsInbound) gin.H {
	switch strings.ToLower(strings.TrimSpace(in.Type)) {
	case "send":
		recipient := strings.TrimSpace(in.RecipientID)
		if !chat.ValidParticipantID(recipient) || !recipientExists(db, recipient) {
			return gin.H{"type": "error", "error": "recipient not found"}
		}
		if limiter != nil && !limiter.DuplicateGuard(uid, recipient, in.Text) {
			return gin.H{"type": "error", "error": "duplicate message"}
		}
		ex, err := svc.Send(ctx, chat.SendRequest{SenderID: uid, RecipientID: recipient, Text: in.Text, Grounded: in.Grounded})
		if err != nil {
			if limiter != nil {
				limiter.ForgetDuplicate(uid, recipient, in.Text)
			}
			if errors.Is(err, chat.ErrEmptyText) || errors.Is(err, chat.ErrSelfMessage) {
				return gin.H{"type": "error", "error": err.Error()}
			}
			return gin.H{"type": "error", "error": "failed to send message"}
		}
		return gin.H{"type": "exchange", "exchange": ex}
	case "language":
		lang, ok := chat.ParseLanguage(in.Language)
		if !ok {
			return gin.H{"type": "error", "error": "unsupported language"}
		}
		n, err := svc.SetDisplayLanguage(ctx, uid, lang)
		if err != nil {
			return gin.H{"type": "error", "error": err.Error()}
		}
		return gin.H{"type": "language", "language": lang, "translated": n}
	default:
		return gin.H{"type": "error", "error": "unknown message type"}
	}
}
