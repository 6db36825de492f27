package controllers

import (
	"errors"
	"net/http"
	"strings"

	"HDTN/middleware"
	"HDTN/models"
	"HDTN/pkg/chat"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// recipientExists reports whether id is the assistant or a registered
// participant. A nil db accepts every well-formed id.
func recipientExists(db *gorm.DB, id string) bool {
	if id == chat.AssistantID || db == nil {
		return true
	}
	var n int64
	if err := db.Model(&models.User{}).Where("participant_id = ?", id).Count(&n).Error; err != nil {
		return false
	}
	return n > 0
}

type sendBody struct {
	RecipientID string `json:"recipientId" binding:"required"`
	Text        string `json:"text" binding:"required"`
	Grounded    bool   `json:"grounded"`
}

// SendMessage handles POST /messages. Sending to the assistant waits for
// its reply; the response carries both records.
func SendMessage(svc *chat.Service, db *gorm.DB, limiter *middleware.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUser(c)
		var body sendBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": bindError(err)})
			return
		}
		recipient := strings.TrimSpace(body.RecipientID)
		if !chat.ValidParticipantID(recipient) || !recipientExists(db, recipient) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "recipient not found"})
			return
		}
		if limiter != nil && !limiter.DuplicateGuard(uid, recipient, body.Text) {
			c.JSON(http.StatusConflict, gin.H{"msg": "duplicate message, please wait before resending"})
			return
		}

		ex, err := svc.Send(c.Request.Context(), chat.SendRequest{
			SenderID:    uid,
			RecipientID: recipient,
			Text:        body.Text,
			Grounded:    body.Grounded,
		})
		if err != nil && limiter != nil {
			limiter.ForgetDuplicate(uid, recipient, body.Text)
		}
		switch {
		case errors.Is(err, chat.ErrEmptyText), errors.Is(err, chat.ErrSelfMessage):
			c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
			return
		case err != nil:
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "failed to send message"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"exchange": ex})
	}
}

// ListConversations handles GET /conversations.
func ListConversations(svc *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{
			"conversations": svc.State().Log.Conversations(uid),
			"language":      svc.State().DisplayLanguage(uid),
		})
	}
}

// ConversationMessages handles GET /conversations/:id/messages.
func ConversationMessages(svc *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUser(c)
		id := c.Param("id")
		partner, ok := chat.Partner(id, uid)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"msg": "not a participant of this conversation"})
			return
		}
		msgs := svc.State().Log.Messages(id)
		if msgs == nil {
			msgs = []chat.Message{}
		}
		c.JSON(http.StatusOK, gin.H{
			"conversationId": id,
			"partnerId":      partner,
			"messages":       msgs,
		})
	}
}

// SetLanguage handles PUT /language and translates everything pending for the viewer.
func SetLanguage(svc *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Language string `json:"language" binding:"required,language"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": bindError(err)})
			return
		}
		lang, _ := chat.ParseLanguage(body.Language)
		n, err := svc.SetDisplayLanguage(c.Request.Context(), middleware.CurrentUser(c), lang)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"language": lang, "translated": n})
	}
}

// TranslateConversation handles POST /conversations/:id/translate.
func TranslateConversation(svc *chat.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.CurrentUser(c)
		n, err := svc.TranslatePending(c.Request.Context(), uid, c.Param("id"))
		if errors.Is(err, chat.ErrNotParticipant) {
			c.JSON(http.StatusForbidden, gin.H{"msg": "not a participant of this conversation"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "translation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"translated": n, "language": svc.State().DisplayLanguage(uid)})
	}
}

// Languages handles GET /languages.
func Languages() gin.HandlerFunc {
	type entry struct {
		Name chat.Language `json:"name"`
		Code string        `json:"code"`
	}
	list := make([]entry, 0, len(chat.Languages()))
	for _, l := range chat.Languages() {
		list = append(list, entry{Name: l, Code: l.Code()})
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"languages": list, "default": chat.DefaultLanguage})
	}
}
