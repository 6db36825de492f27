package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"HDTN/middleware"
	"HDTN/pkg/chat"
	"HDTN/pkg/chat/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type chatFixture struct {
	router    *gin.Engine
	svc       *chat.Service
	responder *mocks.MockResponder
	token     string
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	require.NoError(t, RegisterValidators())

	ctrl := gomock.NewController(t)
	responder := mocks.NewMockResponder(ctrl)
	translator := mocks.NewMockTranslator(ctrl)
	svc := chat.NewService(chat.NewState(nil), responder, translator, zap.NewNop(), chat.Options{})

	auth := middleware.NewAuthenticator("test-secret", time.Hour, nil)
	limiter := middleware.NewLimiter(middleware.LimitConfig{Capacity: 100})

	r := gin.New()
	g := r.Group("/", auth.Middleware())
	g.POST("/messages", SendMessage(svc, nil, limiter))
	g.GET("/conversations", ListConversations(svc))
	g.GET("/conversations/:id/messages", ConversationMessages(svc))
	g.POST("/conversations/:id/translate", TranslateConversation(svc))
	g.PUT("/language", SetLanguage(svc))
	g.GET("/languages", Languages())

	tok, err := auth.Issue("user123")
	require.NoError(t, err)
	return &chatFixture{router: r, svc: svc, responder: responder, token: tok}
}

func (f *chatFixture) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.token)
	f.router.ServeHTTP(w, req)
	return w
}

func TestChat_SendToAssistant(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	f.responder.EXPECT().Respond(gomock.Any(), "Hi", false).Return(chat.Reply{Text: "Hello there"}, nil)

	w := f.do(http.MethodPost, "/messages", `{"recipientId":"ai_assistant","text":"Hi"}`)
	req.Equal(http.StatusCreated, w.Code)

	var resp struct {
		Exchange struct {
			Request chat.Message  `json:"request"`
			Reply   *chat.Message `json:"reply"`
			State   string        `json:"state"`
		} `json:"exchange"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	req.Equal("responded", resp.Exchange.State)
	req.Equal("ai_assistant-user123", resp.Exchange.Request.ConversationID)
	req.Equal("Hello there", resp.Exchange.Reply.OriginalText)

	w = f.do(http.MethodGet, "/conversations/ai_assistant-user123/messages", "")
	req.Equal(http.StatusOK, w.Code)
	var list struct {
		PartnerID string         `json:"partnerId"`
		Messages  []chat.Message `json:"messages"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &list))
	req.Equal(chat.AssistantID, list.PartnerID)
	req.Len(list.Messages, 2)
	req.True(list.Messages[1].Timestamp.After(list.Messages[0].Timestamp))
}

func TestChat_DuplicateSendIsRejected(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)

	w := f.do(http.MethodPost, "/messages", `{"recipientId":"user002","text":"Are we still on for tonight?"}`)
	req.Equal(http.StatusCreated, w.Code)
	w = f.do(http.MethodPost, "/messages", `{"recipientId":"user002","text":"Are we still on for tonight?"}`)
	req.Equal(http.StatusConflict, w.Code)
}

func TestChat_SendValidation(t *testing.T) {
	f := newChatFixture(t)
	cases := map[string]struct {
		body   string
		status int
	}{
		"missing text":   {`{"recipientId":"user002"}`, http.StatusBadRequest},
		"blank text":     {`{"recipientId":"user002","text":"   "}`, http.StatusBadRequest},
		"self":           {`{"recipientId":"user123","text":"me"}`, http.StatusBadRequest},
		"bad recipient":  {`{"recipientId":"a-b","text":"hi"}`, http.StatusNotFound},
		"missing target": {`{"text":"hi"}`, http.StatusBadRequest},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := f.do(http.MethodPost, "/messages", tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}
}

func TestChat_NonParticipantIsForbidden(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)

	w := f.do(http.MethodGet, "/conversations/user002-user003/messages", "")
	req.Equal(http.StatusForbidden, w.Code)
	w = f.do(http.MethodPost, "/conversations/user002-user003/translate", "")
	req.Equal(http.StatusForbidden, w.Code)
}

func TestChat_ConversationsListsAssistantFirst(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)
	require.NoError(t, f.svc.State().Seed("user123", "user002", time.Now()))

	w := f.do(http.MethodGet, "/conversations", "")
	req.Equal(http.StatusOK, w.Code)
	var resp struct {
		Conversations []chat.Summary `json:"conversations"`
		Language      string         `json:"language"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	req.Len(resp.Conversations, 2)
	req.Equal("user002", resp.Conversations[0].PartnerID)
	req.Equal(chat.AssistantID, resp.Conversations[1].PartnerID)
	req.Equal("English", resp.Language)
}

func TestChat_SetLanguage(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)

	w := f.do(http.MethodPut, "/language", `{"language":"Klingon"}`)
	req.Equal(http.StatusBadRequest, w.Code)
	req.Contains(w.Body.String(), "unsupported language")

	w = f.do(http.MethodPut, "/language", `{"language":"en"}`)
	req.Equal(http.StatusOK, w.Code)
	req.JSONEq(`{"language":"English","translated":0}`, w.Body.String())

	w = f.do(http.MethodGet, "/languages", "")
	req.Equal(http.StatusOK, w.Code)
	req.Contains(w.Body.String(), `"code":"zh"`)
}

func TestChat_FailedSendDoesNotBlockResend(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t)

	for i := 0; i < 2; i++ {
		w := f.do(http.MethodPost, "/messages", `{"recipientId":"user002","text":"   "}`)
		req.Equal(http.StatusBadRequest, w.Code, w.Body.String())
	}

	w := f.do(http.MethodPost, "/messages", `{"recipientId":"user002","text":"See you at noon"}`)
	req.Equal(http.StatusCreated, w.Code)
	w = f.do(http.MethodPost, "/messages", `{"recipientId":"user002","text":"See you at noon"}`)
	req.Equal(http.StatusConflict, w.Code)
}
