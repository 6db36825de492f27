package services

import (
	"context"
	"errors"
	"testing"

	"HDTN/pkg/chat"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	prompt string
	config *genai.GenerateContentConfig
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, _ string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	f.config = config
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}

func readyService(gen generator) *GeminiService {
	return &GeminiService{models: gen, model: "test-model", enabled: true, hasKey: true, log: zap.NewNop()}
}

func TestGemini_NotConfigured(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	disabled, err := NewGeminiService(ctx, GeminiConfig{APIKey: "k", Enabled: false}, nil)
	req.NoError(err)
	_, err = disabled.Respond(ctx, "Hi", false)
	req.ErrorIs(err, ErrGeminiDisabled)
	req.True(IsConfigError(err))

	noKey, err := NewGeminiService(ctx, GeminiConfig{Enabled: true}, nil)
	req.NoError(err)
	_, err = noKey.Translate(ctx, "Hello", chat.Spanish)
	req.ErrorIs(err, ErrMissingAPIKey)
	req.ErrorIs(err, chat.ErrNotConfigured)
	req.False(noKey.Ready())
	req.Equal("gemini-2.5-flash", noKey.Model())
}

func TestGemini_NotConfigured_AssistantReply(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	noKey, err := NewGeminiService(ctx, GeminiConfig{Enabled: true}, nil)
	req.NoError(err)
	svc := chat.NewService(chat.NewState(nil), noKey, noKey, zap.NewNop(), chat.Options{})

	ex, err := svc.Send(ctx, chat.SendRequest{SenderID: "user123", RecipientID: chat.AssistantID, Text: "What's new?", Grounded: true})
	req.NoError(err)
	req.Equal(chat.StateFailed, ex.State)
	req.NotNil(ex.Reply)
	req.Equal(ConfigErrorText, ex.Reply.OriginalText)
	req.Empty(ex.Reply.Sources)
}

func TestGemini_Translate_Prompt_And_Temperature(t *testing.T) {
	req := require.New(t)
	gen := &fakeGenerator{resp: textResponse(" Hola \n")}
	s := readyService(gen)

	out, err := s.Translate(context.Background(), "Hello", chat.Spanish)
	req.NoError(err)
	req.Equal("Hola", out)
	req.Equal(`Translate the following text to Spanish: "Hello"`, gen.prompt)
	req.InDelta(0.3, *gen.config.Temperature, 0.001)
	req.Empty(gen.config.Tools)
}

func TestGemini_Translate_Errors(t *testing.T) {
	req := require.New(t)

	_, err := readyService(&fakeGenerator{err: errors.New("boom")}).Translate(context.Background(), "Hello", chat.French)
	req.ErrorContains(err, "boom")

	_, err = readyService(&fakeGenerator{resp: textResponse("  ")}).Translate(context.Background(), "Hello", chat.French)
	req.ErrorContains(err, "empty response")
}

func TestGemini_Respond_Grounded_Collects_Sources(t *testing.T) {
	req := require.New(t)
	resp := textResponse("It is sunny.")
	resp.Candidates[0].GroundingMetadata = &genai.GroundingMetadata{
		GroundingChunks: []*genai.GroundingChunk{
			{Web: &genai.GroundingChunkWeb{URI: "https://weather.test/a", Title: "Weather A"}},
			{Web: &genai.GroundingChunkWeb{URI: "https://weather.test/a", Title: "dup"}},
			{Web: &genai.GroundingChunkWeb{URI: "https://weather.test/b"}},
			{Web: &genai.GroundingChunkWeb{Title: "no uri"}},
			nil,
		},
	}
	gen := &fakeGenerator{resp: resp}

	reply, err := readyService(gen).Respond(context.Background(), "weather?", true)
	req.NoError(err)
	req.Equal("It is sunny.", reply.Text)
	req.Equal([]chat.Source{
		{URI: "https://weather.test/a", Title: "Weather A"},
		{URI: "https://weather.test/b", Title: "https://weather.test/b"},
	}, reply.Sources)
	req.Len(gen.config.Tools, 1)
	req.NotNil(gen.config.Tools[0].GoogleSearch)
	req.InDelta(0.7, *gen.config.Temperature, 0.001)
}

func TestGemini_Respond_Ungrounded(t *testing.T) {
	req := require.New(t)
	gen := &fakeGenerator{resp: textResponse("Hello there")}

	reply, err := readyService(gen).Respond(context.Background(), "Hi", false)
	req.NoError(err)
	req.Equal("Hi", gen.prompt)
	req.Nil(reply.Sources)
	req.Nil(gen.config.Tools)
}
