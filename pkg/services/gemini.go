package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"HDTN/pkg/chat"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var (
	ErrGeminiDisabled = fmt.Errorf("gemini is disabled via config: %w", chat.ErrNotConfigured)
	ErrMissingAPIKey  = fmt.Errorf("GEMINI_API_KEY is not set: %w", chat.ErrNotConfigured)
)

// ConfigErrorText is shown to users when Gemini cannot be called at all.
const ConfigErrorText = chat.ConfigErrorText

const (
	translateTemperature float32 = 0.3
	respondTemperature   float32 = 0.7
)

// generator is the slice of the genai client GeminiService uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Enabled bool
}

// GeminiService answers assistant prompts and translates chat messages.
// It implements chat.Responder and chat.Translator.
type GeminiService struct {
	models  generator
	model   string
	enabled bool
	hasKey  bool
	log     *zap.Logger
}

var (
	_ chat.Responder  = (*GeminiService)(nil)
	_ chat.Translator = (*GeminiService)(nil)
)

// NewGeminiService creates the service. When Gemini is disabled or the key is
// missing no client is created and every call fails with a config error.
func NewGeminiService(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &GeminiService{
		model:   cfg.Model,
		enabled: cfg.Enabled,
		hasKey:  strings.TrimSpace(cfg.APIKey) != "",
		log:     logger.Named("gemini"),
	}
	if s.model == "" {
		s.model = "gemini-2.5-flash"
	}
	if !s.enabled || !s.hasKey {
		s.log.Warn("gemini unavailable", zap.Bool("enabled", s.enabled), zap.Bool("api_key_present", s.hasKey))
		return s, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	s.models = client.Models
	return s, nil
}

func (s *GeminiService) Model() string { return s.model }

// Ready reports whether calls will reach Gemini.
func (s *GeminiService) Ready() bool { return s.ready() == nil }

func (s *GeminiService) ready() error {
	if !s.enabled {
		return ErrGeminiDisabled
	}
	if !s.hasKey || s.models == nil {
		return ErrMissingAPIKey
	}
	return nil
}

// Translate returns text translated into lang.
func (s *GeminiService) Translate(ctx context.Context, text string, lang chat.Language) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	prompt := TranslatePrompt(text, lang)
	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(translateTemperature),
	})
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", lang, err)
	}
	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", fmt.Errorf("translate to %s: empty response", lang)
	}
	return out, nil
}

// Respond generates the assistant reply to prompt. With grounded set the
// Google Search tool is enabled and cited pages are returned as sources.
func (s *GeminiService) Respond(ctx context.Context, prompt string, grounded bool) (chat.Reply, error) {
	if err := s.ready(); err != nil {
		return chat.Reply{}, err
	}
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(respondTemperature),
	}
	if grounded {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	s.log.Debug("generate", zap.String("model", s.model), zap.Bool("grounded", grounded))
	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), cfg)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("generate content: %w", err)
	}
	return chat.Reply{
		Text:    strings.TrimSpace(resp.Text()),
		Sources: sourcesFrom(resp),
	}, nil
}

// TranslatePrompt builds the instruction sent for a translation.
func TranslatePrompt(text string, lang chat.Language) string {
	return fmt.Sprintf("Translate the following text to %s: \"%s\"", lang, text)
}

// IsConfigError reports whether err means Gemini is not configured.
func IsConfigError(err error) bool {
	return errors.Is(err, chat.ErrNotConfigured)
}

// sourcesFrom collects web citations from the first candidate, skipping
// chunks without a URI and repeated URIs.
func sourcesFrom(resp *genai.GenerateContentResponse) []chat.Source {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}
	var out []chat.Source
	seen := make(map[string]bool)
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
			continue
		}
		seen[chunk.Web.URI] = true
		title := chunk.Web.Title
		if title == "" {
			title = chunk.Web.URI
		}
		out = append(out, chat.Source{URI: chunk.Web.URI, Title: title})
	}
	return out
}
