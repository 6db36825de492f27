package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"HDTN/pkg/cache"

	"github.com/abadojack/whatlanggo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	// ApologyText replaces the assistant reply when the responder fails.
	ApologyText = "Sorry, I encountered an error with the AI. Please check API key or try again."
	// EmptyReplyText replaces an assistant reply that came back empty.
	EmptyReplyText = "Sorry, I couldn't generate a response."
	// ConfigErrorText replaces the assistant reply when the responder is not configured.
	ConfigErrorText = "Error: API Key not configured."
)

var (
	ErrEmptyText       = errors.New("message text is required")
	ErrSelfMessage     = errors.New("cannot send a message to yourself")
	ErrUnknownLanguage = errors.New("unsupported language")
	ErrNotParticipant  = errors.New("viewer is not a participant of this conversation")
	// ErrNotConfigured is wrapped by Responder and Translator errors meaning
	// no call can be made until configuration changes.
	ErrNotConfigured = errors.New("not configured")
)

// ExchangeState tracks one outgoing message: Sent, then for assistant
// recipients AwaitingResponse and finally Responded or Failed.
type ExchangeState string

const (
	StateSent             ExchangeState = "sent"
	StateAwaitingResponse ExchangeState = "awaiting_response"
	StateResponded        ExchangeState = "responded"
	StateFailed           ExchangeState = "failed"
)

type SendRequest struct {
	SenderID    string
	RecipientID string
	Text        string
	Grounded    bool
}

// Exchange is the outcome of Send.
type Exchange struct {
	Request Message       `json:"request"`
	Reply   *Message      `json:"reply,omitempty"`
	State   ExchangeState `json:"state"`
}

type Options struct {
	// Cache holds translations keyed on text and language; nil disables caching.
	Cache    *cache.Cache
	CacheTTL time.Duration
	// Concurrency bounds in-flight translation requests per sweep.
	Concurrency int
	// AcquireSlot bounds concurrent assistant calls per sender.
	AcquireSlot func(uid string) (release func())
	Now         func() time.Time
}

// Service runs the chat flows on top of State: sending, the assistant
// exchange and translation of incoming messages.
type Service struct {
	state      *State
	responder  Responder
	translator Translator
	log        *zap.Logger

	cache       *cache.Cache
	cacheTTL    time.Duration
	concurrency int
	acquire     func(uid string) func()
	now         func() time.Time

	// flight collapses concurrent translations of the same text and language.
	flight singleflight.Group
	wg     sync.WaitGroup
}

func NewService(state *State, responder Responder, translator Translator, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.AcquireSlot == nil {
		opts.AcquireSlot = func(string) func() { return func() {} }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		state:       state,
		responder:   responder,
		translator:  translator,
		log:         logger.Named("chat"),
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
		concurrency: opts.Concurrency,
		acquire:     opts.AcquireSlot,
		now:         opts.Now,
	}
}

func (s *Service) State() *State { return s.state }

// Send appends the sender's message and, when the recipient is the
// assistant, asks the responder once and appends its reply. A responder
// failure is absorbed into an apology message.
func (s *Service) Send(ctx context.Context, req SendRequest) (Exchange, error) {
	if strings.TrimSpace(req.Text) == "" {
		return Exchange{}, ErrEmptyText
	}
	if req.SenderID == req.RecipientID {
		return Exchange{}, ErrSelfMessage
	}

	msg, err := s.state.Log.Append(Message{
		ConversationID: ConversationID(req.SenderID, req.RecipientID),
		SenderID:       req.SenderID,
		RecipientID:    req.RecipientID,
		OriginalText:   req.Text,
		Timestamp:      s.now(),
	})
	if err != nil {
		return Exchange{}, err
	}
	ex := Exchange{Request: msg, State: StateSent}

	if req.RecipientID != AssistantID {
		s.translateIncoming(ctx, msg)
		return ex, nil
	}

	ex.State = StateAwaitingResponse
	reply, state := s.respond(ctx, req)

	ts := s.now()
	if !ts.After(msg.Timestamp) {
		ts = msg.Timestamp.Add(time.Millisecond)
	}
	out, err := s.state.Log.Append(Message{
		ConversationID: msg.ConversationID,
		SenderID:       AssistantID,
		RecipientID:    req.SenderID,
		OriginalText:   reply.Text,
		Timestamp:      ts,
		Sources:        reply.Sources,
	})
	if err != nil {
		return ex, err
	}
	ex.Reply = &out
	ex.State = state

	s.translateIncoming(ctx, out)
	return ex, nil
}

func (s *Service) respond(ctx context.Context, req SendRequest) (Reply, ExchangeState) {
	if s.responder == nil {
		return Reply{Text: ApologyText}, StateFailed
	}
	release := s.acquire(req.SenderID)
	defer release()

	reply, err := s.responder.Respond(ctx, req.Text, req.Grounded)
	if errors.Is(err, ErrNotConfigured) {
		s.log.Warn("assistant not configured", zap.String("sender", req.SenderID), zap.Error(err))
		return Reply{Text: ConfigErrorText}, StateFailed
	}
	if err != nil {
		s.log.Warn("assistant call failed",
			zap.String("sender", req.SenderID),
			zap.Bool("grounded", req.Grounded),
			zap.Error(err))
		return Reply{Text: ApologyText}, StateFailed
	}
	reply.Text = strings.TrimSpace(reply.Text)
	if reply.Text == "" {
		reply.Text = EmptyReplyText
	}
	return reply, StateResponded
}

// SetDisplayLanguage records the language viewer reads in and translates
// every pending message addressed to viewer. It returns the number of
// records patched.
func (s *Service) SetDisplayLanguage(ctx context.Context, viewer string, lang Language) (int, error) {
	if !lang.Valid() {
		return 0, ErrUnknownLanguage
	}
	s.state.setDisplayLanguage(viewer, lang)

	total := 0
	for _, conv := range s.state.Log.Conversations(viewer) {
		if conv.LastMessage == nil {
			continue
		}
		n, err := s.TranslatePending(ctx, viewer, conv.ID)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// TranslatePending submits every message of conversationID addressed to
// viewer that lacks a translation into viewer's display language. Failures
// leave the record untranslated.
func (s *Service) TranslatePending(ctx context.Context, viewer, conversationID string) (int, error) {
	if !Participates(conversationID, viewer) {
		return 0, ErrNotParticipant
	}
	lang := s.state.DisplayLanguage(viewer)
	if lang == DefaultLanguage || s.translator == nil {
		return 0, nil
	}

	var pending []Message
	for m := range s.state.Log.ListByConversation(conversationID) {
		if m.RecipientID == viewer && !m.Translation.In(lang) {
			pending = append(pending, m)
		}
	}

	var (
		g       errgroup.Group
		applied atomic.Int32
	)
	g.SetLimit(s.concurrency)
	for _, m := range pending {
		g.Go(func() error {
			if s.translateMessage(ctx, viewer, m, lang) {
				applied.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(applied.Load()), nil
}

// Wait blocks until background translations started by Send have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// translateIncoming translates msg in the background when its recipient
// reads in a non-default language.
func (s *Service) translateIncoming(ctx context.Context, msg Message) {
	lang := s.state.DisplayLanguage(msg.RecipientID)
	if lang == DefaultLanguage || s.translator == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.translateMessage(bg, msg.RecipientID, msg, lang)
	}()
}

// translateMessage translates m into lang and patches the log. The result is
// discarded when viewer switched to another language while it was in flight.
func (s *Service) translateMessage(ctx context.Context, viewer string, m Message, lang Language) bool {
	if alreadyIn(m.OriginalText, lang) {
		return false
	}

	key := cache.KeyFromStrings("translation", lang.Code(), m.OriginalText)
	v, err, _ := s.flight.Do(key, func() (any, error) {
		if text, ok := s.cache.GetString(key); ok {
			return text, nil
		}
		out, err := s.translator.Translate(ctx, m.OriginalText, lang)
		if err != nil {
			return "", err
		}
		text := strings.TrimSpace(out)
		if text != "" && text != m.OriginalText {
			s.cache.Set(key, text, s.cacheTTL)
		}
		return text, nil
	})
	if err != nil {
		s.log.Warn("translation failed",
			zap.String("message_id", m.ID),
			zap.String("language", string(lang)),
			zap.Error(err))
		return false
	}
	text, _ := v.(string)
	if text == "" || text == m.OriginalText {
		return false
	}

	if current := s.state.DisplayLanguage(viewer); current != lang {
		s.log.Debug("discarding stale translation",
			zap.String("message_id", m.ID),
			zap.String("requested", string(lang)),
			zap.String("current", string(current)))
		return false
	}
	return s.state.Log.UpdateTranslation(m.ID, text, lang)
}

// alreadyIn reports whether text is reliably detected as written in lang.
func alreadyIn(text string, lang Language) bool {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return false
	}
	return info.Lang.Iso6391() == lang.Code()
}
