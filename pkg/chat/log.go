package chat

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConversationMismatch = errors.New("conversation id does not match participants")
	ErrMissingParticipant   = errors.New("sender and recipient are required")
	ErrDuplicateID          = errors.New("message id already exists")
)

type EventKind string

const (
	EventMessage     EventKind = "message"
	EventTranslation EventKind = "translation"
)

// Event is published to subscribers after every append or translation patch.
type Event struct {
	Kind    EventKind `json:"type"`
	Message Message   `json:"message"`
}

// Log is the append-only message log. Storage order is insertion order;
// reads sort by timestamp.
type Log struct {
	mu      sync.RWMutex
	records []Message
	index   map[string]int
	now     func() time.Time

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

func NewLog() *Log {
	return &Log{
		index: make(map[string]int),
		now:   time.Now,
		subs:  make(map[int]chan Event),
	}
}

// Append adds msg to the end of the log. A missing ID gets a time-ordered
// UUID, a zero Timestamp gets the current time and an empty ConversationID is
// derived from the participants. A ConversationID that disagrees with the
// participants is rejected.
func (l *Log) Append(msg Message) (Message, error) {
	if msg.SenderID == "" || msg.RecipientID == "" {
		return Message{}, ErrMissingParticipant
	}
	want := ConversationID(msg.SenderID, msg.RecipientID)
	if msg.ConversationID == "" {
		msg.ConversationID = want
	}
	if msg.ConversationID != want {
		return Message{}, fmt.Errorf("%w: got %q, want %q", ErrConversationMismatch, msg.ConversationID, want)
	}
	if msg.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return Message{}, fmt.Errorf("generate message id: %w", err)
		}
		msg.ID = id.String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = l.now()
	}
	msg = msg.clone()

	l.mu.Lock()
	if _, exists := l.index[msg.ID]; exists {
		l.mu.Unlock()
		return Message{}, fmt.Errorf("%w: %s", ErrDuplicateID, msg.ID)
	}
	l.index[msg.ID] = len(l.records)
	l.records = append(l.records, msg)
	l.mu.Unlock()

	l.publish(Event{Kind: EventMessage, Message: msg.clone()})
	return msg.clone(), nil
}

// ListByConversation yields the records of conversationID in ascending
// timestamp order, ties broken by insertion order. The sequence is evaluated
// when iterated, so it can be ranged over again to see newer records.
func (l *Log) ListByConversation(conversationID string) iter.Seq[Message] {
	return func(yield func(Message) bool) {
		l.mu.RLock()
		var matched []Message
		for _, m := range l.records {
			if m.ConversationID == conversationID {
				matched = append(matched, m.clone())
			}
		}
		l.mu.RUnlock()

		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].Timestamp.Before(matched[j].Timestamp)
		})
		for _, m := range matched {
			if !yield(m) {
				return
			}
		}
	}
}

// Messages collects ListByConversation into a slice.
func (l *Log) Messages(conversationID string) []Message {
	return slices.Collect(l.ListByConversation(conversationID))
}

func (l *Log) Get(id string) (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i, ok := l.index[id]
	if !ok {
		return Message{}, false
	}
	return l.records[i].clone(), true
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// UpdateTranslation sets the translation of record id. It reports false when
// the id is unknown or the record is already translated into lang. A
// different language replaces the previous translation.
func (l *Log) UpdateTranslation(id, text string, lang Language) bool {
	l.mu.Lock()
	i, ok := l.index[id]
	if !ok || l.records[i].Translation.In(lang) {
		l.mu.Unlock()
		return false
	}
	l.records[i].Translation = NewTranslation(text, lang)
	updated := l.records[i].clone()
	l.mu.Unlock()

	l.publish(Event{Kind: EventTranslation, Message: updated})
	return true
}

// Summary describes one conversation from the point of view of a viewer.
type Summary struct {
	ID          string   `json:"id"`
	PartnerID   string   `json:"partnerId"`
	LastMessage *Message `json:"lastMessage,omitempty"`
}

// Conversations lists the conversations viewer takes part in. The assistant
// conversation is always present; it comes first while it has no messages,
// the rest are ordered by most recent message.
func (l *Log) Conversations(viewer string) []Summary {
	latest := make(map[string]Message)
	var partners []string

	l.mu.RLock()
	for _, m := range l.records {
		var partner string
		switch viewer {
		case m.SenderID:
			partner = m.RecipientID
		case m.RecipientID:
			partner = m.SenderID
		default:
			continue
		}
		prev, seen := latest[partner]
		if !seen {
			partners = append(partners, partner)
		}
		if !seen || !m.Timestamp.Before(prev.Timestamp) {
			latest[partner] = m.clone()
		}
	}
	l.mu.RUnlock()

	if _, ok := latest[AssistantID]; !ok && viewer != AssistantID {
		partners = append(partners, AssistantID)
	}

	out := make([]Summary, 0, len(partners))
	for _, p := range partners {
		s := Summary{ID: ConversationID(viewer, p), PartnerID: p}
		if m, ok := latest[p]; ok {
			s.LastMessage = &m
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.LastMessage == nil || b.LastMessage == nil {
			if a.LastMessage == nil && a.PartnerID == AssistantID {
				return true
			}
			if b.LastMessage == nil && b.PartnerID == AssistantID {
				return false
			}
			return a.LastMessage != nil
		}
		return a.LastMessage.Timestamp.After(b.LastMessage.Timestamp)
	})
	return out
}

// Subscribe registers a listener for log events. Events are dropped for a
// subscriber whose buffer is full. The returned func unsubscribes and closes the channel.
func (l *Log) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	l.subMu.Lock()
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch
	l.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.subMu.Lock()
			delete(l.subs, id)
			l.subMu.Unlock()
			close(ch)
		})
	}
}

func (l *Log) publish(evt Event) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	for _, ch := range l.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
