package chat

import (
	"sync"
	"time"
)

// GreetingText is the first assistant message seeded for the current user.
const GreetingText = "Hello! I'm your multilingual assistant. How can I help you today? I can also translate your messages to other users!"

// State is the application state shared by the HTTP handlers: the message
// log and the display language each viewer selected.
type State struct {
	Log *Log

	mu        sync.RWMutex
	languages map[string]Language
}

func NewState(log *Log) *State {
	if log == nil {
		log = NewLog()
	}
	return &State{Log: log, languages: make(map[string]Language)}
}

// DisplayLanguage returns the language viewer reads messages in; DefaultLanguage until set.
func (s *State) DisplayLanguage(viewer string) Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if lang, ok := s.languages[viewer]; ok {
		return lang
	}
	return DefaultLanguage
}

func (s *State) setDisplayLanguage(viewer string, lang Language) {
	s.mu.Lock()
	s.languages[viewer] = lang
	s.mu.Unlock()
}

// Seed appends the initial messages for currentUser: an assistant greeting
// five minutes ago and a note from peerID two minutes ago.
func (s *State) Seed(currentUser, peerID string, now time.Time) error {
	if currentUser == "" {
		return nil
	}
	seeds := []Message{
		{
			SenderID:     AssistantID,
			RecipientID:  currentUser,
			OriginalText: GreetingText,
			Timestamp:    now.Add(-5 * time.Minute),
		},
	}
	if peerID != "" && peerID != currentUser {
		seeds = append(seeds, Message{
			SenderID:     peerID,
			RecipientID:  currentUser,
			OriginalText: "Hi Alex! Saw your profile, cool stuff!",
			Timestamp:    now.Add(-2 * time.Minute),
		})
	}
	for _, m := range seeds {
		if _, err := s.Log.Append(m); err != nil {
			return err
		}
	}
	return nil
}
