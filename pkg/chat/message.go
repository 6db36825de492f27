package chat

import (
	"encoding/json"
	"strings"
	"time"
)

// Language is a display language a viewer can ask messages to be translated into.
type Language string

const (
	English           Language = "English"
	Spanish           Language = "Spanish"
	French            Language = "French"
	German            Language = "German"
	Japanese          Language = "Japanese"
	Korean            Language = "Korean"
	ChineseSimplified Language = "Chinese (Simplified)"

	DefaultLanguage = English
)

var languageCodes = map[Language]string{
	English:           "en",
	Spanish:           "es",
	French:            "fr",
	German:            "de",
	Japanese:          "ja",
	Korean:            "ko",
	ChineseSimplified: "zh",
}

// Languages lists the supported display languages in menu order.
func Languages() []Language {
	return []Language{English, Spanish, French, German, Japanese, Korean, ChineseSimplified}
}

// Code returns the ISO 639-1 code of l, or "" when l is unknown.
func (l Language) Code() string {
	return languageCodes[l]
}

func (l Language) Valid() bool {
	_, ok := languageCodes[l]
	return ok
}

// ParseLanguage accepts a display name ("Spanish") or an ISO code ("es"), case-insensitively.
func ParseLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for lang, code := range languageCodes {
		if strings.EqualFold(s, string(lang)) || strings.EqualFold(s, code) {
			return lang, true
		}
	}
	return "", false
}

// Source is a citation attached to a grounded assistant reply.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Translation is either untranslated (the zero value) or a translated text in one language.
type Translation struct {
	text     string
	language Language
}

// Untranslated is the state of a record that has no translation yet.
var Untranslated = Translation{}

func NewTranslation(text string, lang Language) Translation {
	return Translation{text: text, language: lang}
}

func (t Translation) IsTranslated() bool { return t.language != "" }
func (t Translation) Text() string       { return t.text }
func (t Translation) Language() Language { return t.language }

// In reports whether t holds a translation into lang.
func (t Translation) In(lang Language) bool {
	return t.IsTranslated() && t.language == lang
}

// Message is one record of the message log. Once appended, ID, sender,
// recipient, OriginalText and Timestamp never change; only Translation does.
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	RecipientID    string
	OriginalText   string
	Timestamp      time.Time
	Sources        []Source
	Translation    Translation
}

type messageJSON struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	RecipientID    string    `json:"recipientId"`
	OriginalText   string    `json:"originalText"`
	TranslatedText string    `json:"translatedText,omitempty"`
	TargetLanguage Language  `json:"targetLanguage,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Sources        []Source  `json:"sources,omitempty"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageJSON{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		RecipientID:    m.RecipientID,
		OriginalText:   m.OriginalText,
		TranslatedText: m.Translation.Text(),
		TargetLanguage: m.Translation.Language(),
		Timestamp:      m.Timestamp,
		Sources:        m.Sources,
	})
}

func (m *Message) UnmarshalJSON(data []byte) error {
	var raw messageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Message{
		ID:             raw.ID,
		ConversationID: raw.ConversationID,
		SenderID:       raw.SenderID,
		RecipientID:    raw.RecipientID,
		OriginalText:   raw.OriginalText,
		Timestamp:      raw.Timestamp,
		Sources:        raw.Sources,
	}
	if raw.TargetLanguage != "" {
		m.Translation = NewTranslation(raw.TranslatedText, raw.TargetLanguage)
	}
	return nil
}

// clone copies the slice fields so callers never share backing arrays with the log.
func (m Message) clone() Message {
	if m.Sources != nil {
		m.Sources = append([]Source(nil), m.Sources...)
	}
	return m
}
