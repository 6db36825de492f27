//go:generate go run go.uber.org/mock/mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks
package chat

import "context"

// Reply is the assistant's answer to a prompt, with citations when grounded.
type Reply struct {
	Text    string
	Sources []Source
}

// Responder generates assistant replies. grounded asks for search-backed answers.
type Responder interface {
	Respond(ctx context.Context, prompt string, grounded bool) (Reply, error)
}

// Translator translates text into lang.
type Translator interface {
	Translate(ctx context.Context, text string, lang Language) (string, error)
}
