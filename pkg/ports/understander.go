package ports

import (
	"context"
	"io"

	"github.com/mintaka-labs/pennywise/pkg/nlu"
)

// Understander resolves user input into a structured NLU payload.
// Network retry policy is the implementation's concern; the engine
// issues at most one call per turn and propagates failures as-is.
type Understander interface {
	// Message analyzes a text utterance.
	Message(ctx context.Context, text string) (*nlu.Payload, error)

	// Speech analyzes a voice recording.
	Speech(ctx context.Context, audio io.Reader, contentType string) (*nlu.Payload, error)
}
