package core

import (
	"context"
	"io"
)

// EmbeddingProvider turns texts into fixed-length vectors. The same
// provider must be used to build an index and to query it.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Classifier detects the dominant emotion in a piece of text.
// Confidence is in [0, 1].
type Classifier interface {
	Classify(ctx context.Context, text string) (label string, confidence float64, err error)
}

// Generator produces the bot reply, grounded on the best-matching quote
// and personalized with the username.
type Generator interface {
	Generate(ctx context.Context, quote, userInput, username string) (string, error)
}

// Transcriber converts an uploaded voice message to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Speaker synthesizes spoken audio for a reply.
type Speaker interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Translator optionally renders a reply into the user's language.
type Translator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
}
