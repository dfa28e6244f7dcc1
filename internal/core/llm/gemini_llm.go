package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/csg-hackathon/dilbot/internal/core"
)

// GeminiLLM backs both the Generator and Classifier capabilities with
// the Gemini API.
type GeminiLLM struct {
	client    *genai.Client
	modelName string
}

func NewGeminiLLM(ctx context.Context, apiKey, modelName string) (*GeminiLLM, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiLLM{client: cl, modelName: modelName}, nil
}

func (g *GeminiLLM) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate produces the supportive reply grounded on the best-matching
// quote.
func (g *GeminiLLM) Generate(ctx context.Context, quote, userInput, username string) (string, error) {
	m := g.client.GenerativeModel(g.modelName)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(generateSystemPrompt)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(generateUserPrompt(quote, userInput, username)))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini generate: empty response")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

// Classify detects the dominant emotion of text using JSON-mode output.
func (g *GeminiLLM) Classify(ctx context.Context, text string) (string, float64, error) {
	m := g.client.GenerativeModel(g.modelName)
	m.ResponseMIMEType = "application/json"
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(classifySystemPrompt)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return "", 0, fmt.Errorf("gemini classify: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", 0, fmt.Errorf("gemini classify: empty response")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	var out classification
	if err := json.Unmarshal([]byte(strings.TrimSpace(b.String())), &out); err != nil {
		return "", 0, fmt.Errorf("gemini classify: decode %q: %w", b.String(), err)
	}
	return strings.ToLower(strings.TrimSpace(out.Emotion)), clampConfidence(out.Confidence), nil
}

var (
	_ core.Generator  = (*GeminiLLM)(nil)
	_ core.Classifier = (*GeminiLLM)(nil)
)
