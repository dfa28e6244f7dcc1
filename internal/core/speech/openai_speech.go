// Package speech provides voice capabilities on top of the OpenAI audio
// endpoints. Both directions are optional features of the server.
package speech

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/csg-hackathon/dilbot/internal/core"
)

type OpenAISpeech struct {
	client openai.Client
}

func NewOpenAISpeech(apiKey string) *OpenAISpeech {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return &OpenAISpeech{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

func (s *OpenAISpeech) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	resp, err := s.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  openai.File(audio, filename, "application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}
	return resp.Text, nil
}

// Synthesize returns MP3 bytes for the given text.
func (s *OpenAISpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := s.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModelTTS1,
		Voice: openai.AudioSpeechNewParamsVoiceAlloy,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("tts synthesize: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts body: %w", err)
	}
	return audio, nil
}

var (
	_ core.Transcriber = (*OpenAISpeech)(nil)
	_ core.Speaker     = (*OpenAISpeech)(nil)
)
