package llm

import "fmt"

const generateSystemPrompt = `You are DilBot, an empathetic emotional support AI companion.
Use the emotional quote you are given as context to respond gently, supportively, and personally.
Respond as DilBot with warmth, empathy, and understanding. Keep it conversational and supportive.`

const classifySystemPrompt = `You are an emotion classifier. Identify the single dominant emotion
in the user's message as one of: joy, sadness, anger, fear, surprise, disgust, neutral.
Respond with JSON of the form {"emotion": "<label>", "confidence": <number between 0 and 1>}.`

func generateUserPrompt(quote, userInput, username string) string {
	return fmt.Sprintf("You are speaking with %s.\nContext quote:\n%s\n\nUser's message:\n%s", username, quote, userInput)
}

// classification is the structured output shared by both providers.
type classification struct {
	Emotion    string  `json:"emotion" jsonschema_description:"Dominant emotion label, lowercase"`
	Confidence float64 `json:"confidence" jsonschema_description:"Classifier confidence between 0 and 1"`
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
