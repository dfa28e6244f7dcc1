package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/csg-hackathon/dilbot/internal/core"
)

// OpenAILLM is the OpenAI-backed provider. It covers embeddings,
// classification, generation and translation so a deployment can run on
// a single API key.
type OpenAILLM struct {
	client     openai.Client
	genModel   string
	embedModel string
}

func NewOpenAILLM(apiKey, genModel, embedModel string) *OpenAILLM {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if genModel == "" {
		genModel = openai.ChatModelGPT4oMini
	}
	if embedModel == "" {
		embedModel = string(openai.EmbeddingModelTextEmbedding3Small)
	}
	return &OpenAILLM{
		client:     openai.NewClient(option.WithAPIKey(apiKey)),
		genModel:   genModel,
		embedModel: embedModel,
	}
}

func (o *OpenAILLM) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(o.embedModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embed: got %d vectors for %d texts", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float32(v)
		}
		out[i] = vec
	}
	return out, nil
}

func (o *OpenAILLM) Generate(ctx context.Context, quote, userInput, username string) (string, error) {
	resp, err := o.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:        o.genModel,
		Instructions: openai.String(generateSystemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(
					generateUserPrompt(quote, userInput, username),
					responses.EasyInputMessageRoleUser,
				),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}
	return resp.OutputText(), nil
}

var classificationSchema = generateSchema[classification]()

func (o *OpenAILLM) Classify(ctx context.Context, text string) (string, float64, error) {
	resp, err := o.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:        o.genModel,
		Instructions: openai.String(classifySystemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:   "emotion_classification",
					Schema: classificationSchema,
					Strict: openai.Bool(true),
					Type:   "json_schema",
				},
			},
		},
	})
	if err != nil {
		return "", 0, fmt.Errorf("openai classify: %w", err)
	}

	var out classification
	if err := json.Unmarshal([]byte(resp.OutputText()), &out); err != nil {
		return "", 0, fmt.Errorf("openai classify: decode %q: %w", resp.OutputText(), err)
	}
	return strings.ToLower(strings.TrimSpace(out.Emotion)), clampConfidence(out.Confidence), nil
}

func (o *OpenAILLM) Translate(ctx context.Context, text, lang string) (string, error) {
	resp, err := o.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:        o.genModel,
		Instructions: openai.String(fmt.Sprintf("Translate the user's message into %s. Reply with the translation only.", lang)),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai translate: %w", err)
	}
	return resp.OutputText(), nil
}

func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		panic(err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

var (
	_ core.EmbeddingProvider = (*OpenAILLM)(nil)
	_ core.Classifier        = (*OpenAILLM)(nil)
	_ core.Generator         = (*OpenAILLM)(nil)
	_ core.Translator        = (*OpenAILLM)(nil)
)
