package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/pkg/models"
)

// Model wraps a langchaingo LLM behind the LanguageModel interface.
type Model struct {
	llm       llms.Model
	provider  string
	modelName string
}

// New creates a LanguageModel based on configuration.
func New(cfg config.LLMConfig) (*Model, error) {
	var model llms.Model
	var modelName string
	var err error

	switch cfg.Provider {
	case "ollama":
		modelName = cfg.Ollama.Model
		model, err = ollama.New(
			ollama.WithModel(cfg.Ollama.Model),
			ollama.WithServerURL(cfg.Ollama.BaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case "openai":
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key required")
		}
		modelName = cfg.OpenAI.Model
		model, err = openai.New(
			openai.WithToken(cfg.OpenAI.APIKey),
			openai.WithModel(cfg.OpenAI.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case "anthropic":
		if cfg.Anthropic.APIKey == "" {
			return nil, fmt.Errorf("Anthropic API key required")
		}
		modelName = cfg.Anthropic.Model
		model, err = anthropic.New(
			anthropic.WithToken(cfg.Anthropic.APIKey),
			anthropic.WithModel(cfg.Anthropic.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("create anthropic model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}

	return &Model{
		llm:       model,
		provider:  cfg.Provider,
		modelName: modelName,
	}, nil
}

func (m *Model) Name() string  { return m.provider }
func (m *Model) Model() string { return m.modelName }

func (m *Model) ExtractSegments(ctx context.Context, req SegmentRequest) ([]models.Segment, error) {
	userPrompt := buildSegmentPrompt(req)

	raw, err := m.generateWithSystem(ctx, segmentSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var out struct {
		Segments []models.Segment `json:"segments"`
	}
	if err := decodeJSONResponse(raw, &out); err != nil {
		return nil, err
	}
	return out.Segments, nil
}

func (m *Model) GenerateMetadata(ctx context.Context, req MetadataRequest) (*Metadata, error) {
	userPrompt := buildMetadataPrompt(req)

	raw, err := m.generateWithSystem(ctx, metadataSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := decodeJSONResponse(raw, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (m *Model) generateWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userPrompt),
	}

	// Temperature 0 keeps segment selection reproducible for the same
	// transcript.
	response, err := m.llm.GenerateContent(ctx, messages, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrInvalidResponse)
	}

	return response.Choices[0].Content, nil
}

// decodeJSONResponse parses a model reply into v, tolerating markdown code
// fences and prose around the JSON object.
func decodeJSONResponse(raw string, v any) error {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+3:]
		s = strings.TrimPrefix(s, "json")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	start := strings.IndexAny(s, "{[")
	end := strings.LastIndexAny(s, "}]")
	if start < 0 || end < start {
		return fmt.Errorf("%w: no JSON object found", ErrInvalidResponse)
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
