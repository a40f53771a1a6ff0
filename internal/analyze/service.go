package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/ayush/study-search-analyzer/internal/models"
)

// Instruction is the system prompt sent with every query.
const Instruction = "Extract keywords describing the study environment preferences (e.g. quiet, outdoors, wifi, outlets). Return only the keywords in a list."

const schemaName = "study_preferences"

var (
	// ErrProviderFailure wraps every provider error that is not a timeout.
	ErrProviderFailure = errors.New("provider failure")
	// ErrProviderTimeout means the provider did not answer within the configured timeout.
	ErrProviderTimeout = errors.New("provider timeout")
)

// Extractor turns a free-text search query into study-environment keywords.
type Extractor interface {
	Extract(ctx context.Context, query string) (*models.StudyPreferences, error)
}

// ---------------------------------------------------------------------------
// ProviderClient — calls an OpenAI-compatible chat completions endpoint
// ---------------------------------------------------------------------------

// ProviderClient is built once at startup and shared by all requests.
type ProviderClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	schema  *jsonschema.Definition
}

func NewProviderClient(apiKey, baseURL, model string, timeout time.Duration) (*ProviderClient, error) {
	schema, err := jsonschema.GenerateSchemaForType(models.StudyPreferences{})
	if err != nil {
		return nil, fmt.Errorf("study preferences schema: %w", err)
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")

	return &ProviderClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
		schema:  schema,
	}, nil
}

// Extract makes exactly one chat completion call, bounded by the client timeout.
func (c *ProviderClient) Extract(ctx context.Context, query string) (*models.StudyPreferences, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: Instruction},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: c.schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s: %w", ErrProviderTimeout, c.timeout, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrProviderFailure)
	}

	prefs, err := decodePreferences(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}
	return prefs, nil
}

// decodePreferences parses the structured output. A null keyword list becomes
// an empty one; a missing or mistyped one is an error.
func decodePreferences(content string) (*models.StudyPreferences, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(unfence(content)), &fields); err != nil {
		return nil, fmt.Errorf("decode structured output: %w", err)
	}
	raw, ok := fields["keywords"]
	if !ok {
		return nil, errors.New("structured output has no keywords field")
	}

	var keywords []string
	if err := json.Unmarshal(raw, &keywords); err != nil {
		return nil, fmt.Errorf("decode keywords: %w", err)
	}
	if keywords == nil {
		keywords = []string{}
	}
	return &models.StudyPreferences{Keywords: keywords}, nil
}

var fenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*\\n?(.*?)\\n?```$")

// unfence strips a Markdown code fence around the content, if there is one.
func unfence(content string) string {
	content = strings.TrimSpace(content)
	if m := fenceRe.FindStringSubmatch(content); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return content
}
