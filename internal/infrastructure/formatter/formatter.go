// Package formatter implements the AI-assisted structured extraction step on
// the OpenAI chat-completions API: one low-temperature forced-JSON request,
// strict schema validation, and exactly one repair retry when validation
// fails. Transport failures are never repaired.
package formatter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"propupkeep/internal/bootstrap/logging"
	"propupkeep/internal/domain/issue"
	"propupkeep/internal/faults"
	"propupkeep/internal/ports"
)

const requestTemperature = 0.2

const (
	msgFormattingFailed   = "We could not format this note right now. Please edit and try again."
	msgServiceUnavailable = "AI service is temporarily unavailable. Please try again shortly."
	msgNetworkError       = "Network error while contacting AI service. Please retry."
	msgUnexpectedResponse = "AI service returned an unexpected response format."
	msgMissingAPIKey      = "AI formatting is unavailable. Set the OpenAI API key to enable this feature."
)

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenAIFormatter implements ports.IssueFormatter. Each call is independent;
// the formatter holds no shared mutable state and is safe for concurrent use.
type OpenAIFormatter struct {
	cfg    Config
	client openai.Client
}

var _ ports.IssueFormatter = (*OpenAIFormatter)(nil)

// New builds a formatter. Extra request options are appended last so tests
// can inject an HTTP client.
func New(cfg Config, opts ...option.RequestOption) *OpenAIFormatter {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// The single schema-repair retry is a logical retry; transport-level
		// retries are disabled so a provider failure surfaces once.
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(cfg.Timeout))
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	return &OpenAIFormatter{
		cfg:    cfg,
		client: openai.NewClient(clientOpts...),
	}
}

func (f *OpenAIFormatter) FormatIssue(ctx context.Context, req ports.FormatRequest) (issue.AIFormattedIssue, error) {
	if f.cfg.APIKey == "" {
		return issue.AIFormattedIssue{}, faults.Configuration(msgMissingAPIKey)
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "formatter"))

	userPrompt := buildUserPrompt(req)
	initialContent, err := f.chatCompletion(logCtx,
		teamBriefSystemPrompt+"\n\n"+jsonOutputInstructions, userPrompt)
	if err != nil {
		return issue.AIFormattedIssue{}, err
	}

	formatted, firstErr := parseAndValidate(initialContent)
	if firstErr == nil {
		return formatted, nil
	}

	logging.Warn(logCtx, "initial response invalid, attempting single repair retry",
		slog.String("validation_error", firstErr.Error()))

	repairedContent, err := f.chatCompletion(logCtx,
		teamBriefSystemPrompt, buildRepairPrompt(req, initialContent, firstErr.Error()))
	if err != nil {
		return issue.AIFormattedIssue{}, err
	}

	formatted, secondErr := parseAndValidate(repairedContent)
	if secondErr != nil {
		logging.Error(logCtx, "response invalid after repair retry",
			slog.String("validation_error", secondErr.Error()))
		return issue.AIFormattedIssue{}, faults.Formatting(msgFormattingFailed, secondErr.Error(), secondErr)
	}
	return formatted, nil
}

func (f *OpenAIFormatter) chatCompletion(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	completion, err := f.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(f.cfg.Model),
		Temperature: openai.Float(requestTemperature),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", faults.Formatting(msgServiceUnavailable,
				fmt.Sprintf("HTTP %d: %s", apiErr.StatusCode, apiErr.Error()), err)
		}
		return "", faults.Formatting(msgNetworkError, err.Error(), err)
	}

	if len(completion.Choices) == 0 {
		return "", faults.Formatting(msgUnexpectedResponse, "response carried no choices", nil)
	}
	return completion.Choices[0].Message.Content, nil
}

func parseAndValidate(content string) (issue.AIFormattedIssue, error) {
	payload, err := extractJSONPayload(content)
	if err != nil {
		return issue.AIFormattedIssue{}, err
	}
	return issue.ParseAIFormattedIssue(payload)
}

var (
	leadingFence  = regexp.MustCompile("^```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// extractJSONPayload locates the JSON object in a model response: direct
// parse first, code fences stripped, then a greedy first-{ to last-} span
// across the whole text.
func extractJSONPayload(content string) ([]byte, error) {
	text := strings.TrimSpace(content)
	if strings.HasPrefix(text, "```") {
		text = leadingFence.ReplaceAllString(text, "")
		text = trailingFence.ReplaceAllString(text, "")
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		if _, ok := parsed.(map[string]any); !ok {
			return nil, fmt.Errorf("AI response JSON must be an object")
		}
		return []byte(text), nil
	}

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first < 0 || last <= first {
		return nil, fmt.Errorf("no JSON object found in the AI response")
	}

	span := text[first : last+1]
	var spanParsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &spanParsed); err != nil {
		return nil, fmt.Errorf("no JSON object found in the AI response")
	}
	return []byte(span), nil
}
