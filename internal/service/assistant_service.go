package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"github.com/noah-isme/training-crm-api/internal/locale"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

// errCompletionEmpty is returned when the provider answers without text.
var errCompletionEmpty = errors.New("completion returned no text")

// Completer sends one system instruction and one prompt and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// AIClientConfig configures the OpenAI-compatible completion endpoint.
type AIClientConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// OpenAICompleter talks to any OpenAI-compatible chat completion API.
type OpenAICompleter struct {
	client      openai.Client
	model       string
	temperature float64
	timeout     time.Duration
}

// NewOpenAICompleter builds a completer. It returns nil when no API key is set,
// which the assistant treats as a failed call.
func NewOpenAICompleter(cfg AIClientConfig) *OpenAICompleter {
	if cfg.APIKey == "" {
		return nil
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAICompleter{
		client:      openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}
}

// Complete issues a single non-streaming chat completion.
func (c *OpenAICompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(c.temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errCompletionEmpty
	}
	return resp.Choices[0].Message.Content, nil
}

// AskRequest is a free-text question for the assistant.
type AskRequest struct {
	Prompt string `json:"prompt" validate:"required,max=4000"`
}

// AssistantReply carries the answer as markdown and as rendered HTML.
// Fallback is set when the text is the fixed localized failure message.
type AssistantReply struct {
	Reply    string          `json:"reply"`
	HTML     string          `json:"html"`
	Fallback bool            `json:"fallback"`
	Language locale.Language `json:"language"`
}

// AssistantSuggestions lists the quick prompts offered before a conversation starts.
type AssistantSuggestions struct {
	Greeting    string          `json:"greeting"`
	Suggestions []string        `json:"suggestions"`
	Language    locale.Language `json:"language"`
}

// AssistantService wraps the remote completion call. Failures never reach the
// caller as errors: they become the localized fallback text. Nothing is retried.
type AssistantService struct {
	completer Completer
	metrics   *MetricsService
	markdown  goldmark.Markdown
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssistantService constructs an AssistantService. A nil completer makes every ask fall back.
func NewAssistantService(completer Completer, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AssistantService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	// Raw HTML inside replies is escaped because WithUnsafe is not set.
	md := goldmark.New(goldmark.WithRendererOptions(goldmarkHTML.WithHardWraps()))
	return &AssistantService{completer: completer, metrics: metrics, markdown: md, validator: validate, logger: logger}
}

// Ask sends prompt to the provider with the instruction for lang.
func (s *AssistantService) Ask(ctx context.Context, req AskRequest, lang locale.Language) (*AssistantReply, error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid prompt")
	}
	messages := locale.For(lang)

	if s.completer == nil || isNilCompleter(s.completer) {
		s.logger.Warn("assistant is not configured")
		return s.reply(messages.AIFailure, true, messages.Language), nil
	}

	text, err := s.completer.Complete(ctx, messages.SystemInstruction, req.Prompt)
	if err != nil {
		s.logger.Warn("assistant completion failed", zap.Error(err))
		return s.reply(messages.AIFailure, true, messages.Language), nil
	}
	if strings.TrimSpace(text) == "" {
		return s.reply(messages.AIEmpty, true, messages.Language), nil
	}
	return s.reply(text, false, messages.Language), nil
}

// Suggestions returns the greeting and quick prompts for lang.
func (s *AssistantService) Suggestions(lang locale.Language) AssistantSuggestions {
	messages := locale.For(lang)
	suggestions := make([]string, len(messages.Suggestions))
	copy(suggestions, messages.Suggestions)
	return AssistantSuggestions{Greeting: messages.Greeting, Suggestions: suggestions, Language: messages.Language}
}

func (s *AssistantService) reply(text string, fallback bool, lang locale.Language) *AssistantReply {
	s.metrics.RecordAssistantCall(fallback)
	var buf bytes.Buffer
	html := ""
	if err := s.markdown.Convert([]byte(text), &buf); err != nil {
		s.logger.Warn("failed to render assistant reply", zap.Error(err))
	} else {
		html = buf.String()
	}
	return &AssistantReply{Reply: text, HTML: html, Fallback: fallback, Language: lang}
}

func isNilCompleter(c Completer) bool {
	oc, ok := c.(*OpenAICompleter)
	return ok && oc == nil
}
