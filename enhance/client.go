package enhance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/openai/openai-go/v3/shared"
)

// Enhancement errors.
var (
	// ErrFailed indicates the remote call reported a failure.
	ErrFailed = errors.New("enhancement failed")

	// ErrMalformedResponse indicates the response held no usable message.
	ErrMalformedResponse = errors.New("malformed enhancement response")
)

// Config holds the fixed enhancement request parameters.
type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string
	MaxTokens    int64
	Temperature  float64

	// ToolName is the single fixed function declaration sent with every
	// request.
	ToolName string

	// Markers override the response section labels.
	Markers Markers

	// HTTPClient overrides the underlying HTTP client.
	HTTPClient *http.Client
}

// Client submits transcripts to the remote chat-completion endpoint and
// parses the marker-delimited reply.
type Client struct {
	ai           openaigo.Client
	model        string
	systemPrompt string
	maxTokens    int64
	temperature  float64
	toolName     string
	markers      Markers
	logger       *slog.Logger
}

// NewClient creates an enhancement client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	markers := cfg.Markers
	if markers == (Markers{}) {
		markers = DefaultMarkers()
	}

	// The SDK resolves endpoint paths against the base URL, so it must
	// end with the /v1/ segment and a trailing slash.
	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/") + "/v1/"),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Client{
		ai:           openaigo.NewClient(opts...),
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		toolName:     cfg.ToolName,
		markers:      markers,
		logger:       logger,
	}
}

// Enhance sends the transcript and returns the parsed structured result.
// Missing response sections leave the matching fields empty; only an
// unusable response fails with ErrMalformedResponse.
func (c *Client) Enhance(ctx context.Context, text string) (Result, error) {
	params := openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(c.model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(c.systemPrompt),
			openaigo.UserMessage(text),
		},
		MaxTokens:   openaigo.Int(c.maxTokens),
		Temperature: openaigo.Float(c.temperature),
		Tools: []openaigo.ChatCompletionToolUnionParam{
			openaigo.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
				Name:        c.toolName,
				Description: param.NewOpt(""),
				Strict:      param.NewOpt(true),
				Parameters:  shared.FunctionParameters{},
			}),
		},
	}

	c.logger.Debug("enhancing transcript", "model", c.model, "chars", len(text))

	resp, err := c.ai.Chat.Completions.New(ctx, params)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrFailed, err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return Result{}, fmt.Errorf("%w: empty message content", ErrMalformedResponse)
	}

	return Parse(content, c.markers), nil
}
