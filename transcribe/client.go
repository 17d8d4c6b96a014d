package transcribe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/randalmurphal/voicememo/httpx"
)

// Transcription errors.
var (
	// ErrFailed indicates the remote call reported a failure.
	ErrFailed = errors.New("transcription failed")

	// ErrMalformedResponse indicates the response lacked the expected
	// text field.
	ErrMalformedResponse = errors.New("malformed transcription response")
)

// Endpoint is the transcription path on the remote service.
const Endpoint = "/v1/audio/transcriptions"

// Config holds the fixed transcription request parameters.
type Config struct {
	BaseURL  string
	APIKey   string
	Model    string
	Language string

	// Filename is the name sent for the audio part (default: "audio.wav").
	Filename string

	// HTTPClient overrides the underlying HTTP client.
	HTTPClient *http.Client
}

// Client submits audio to the remote speech-to-text endpoint.
type Client struct {
	http     *httpx.Client
	model    string
	language string
	filename string
	logger   *slog.Logger
}

// NewClient creates a transcription client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		model:    cfg.Model,
		language: cfg.Language,
		filename: cfg.Filename,
		logger:   logger,
	}
	if c.filename == "" {
		c.filename = "audio.wav"
	}
	c.http = httpx.NewClient(httpx.ClientConfig{
		Client:        cfg.HTTPClient,
		BaseURL:       cfg.BaseURL,
		ServiceName:   "transcription",
		BeforeRequest: httpx.BearerAuth(cfg.APIKey),
	})
	return c
}

type response struct {
	Text *string `json:"text"`
}

// Transcribe sends the encoded audio and returns the recognized text. It
// fails with ErrFailed when the HTTP layer reports a non-success status
// and with ErrMalformedResponse when the text field is absent.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"model", c.model},
		{"language", c.language},
		{"response_format", "json"},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return "", fmt.Errorf("write form field %s: %w", f[0], err)
		}
	}

	part, err := writer.CreateFormFile("file", c.filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	c.logger.Debug("transcribing audio", "bytes", len(audio), "model", c.model)

	var resp response
	if err := c.http.PostMultipart(ctx, Endpoint, writer.FormDataContentType(), &buf, &resp); err != nil {
		var apiErr *httpx.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: status %d: %s", ErrFailed, apiErr.StatusCode, apiErr.Message)
		}
		return "", fmt.Errorf("%w: %v", ErrFailed, err)
	}

	if resp.Text == nil {
		return "", fmt.Errorf("%w: missing text field", ErrMalformedResponse)
	}
	return *resp.Text, nil
}
