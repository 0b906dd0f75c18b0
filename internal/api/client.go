package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/tutorchat/internal/errors"
	"github.com/diogo/tutorchat/internal/models"
)

// MissingKeyMessage is the error text when no API key is configured
const MissingKeyMessage = "Missing API_KEY in environment variables."

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// Prompt is a single submission: prior turns, the new user text and an
// optional image data URL
type Prompt struct {
	History      []models.HistoryEntry
	Message      string
	ImageDataURL string
}

// Generator produces the assistant reply for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// GeminiClient calls the Gemini generateContent REST endpoint
type GeminiClient struct {
	httpClient     tls_client.HttpClient
	apiKey         string
	model          string
	endpoint       string
	systemPrompt   string
	genConfig      models.GenerationConfig
	timeoutSeconds int
	logf           func(format string, args ...any)
	mu             sync.RWMutex
}

// Ensure GeminiClient implements Generator
var _ Generator = (*GeminiClient)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*GeminiClient)

// WithModel sets the model name
func WithModel(model string) ClientOption {
	return func(c *GeminiClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithAPIKey sets the API key sent as the key query parameter
func WithAPIKey(key string) ClientOption {
	return func(c *GeminiClient) {
		c.apiKey = key
	}
}

// WithEndpoint overrides the API base URL
func WithEndpoint(base string) ClientOption {
	return func(c *GeminiClient) {
		c.endpoint = strings.TrimRight(base, "/")
	}
}

// WithSystemPrompt sets the system instruction text
func WithSystemPrompt(prompt string) ClientOption {
	return func(c *GeminiClient) {
		c.systemPrompt = prompt
	}
}

// WithTimeout sets the transport timeout in seconds
func WithTimeout(seconds int) ClientOption {
	return func(c *GeminiClient) {
		if seconds > 0 {
			c.timeoutSeconds = seconds
		}
	}
}

// WithHTTPClient injects the transport, mainly for tests
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *GeminiClient) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a printf-style hook for diagnostics
func WithLogger(logf func(format string, args ...any)) ClientOption {
	return func(c *GeminiClient) {
		c.logf = logf
	}
}

// NewClient creates a new GeminiClient
func NewClient(opts ...ClientOption) (*GeminiClient, error) {
	client := &GeminiClient{
		model:          models.DefaultModel,
		endpoint:       models.EndpointBase,
		genConfig:      models.DefaultGenerationConfig(),
		timeoutSeconds: 300,
		logf:           func(string, ...any) {},
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(client.timeoutSeconds),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// GetModel returns the model name
func (c *GeminiClient) GetModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel changes the model name
func (c *GeminiClient) SetModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// generateURL returns the endpoint without the key, safe to show in errors
func (c *GeminiClient) generateURL() string {
	return fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.GetModel())
}

// Generate normalizes the history, builds the payload, calls the API and
// extracts the reply text
func (c *GeminiClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if c.apiKey == "" {
		return "", apierrors.NewConfigError(MissingKeyMessage)
	}

	history := NormalizeHistory(prompt.History, prompt.Message)
	contents := BuildContents(history, prompt.ImageDataURL)
	if !lastRoleIsUser(contents) {
		c.logf("[verbose] last content block is not a user turn (%d blocks)\n", len(contents))
	}

	payload, err := BuildRequest(contents, c.systemPrompt, c.genConfig)
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	endpoint := c.generateURL()
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint+"?key="+url.QueryEscape(c.apiKey),
		bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkError("generate content", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", apierrors.NewAPIErrorWithBody(
			resp.StatusCode,
			endpoint,
			geminiErrorMessage(resp.StatusCode, body),
			string(body),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierrors.NewNetworkError("read response", endpoint, err)
	}

	text := ExtractText(body)
	if text == "" {
		c.logf("[verbose] no text could be extracted from a %d byte response\n", len(body))
		return models.NoResponseText, nil
	}
	return text, nil
}

// geminiErrorMessage builds the error message of a failed request from the
// body's error.message when present, else the raw body
func geminiErrorMessage(status int, body []byte) string {
	detail := strings.TrimSpace(string(body))
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, PathGeminiErrorMessage).String(); msg != "" {
			detail = msg
		}
	}
	return strings.TrimSpace(fmt.Sprintf("Gemini request failed: %d %s %s", status, http.StatusText(status), detail))
}
