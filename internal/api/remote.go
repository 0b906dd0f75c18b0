package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/tutorchat/internal/errors"
	"github.com/diogo/tutorchat/internal/models"
)

// RemoteClient sends prompts to a tutorchat server instead of calling the
// model API directly. The server normalizes the history.
type RemoteClient struct {
	httpClient tls_client.HttpClient
	baseURL    string
	token      string
}

// Ensure RemoteClient implements Generator
var _ Generator = (*RemoteClient)(nil)

// RemoteOption configures a RemoteClient
type RemoteOption func(*RemoteClient)

// WithToken sets the bearer token sent to the server
func WithToken(token string) RemoteOption {
	return func(c *RemoteClient) {
		c.token = token
	}
}

// WithRemoteHTTPClient injects the transport, mainly for tests
func WithRemoteHTTPClient(httpClient tls_client.HttpClient) RemoteOption {
	return func(c *RemoteClient) {
		c.httpClient = httpClient
	}
}

// NewRemoteClient creates a client for the server at baseURL
func NewRemoteClient(baseURL string, timeoutSeconds int, opts ...RemoteOption) (*RemoteClient, error) {
	if baseURL == "" {
		return nil, apierrors.NewConfigError("remote server URL is empty")
	}

	client := &RemoteClient{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		if timeoutSeconds <= 0 {
			timeoutSeconds = 300
		}
		httpClient, err := tls_client.NewHttpClient(
			tls_client.NewNoopLogger(),
			tls_client.WithTimeoutSeconds(timeoutSeconds),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Generate posts the prompt to POST /api/chat and returns the reply text.
// An empty reply is returned as "" so the caller can pick the fallback.
func (c *RemoteClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	body, err := json.Marshal(models.ChatRequest{
		Message:      prompt.Message,
		ImageDataURL: prompt.ImageDataURL,
		History:      prompt.History,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := c.baseURL + models.ChatPath
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkError("chat", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", apierrors.NewNetworkError("read chat response", endpoint, err)
	}

	if resp.StatusCode == fhttp.StatusUnauthorized {
		return "", apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, models.SignInRequiredText, string(data))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var msg string
		if gjson.ValidBytes(data) {
			msg = gjson.GetBytes(data, PathServerError).String()
		}
		if msg == "" {
			msg = fmt.Sprintf("Request failed: %d", resp.StatusCode)
		}
		return "", apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, msg, string(data))
	}

	if !gjson.ValidBytes(data) {
		return "", nil
	}
	return gjson.GetBytes(data, PathServerText).String(), nil
}
