package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/quocvuong92/gemini-chat/internal/config"
	"github.com/quocvuong92/gemini-chat/internal/constants"
	"github.com/quocvuong92/gemini-chat/internal/logging"
)

// GeminiClient is the Gemini generateContent API client
type GeminiClient struct {
	httpClient *http.Client
	config     *config.Config
}

// NewGeminiClient creates a new Gemini client. The proxy, when set, is
// used for every request. With debug enabled, HTTP traffic is logged to
// logger.
func NewGeminiClient(cfg *config.Config, logger *logging.Logger) (*GeminiClient, error) {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("unexpected default transport type %T", http.DefaultTransport)
	}
	httpTransport := base.Clone()

	if cfg.Proxy != "" {
		proxyURL, err := config.ParseProxyURL(cfg.Proxy)
		if err != nil {
			return nil, err
		}
		httpTransport.Proxy = http.ProxyURL(proxyURL)
	}

	var transport http.RoundTripper = httpTransport
	if cfg.Debug && logger != nil {
		transport = logging.NewLoggingRoundTripper(httpTransport, logging.NewHTTPLogger(logger), true)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultAPITimeout
	}

	return &GeminiClient{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		config: cfg,
	}, nil
}

// endpointURL builds the generateContent URL with the API key as query parameter
func (c *GeminiClient) endpointURL() string {
	baseURL := strings.TrimSuffix(c.config.BaseURL, "/")
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}
	model := c.config.Model
	if model == "" {
		model = constants.DefaultModel
	}
	return fmt.Sprintf("%s/%s/models/%s:generateContent?key=%s",
		baseURL, constants.DefaultAPIVersion, url.PathEscape(model), url.QueryEscape(c.config.APIKey))
}

// GenerateContent sends one generateContent request. The HTTP status is
// not inspected: any JSON body is parsed and returned so that Text can
// surface the embedded error. Network failures and non-JSON bodies are
// returned as *TransportError.
func (c *GeminiClient) GenerateContent(ctx context.Context, reqBody *GenerateContentRequest) (*GenerateContentResponse, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(), bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: scrubKey(err, c.config.APIKey)}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var genResp GenerateContentResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, &TransportError{
			Err: fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err),
		}
	}
	genResp.StatusCode = resp.StatusCode

	return &genResp, nil
}

// scrubKey removes the API key from errors that embed the request URL
func scrubKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), url.QueryEscape(key)) {
		return err
	}
	return &scrubbedError{
		msg: strings.ReplaceAll(err.Error(), url.QueryEscape(key), "REDACTED"),
		err: err,
	}
}

type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }

func (e *scrubbedError) Unwrap() error { return e.err }
