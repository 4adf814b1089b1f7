package platform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"deckhand-hq/deckhand/pkg/deploy"
)

// Config contains configuration for the platform API client.
type Config struct {
	// BaseURL is the platform API endpoint, e.g. "https://api.pages.example.com/v1".
	BaseURL string

	// Token is the API token sent as a bearer credential.
	Token string

	// Project is the project whose deployments are managed.
	Project string

	// Timeout is the per-request timeout.
	// Default: 30s
	Timeout time.Duration

	// MaxRetries is the number of retries for transient failures
	// (5xx responses and network errors).
	// Default: 3
	MaxRetries int

	// PerPage is the page size used when listing deployments.
	// Default: 25
	PerPage int

	// MaxIdleConns bounds the connection pool.
	// Default: 10
	MaxIdleConns int
}

// Client talks to the hosting platform's deployment API. It is
// constructed explicitly per run and owned by the caller; there is no
// process-wide instance.
type Client struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a platform API client with a pooled transport.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("platform base URL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid platform base URL: %w", err)
	}
	if config.Token == "" {
		return nil, fmt.Errorf("platform API token is required")
	}
	if config.Project == "" {
		return nil, fmt.Errorf("platform project is required")
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.PerPage <= 0 {
		config.PerPage = 25
	}
	if config.MaxIdleConns <= 0 {
		config.MaxIdleConns = 10
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConns,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	return &Client{
		config: config,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		logger: slog.Default().With("component", "platform.client"),
	}, nil
}

// ListDeployments fetches every deployment of the project, following
// pagination until exhausted. A non-empty envFilter is passed to the
// platform so records are pre-filtered server-side. Any malformed record
// fails the whole listing.
func (c *Client) ListDeployments(ctx context.Context, envFilter deploy.Environment) ([]deploy.Deployment, error) {
	var all []deploy.Deployment

	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/projects/%s/deployments?page=%d&per_page=%d",
			c.config.BaseURL, url.PathEscape(c.config.Project), page, c.config.PerPage)
		if envFilter != "" {
			u += "&env=" + url.QueryEscape(string(envFilter))
		}

		body, err := c.doRequest(ctx, http.MethodGet, u, "list_deployments")
		if err != nil {
			return nil, err
		}

		var resp listResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, &DecodeError{Cause: err}
		}

		for _, payload := range resp.Deployments {
			d, err := payload.toDeployment()
			if err != nil {
				return nil, err
			}
			all = append(all, d)
		}

		if resp.TotalPages == 0 || page >= resp.TotalPages {
			break
		}
	}

	c.logger.Debug("deployments listed",
		"project", c.config.Project,
		"environment", string(envFilter),
		"count", len(all),
	)

	return all, nil
}

// DeleteDeployment removes one deployment by identifier. Deleting an
// unknown identifier returns NotFoundError; this is never a silent no-op.
func (c *Client) DeleteDeployment(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("deployment id is required")
	}

	u := fmt.Sprintf("%s/projects/%s/deployments/%s",
		c.config.BaseURL, url.PathEscape(c.config.Project), url.PathEscape(id))

	_, err := c.doRequest(ctx, http.MethodDelete, u, "delete_deployment")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return &NotFoundError{ID: id}
		}
		return err
	}

	c.logger.Debug("deployment deleted", "id", id)
	return nil
}

// ActiveProductionID asks the platform for the deployment currently
// serving production traffic. An empty string means the platform does
// not know.
func (c *Client) ActiveProductionID(ctx context.Context) (string, error) {
	u := fmt.Sprintf("%s/projects/%s", c.config.BaseURL, url.PathEscape(c.config.Project))

	body, err := c.doRequest(ctx, http.MethodGet, u, "get_project")
	if err != nil {
		return "", err
	}

	var resp projectResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &DecodeError{Cause: err}
	}

	return resp.CanonicalDeployment.ID, nil
}

// doRequest performs an HTTP request with retry on transient failures.
// 5xx responses and network errors retry with exponential backoff;
// auth, rate-limit and other 4xx responses fail immediately.
func (c *Client) doRequest(ctx context.Context, method, u, operation string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			c.logger.Debug("retrying request",
				"operation", operation,
				"attempt", attempt,
				"max_retries", c.config.MaxRetries,
				"backoff", backoff,
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, u, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.logger.Warn("request failed, will retry",
				"operation", operation,
				"attempt", attempt+1,
				"error", err,
			)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if readErr != nil {
				return nil, fmt.Errorf("failed to read response: %w", readErr)
			}
			return body, nil
		}

		message := apiErrorMessage(body)

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, &AuthError{Message: message}

		case http.StatusTooManyRequests:
			return nil, &RateLimitError{
				RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
				Message:    message,
			}
		}

		if resp.StatusCode >= 500 {
			lastErr = &APIError{
				Operation:  operation,
				StatusCode: resp.StatusCode,
				Message:    message,
			}
			c.logger.Warn("server error, will retry",
				"operation", operation,
				"status", resp.StatusCode,
				"attempt", attempt+1,
			)
			continue
		}

		// Remaining 4xx: not transient, surface as-is.
		return nil, &APIError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	return nil, &APIError{
		Operation: operation,
		Message:   fmt.Sprintf("request failed after %d retries", c.config.MaxRetries),
		Cause:     lastErr,
	}
}

// apiErrorMessage extracts the platform's error message, falling back to
// the raw body.
func apiErrorMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return string(body)
}

// parseRetryAfter parses a Retry-After header value in seconds.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
