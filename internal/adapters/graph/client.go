// Package graph is a thin Microsoft Graph REST client covering the three
// operations the reconciler needs: paginated list, create, delete. The beta
// device-management endpoints used here have no official SDK surface, so the
// client speaks HTTP directly.
package graph

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	jsoniter "github.com/json-iterator/go"

	"github.com/intunekit/hydrator/internal/core/ports"
	"github.com/intunekit/hydrator/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultBaseURL = "https://graph.microsoft.com"
	defaultScope   = "https://graph.microsoft.com/.default"

	defaultMaxAttempts = 5
	defaultRetryBase   = 2 * time.Second
)

type Client struct {
	httpClient  *http.Client
	baseURL     string
	credential  azcore.TokenCredential
	scopes      []string
	maxAttempts int
	retryBase   time.Duration
	logger      ports.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithRetryBase(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryBase = d
		}
	}
}

func NewClient(credential azcore.TokenCredential, logger ports.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: 2 * time.Minute},
		baseURL:     DefaultBaseURL,
		credential:  credential,
		scopes:      []string{defaultScope},
		maxAttempts: defaultMaxAttempts,
		retryBase:   defaultRetryBase,
		logger:      logger.WithFields(map[string]any{"component": "graph_client"}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type listEnvelope struct {
	NextLink string           `json:"@odata.nextLink"`
	Value    []map[string]any `json:"value"`
}

// List GETs a collection endpoint and follows @odata.nextLink continuations
// until exhausted. Endpoint is a Graph-relative path; continuation links come
// back absolute and are followed as-is.
func (c *Client) List(ctx context.Context, endpoint string) ([]map[string]any, error) {
	url := c.baseURL + endpoint
	var all []map[string]any

	for page := 0; url != ""; page++ {
		body, err := c.do(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		var env listEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, errors.Wrap(err, errors.CodeGraphDecodeError,
				fmt.Sprintf("decoding list response from %s", endpoint))
		}

		all = append(all, env.Value...)
		c.logger.Debugf(ctx, "Listed page %d of %s: %d objects", page+1, endpoint, len(env.Value))
		url = env.NextLink
	}

	return all, nil
}

// Create POSTs a body to a collection endpoint and returns the created object
// as echoed back by the server.
func (c *Client) Create(ctx context.Context, endpoint string, body map[string]any) (map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeGraphDecodeError, "encoding create body")
	}

	respBody, err := c.do(ctx, http.MethodPost, c.baseURL+endpoint, payload)
	if err != nil {
		return nil, err
	}

	created := map[string]any{}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &created); err != nil {
			return nil, errors.Wrap(err, errors.CodeGraphDecodeError,
				fmt.Sprintf("decoding create response from %s", endpoint))
		}
	}
	return created, nil
}

// Delete removes one object by id from a collection endpoint.
func (c *Client) Delete(ctx context.Context, endpoint string, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.baseURL+endpoint+"/"+id, nil)
	return err
}

// do issues one HTTP call with bounded exponential-backoff retries on the
// transient classes (429, 503, 504), honoring a server-supplied Retry-After.
// Any other non-2xx status is terminal for the call.
func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	var lastStatus int

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			c.logger.Debugf(ctx, "Retrying %s %s (attempt %d/%d)", method, url, attempt+1, c.maxAttempts)
		}

		body, status, retryHeader, err := c.send(ctx, method, url, payload)
		if err != nil {
			return nil, err
		}

		if status >= 200 && status < 300 {
			return body, nil
		}

		if !isTransient(status) {
			return nil, graphError(status, method, url, body)
		}

		lastStatus = status
		delay := c.retryBase << attempt
		if ra := parseRetryAfter(retryHeader); ra > 0 {
			delay = ra
		}
		c.logger.Warnf(ctx, "Transient %d from %s %s, backing off %s", status, method, url, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.CodeGraphAPIError,
				fmt.Sprintf("cancelled while backing off from %s %s", method, url))
		}
	}

	return nil, errors.New(errors.CodeGraphThrottled,
		fmt.Sprintf("%s %s still returning %d after %d attempts", method, url, lastStatus, c.maxAttempts))
}

func (c *Client) send(ctx context.Context, method, url string, payload []byte) ([]byte, int, string, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, "", errors.Wrap(err, errors.CodeInternal, "building graph request")
	}

	token, err := c.credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: c.scopes})
	if err != nil {
		return nil, 0, "", errors.WrapUserFacing(err, errors.CodeGraphAuthError,
			"failed to acquire a Microsoft Graph token",
			"Check tenant id, client id and credentials.")
	}
	req.Header.Set("Authorization", "Bearer "+token.Token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, "", errors.Wrap(err, errors.CodeGraphAPIError,
			fmt.Sprintf("transport failure on %s %s", method, url))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, "", errors.Wrap(err, errors.CodeGraphAPIError, "reading graph response body")
	}

	return body, resp.StatusCode, resp.Header.Get("Retry-After"), nil
}

func isTransient(status int) bool {
	switch status {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

type graphErrorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// graphError extracts the server's error message from the standard Graph
// error envelope when present, falling back to the raw status.
func graphError(status int, method, url string, body []byte) *errors.AppError {
	msg := fmt.Sprintf("%s %s returned %d", method, url, status)

	var env graphErrorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		msg = fmt.Sprintf("%s: %s (%s)", msg, env.Error.Message, env.Error.Code)
	}

	code := errors.CodeGraphAPIError
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		code = errors.CodeGraphAuthError
	}
	return errors.New(code, msg)
}
