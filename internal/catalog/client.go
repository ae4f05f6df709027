// internal/catalog/client.go
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/config"
)

const maxResponseBytes = 10 << 20

// GenericErrorMessage is shown when the catalog service fails without saying why.
const GenericErrorMessage = "Something went wrong"

var (
	ErrNotFound  = errors.New("catalog: not found")
	ErrNoSession = errors.New("catalog: no session issued")
)

// APIError is a non-2xx answer from the catalog service. Message holds the
// body's error text verbatim when the service sent one.
type APIError struct {
	Status    int
	Message   string
	FromBody  bool
	Operation string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %d %s", e.Operation, e.Status, e.Message)
}

// UserMessage returns the text to show an admin for err: the catalog's own
// error text when present, otherwise the generic fallback.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.FromBody && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericErrorMessage
}

// Client talks to the catalog REST service. A Client value is immutable;
// WithSession returns a copy bound to one admin session.
type Client struct {
	baseURL    string
	cookieName string
	token      string
	httpClient *http.Client
}

func New(cfg config.CatalogConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		cookieName: cfg.SessionCookie,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient is used by tests to point the client at an httptest server.
func NewWithHTTPClient(baseURL, cookieName string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, cookieName: cookieName, httpClient: hc}
}

func (c *Client) WithSession(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" && c.cookieName != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: c.token})
	}
	return req, nil
}

// send executes req and returns the raw body. Non-2xx answers become *APIError.
func (c *Client) send(req *http.Request) (*http.Response, []byte, error) {
	op := req.Method + " " + req.URL.Path
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"operation": op,
			"duration":  time.Since(start).Milliseconds(),
		}).WithError(err).Error("Catalog request failed")
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp, nil, fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	logrus.WithFields(logrus.Fields{
		"operation": op,
		"status":    resp.StatusCode,
		"duration":  time.Since(start).Milliseconds(),
	}).Debug("Catalog request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, data, newAPIError(op, resp.StatusCode, data)
	}
	return resp, data, nil
}

func newAPIError(op string, status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Message: GenericErrorMessage, Operation: op}

	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}

	var text string
	if len(payload.Error) > 0 {
		if err := json.Unmarshal(payload.Error, &text); err != nil {
			var nested struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(payload.Error, &nested) == nil {
				text = nested.Message
			}
		}
	}
	if text == "" {
		text = payload.Message
	}
	if text != "" {
		apiErr.Message = text
		apiErr.FromBody = true
	}
	return apiErr
}

// doJSON sends an optional JSON body and decodes an optional JSON answer.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}

	_, data, err := c.send(req)
	if err != nil {
		return err
	}
	return decodeInto(req.Method+" "+req.URL.Path, data, out)
}

func decodeInto(op string, data []byte, out interface{}) error {
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}

// envelope is the {success, data, error} wrapper used by the category and
// brand endpoints.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// decodeList accepts either a bare JSON array or an envelope around one.
func decodeList[T any](op string, data []byte) ([]T, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []T{}, nil
	}
	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%s: failed to decode list: %w", op, err)
		}
		return items, nil
	}

	var env envelope[[]T]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%s: failed to decode list: %w", op, err)
	}
	if env.Data == nil {
		env.Data = []T{}
	}
	return env.Data, nil
}

func (c *Client) getList(ctx context.Context, path string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return nil, "", err
	}
	_, data, err := c.send(req)
	return data, req.Method + " " + req.URL.Path, err
}
