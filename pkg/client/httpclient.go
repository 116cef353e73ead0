package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Observer receives one call per finished backend request.
type Observer interface {
	ObserveBackendCall(method, route string, status int, elapsed time.Duration)
}

type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client

	token          string
	onUnauthorized func()
	observer       Observer
}

func NewHttpClient(baseURL string, timeout time.Duration) *HttpClient {
	return &HttpClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// WithToken returns a copy bound to one session. onUnauthorized runs on every
// 401 and must be safe to call more than once.
func (c *HttpClient) WithToken(token string, onUnauthorized func()) *HttpClient {
	cp := *c
	cp.token = token
	cp.onUnauthorized = onUnauthorized
	return &cp
}

func (c *HttpClient) WithObserver(o Observer) *HttpClient {
	cp := *c
	cp.observer = o
	return &cp
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

func (c *HttpClient) GET(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.request(ctx, http.MethodGet, withQuery(path, query), nil)
}

func (c *HttpClient) POST(ctx context.Context, path string, body any) (*Response, error) {
	return c.request(ctx, http.MethodPost, path, body)
}

func (c *HttpClient) PUT(ctx context.Context, path string, body any) (*Response, error) {
	return c.request(ctx, http.MethodPut, path, body)
}

func (c *HttpClient) DELETE(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.request(ctx, http.MethodDelete, withQuery(path, query), nil)
}

// PostMultipart streams a single file under field.
func (c *HttpClient) PostMultipart(ctx context.Context, path, field, filename string, file io.Reader) (*Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, &buf, map[string]string{"Content-Type": writer.FormDataContentType()})
}

func (c *HttpClient) request(ctx context.Context, method, path string, body any) (*Response, error) {
	var reqBody io.Reader
	var headers map[string]string

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
		headers = map[string]string{"Content-Type": "application/json"}
	}

	return c.do(ctx, method, path, reqBody, headers)
}

func (c *HttpClient) do(ctx context.Context, method, path string, reqBody io.Reader, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.observe(method, path, 0, start)
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	c.observe(method, path, resp.StatusCode, start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, ErrUnauthorized
	}

	r := &Response{Response: resp, Body: respBody}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: GetErrorMessage(r),
			Method:  method,
			Path:    path,
		}
	}
	return r, nil
}

func (c *HttpClient) observe(method, path string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveBackendCall(method, RouteLabel(path), status, time.Since(start))
}

// RouteLabel keeps only the resource segment of path so metric labels stay bounded.
func RouteLabel(path string) string {
	path, _, _ = strings.Cut(path, "?")
	path = strings.Trim(path, "/")
	first, _, _ := strings.Cut(path, "/")
	if first == "" {
		return "/"
	}
	return "/" + first
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// GetErrorMessage prefers the backend's {message}, falling back to a generic text.
func GetErrorMessage(resp *Response) string {
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := resp.DecodeJSON(&errResp); err != nil {
		return genericErrorMessage
	}

	if errResp.Message != "" {
		return errResp.Message
	}
	if errResp.Error != "" {
		return errResp.Error
	}
	return genericErrorMessage
}
