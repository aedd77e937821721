package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shoplite/client/domain"
)

// TokenSource supplies the current bearer token. The session manager
// implements it; the token is read at call time and never cached across
// requests.
type TokenSource interface {
	AccessToken() string
}

// Config holds the transport settings for the backend API.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client is a thin JSON client over fasthttp. Every manager operation maps
// to exactly one call through it.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	timeout time.Duration
	agent   string
	tokens  TokenSource
	logger  *zap.Logger
}

// New builds a Client for the configured base URL.
func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: &fasthttp.Client{
			Name:                cfg.UserAgent,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		agent:   cfg.UserAgent,
		logger:  logger,
	}
}

// SetTokenSource wires the session manager in after construction. Authorized
// calls fail fast until a source is set.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is the raw outcome of a backend call. The repository layer decodes
// the envelope and maps business failures; the transport only normalizes
// network-level errors.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the response body into out.
func (r *Response) Decode(out interface{}) error {
	if r == nil || len(r.Body) == 0 {
		return domain.WrapError(domain.ErrCodeTransport, "empty response body", nil)
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return domain.WrapError(domain.ErrCodeTransport, "malformed response body", err)
	}
	return nil
}

// DoJSON issues a request with an optional JSON body. Mutating requests carry
// an idempotency key so a double-submitted action is de-duplicated at the
// boundary.
func (c *Client) DoJSON(ctx context.Context, method, path string, query url.Values, body interface{}, authed bool) (*Response, error) {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "encode request body", err)
		}
		payload = encoded
	}
	return c.do(ctx, method, path, query, payload, "application/json", authed)
}

// DoMultipart issues a multipart/form-data request, used by the image-bearing
// product endpoints.
func (c *Client) DoMultipart(ctx context.Context, method, path string, fields map[string]string, fileField, fileName string, file []byte, authed bool) (*Response, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "encode form field", err)
		}
	}
	if fileField != "" && len(file) > 0 {
		part, err := writer.CreateFormFile(fileField, fileName)
		if err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "encode form file", err)
		}
		if _, err := part.Write(file); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "encode form file", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "finalize multipart body", err)
	}
	return c.do(ctx, method, path, nil, buf.Bytes(), writer.FormDataContentType(), authed)
}

// Download fetches a raw document (report exports) and returns the body with
// its content type.
func (c *Client) Download(ctx context.Context, path string, query url.Values) ([]byte, string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.buildURI(path, query))
	req.Header.SetMethod(fasthttp.MethodGet)
	if err := c.authorize(req, true); err != nil {
		return nil, "", err
	}

	if err := c.http.DoTimeout(req, resp, c.callTimeout(ctx)); err != nil {
		return nil, "", domain.WrapError(domain.ErrCodeTransport, "request failed", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, "", domain.NewError(domain.ErrCodeRejected, "export rejected by server")
	}
	body := append([]byte(nil), resp.Body()...)
	contentType := string(resp.Header.ContentType())
	return body, contentType, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload []byte, contentType string, authed bool) (*Response, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.buildURI(path, query))
	req.Header.SetMethod(method)
	if len(payload) > 0 {
		req.Header.SetContentType(contentType)
		req.SetBody(payload)
	}
	if isMutating(method) {
		req.Header.Set("X-Idempotency-Key", uuid.NewString())
	}
	if err := c.authorize(req, authed); err != nil {
		return nil, err
	}

	start := time.Now()
	if err := c.http.DoTimeout(req, resp, c.callTimeout(ctx)); err != nil {
		c.logger.Warn("backend call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, domain.WrapError(domain.ErrCodeTransport, "request failed", err)
	}

	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode()),
		zap.Duration("elapsed", time.Since(start)))

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       append([]byte(nil), resp.Body()...),
	}, nil
}

// authorize injects the bearer token. Missing credentials on an authorized
// call are rejected before any network activity.
func (c *Client) authorize(req *fasthttp.Request, authed bool) error {
	if !authed {
		return nil
	}
	if c.tokens == nil {
		return domain.ErrNotAuthenticated
	}
	token := c.tokens.AccessToken()
	if token == "" {
		return domain.ErrNotAuthenticated
	}
	req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	return nil
}

func (c *Client) buildURI(path string, query url.Values) string {
	uri := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		uri += "?" + encoded
	}
	return uri
}

// callTimeout honours an earlier context deadline when one is set.
func (c *Client) callTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if ctx == nil {
		return timeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 && remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func isMutating(method string) bool {
	switch method {
	case fasthttp.MethodPost, fasthttp.MethodPut, fasthttp.MethodPatch, fasthttp.MethodDelete:
		return true
	}
	return false
}
