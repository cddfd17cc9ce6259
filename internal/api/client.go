// Package api is the HTTP client the API suites use against the rental backend.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/carrental-io/carrental-qa/internal/logging"
	"github.com/carrental-io/carrental-qa/internal/opt"
	"github.com/carrental-io/carrental-qa/internal/version"
)

const DefaultTimeout = 5 * time.Second

// Config represents client configuration
type Config struct {
	Timeout    time.Duration
	RetryCount int
	UserAgent  string
	Debug      bool
	Logger     logging.Logger
}

// Option customises a client.
type Option func(*Config)

func WithTimeout(d time.Duration) Option { return func(c *Config) { c.Timeout = d } }

// WithRetryCount enables resty retries. Suites that count requests leave it at 0.
func WithRetryCount(n int) Option { return func(c *Config) { c.RetryCount = n } }

func WithLogger(l logging.Logger) Option { return func(c *Config) { c.Logger = l } }

func WithDebug(debug bool) Option { return func(c *Config) { c.Debug = debug } }

// Client represents the rental API client
type Client struct {
	httpClient *resty.Client
	baseURL    string
	token      opt.Maybe[Token]
	log        logging.Logger
}

// BuildClient returns a client for baseURL. When token is present every request
// carries "Authorization: Bearer <token>" and a JSON content type; otherwise requests
// go out without auth headers.
func BuildClient(baseURL string, token opt.Maybe[Token], opts ...Option) *Client {
	cfg := Config{Timeout: DefaultTimeout, UserAgent: version.UserAgent(), Logger: logging.Nop()}
	for _, o := range opts {
		o(&cfg)
	}

	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	if cfg.Debug {
		httpClient.SetDebug(true)
	}

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
		log:        cfg.Logger,
	}

	if tok, ok := token.Get(); ok {
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			req.SetAuthToken(tok.Raw())
			req.SetHeader("Content-Type", "application/json")
			return nil
		})
	}

	httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logging.Debugf(client.log, "%s %s -> %d (%s)", resp.Request.Method, resp.Request.URL, resp.StatusCode(), resp.Time())
		return nil
	})

	return client
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Token returns the token the client was built with.
func (c *Client) Token() opt.Maybe[Token] { return c.token }

// HasToken reports whether requests are authenticated.
func (c *Client) HasToken() bool { return c.token.IsDefined() }

// Response is a completed HTTP exchange. Any status code is a valid Response; only
// transport failures are errors.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// StatusIn reports whether the status is one of codes.
func (r *Response) StatusIn(codes ...int) bool {
	for _, c := range codes {
		if r.StatusCode == c {
			return true
		}
	}
	return false
}

// Text returns the body as a string, for assertion messages.
func (r *Response) Text() string { return string(r.Body) }

// Message decodes the backend's {"message": ...} error body.
func (r *Response) Message() (MessageResponse, bool) {
	var m MessageResponse
	if err := json.Unmarshal(r.Body, &m); err != nil {
		return MessageResponse{}, false
	}
	return m, m.Message != "" || len(m.Errors) > 0
}

// Err converts a non-2xx response into an *APIError, nil otherwise.
func (r *Response) Err() error {
	if r.IsSuccess() {
		return nil
	}
	if m, ok := r.Message(); ok {
		details := make([]string, 0, len(m.Errors))
		for _, e := range m.Errors {
			details = append(details, e.Description)
		}
		return NewAPIError(r.StatusCode, m.Message, details...)
	}
	return NewAPIError(r.StatusCode, http.StatusText(r.StatusCode))
}

// Do sends one request. body, when non-nil, is sent as JSON.
func (c *Client) Do(ctx context.Context, method, path string, body any, query url.Values) (*Response, error) {
	req := c.httpClient.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		logging.Warningf(c.log, "%s %s failed: %v", method, c.baseURL+path, err)
		return nil, &TransportError{Operation: method, URL: c.baseURL + path, Err: err}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
		Duration:   resp.Time(),
	}, nil
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, query)
}

// Post performs a POST request
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, nil)
}

// Ping checks if the API is reachable. Any HTTP answer counts, including 401.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Get(ctx, "/api/vehicles", nil)
	return err
}

// Decode unmarshals a response body into T.
func Decode[T any](resp *Response) (T, error) {
	var v T
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return v, err
	}
	return v, nil
}
