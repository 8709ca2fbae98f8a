package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type ResponseType int

const (
	JSON ResponseType = iota
	Text
)

// Options describe a single request. Zero value is a GET expecting JSON.
type Options struct {
	Method       string
	Headers      map[string]string
	Body         string
	ResponseType ResponseType
}

// Requester issues HTTP requests against a base URL with default headers.
type Requester interface {
	RequestJSON(ctx context.Context, endpoint string, opts Options, out interface{}) error
	RequestText(ctx context.Context, endpoint string, opts Options) (string, error)
}

// Client is the shared HTTP layer for every site client.
type Client struct {
	Name    string
	BaseURL string
	Headers map[string]string
	HTTP    *http.Client
}

type Option func(*Client)

// WithHTTPClient swaps the underlying http.Client, e.g. to set a timeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.HTTP = h
	}
}

// New creates a client. name labels its metrics and log lines.
func New(name, baseURL string, headers map[string]string, opts ...Option) *Client {
	c := &Client{
		Name:    name,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Headers: headers,
		HTTP:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestText resolves with the raw body regardless of opts.ResponseType.
func (c *Client) RequestText(ctx context.Context, endpoint string, opts Options) (string, error) {
	body, err := c.do(ctx, endpoint, opts)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// RequestJSON decodes the body into out. An empty body leaves out untouched.
// With opts.ResponseType == Text the raw body is stored into a *string, *[]byte or *interface{} and never parsed.
func (c *Client) RequestJSON(ctx context.Context, endpoint string, opts Options, out interface{}) error {
	body, err := c.do(ctx, endpoint, opts)
	if err != nil {
		return err
	}

	if opts.ResponseType == Text {
		return storeText(body, out)
	}

	if len(strings.TrimSpace(string(body))) == 0 || out == nil {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{Message: err.Error()}
	}
	return nil
}

func storeText(body []byte, out interface{}) error {
	switch v := out.(type) {
	case nil:
	case *string:
		*v = string(body)
	case *[]byte:
		*v = body
	case *interface{}:
		*v = string(body)
	default:
		return &ParseError{Message: fmt.Sprintf("text response cannot be stored into %T", out)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint string, opts Options) ([]byte, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	url := c.BaseURL + endpoint

	var reader io.Reader
	if opts.Body != "" {
		reader = strings.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, errors.Wrapf(err, "could not build request %s %s", method, url)
	}
	for k, v := range c.mergeHeaders(opts.Headers) {
		req.Header.Set(k, v)
	}

	log.Debugf("[%s] %s %s", c.Name, method, url)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	requestDuration.WithLabelValues(c.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(c.Name, "network_error").Inc()
		log.Debugf("[%s] %s %s failed: %v", c.Name, method, url, err)
		return nil, &NetworkError{StatusText: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues(c.Name, "network_error").Inc()
		return nil, &NetworkError{StatusText: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		requestsTotal.WithLabelValues(c.Name, strconv.Itoa(resp.StatusCode)).Inc()
		return nil, &RequestError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	requestsTotal.WithLabelValues(c.Name, "ok").Inc()
	return body, nil
}

// mergeHeaders lays caller headers over the defaults without touching either map.
func (c *Client) mergeHeaders(headers map[string]string) map[string]string {
	merged := make(map[string]string, len(c.Headers)+len(headers))
	for k, v := range c.Headers {
		merged[http.CanonicalHeaderKey(k)] = v
	}
	for k, v := range headers {
		merged[http.CanonicalHeaderKey(k)] = v
	}
	return merged
}
