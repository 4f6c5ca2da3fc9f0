// Package api содержит HTTP-клиент REST API заметок.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"gonotes/pkg/logger"
)

// Константы сообщений.
const (
	LogRequestCompleted = "api request completed"
	LogRequestFailed    = "api request failed"

	ErrMsgInvalidBaseURL = "invalid base url"
	ErrMsgEncodeBody     = "failed to encode request body"
	ErrMsgBuildRequest   = "failed to build request"
	ErrMsgRequestFailed  = "request failed"

	ContentTypeJSON = "application/json"
)

// Ошибки уровня транспорта.
var (
	// ErrDecode возвращается, если тело ответа не разобрано или не прошло проверку.
	ErrDecode = errors.New("failed to decode response")
)

// Validator реализуется типами ответа, которые умеют проверять себя после декодирования.
type Validator interface {
	Validate() error
}

// StatusError - ответ сервера со статусом вне диапазона 2xx.
type StatusError struct {
	Code int
	Text string
	Body string
}

// Error возвращает "<status> <statusText>" и, если тело не пустое, ": <body>".
func (e *StatusError) Error() string {
	msg := strconv.Itoa(e.Code) + " " + e.Text
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client выполняет JSON-запросы к серверу заметок.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
}

// ClientOption настраивает Client.
type ClientOption func(*Client)

// WithHTTPClient подменяет используемый *http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout ограничивает время каждого запроса. Ноль означает отсутствие ограничения.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient создает клиент для сервера с адресом baseURL.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgInvalidBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: %q", ErrMsgInvalidBaseURL, baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type requestOptions struct {
	header http.Header
	body   any
}

// RequestOption настраивает отдельный запрос.
type RequestOption func(*requestOptions)

// WithHeader добавляет заголовок запроса. Content-Type всегда перезаписывается на JSON.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.header.Add(key, value)
	}
}

// WithJSONBody кодирует v в JSON и отправляет как тело запроса.
func WithJSONBody(v any) RequestOption {
	return func(o *requestOptions) {
		o.body = v
	}
}

// Do выполняет запрос и декодирует JSON-ответ в T.
// Ответ 204 возвращает nil без попытки разбора тела.
func Do[T any](ctx context.Context, c *Client, method, path string, opts ...RequestOption) (*T, error) {
	o := requestOptions{header: make(http.Header)}
	for _, opt := range opts {
		opt(&o)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, method, path, &o)
	if err != nil {
		return nil, err
	}

	log := logger.Log(ctx).With(
		zap.String("method", method),
		zap.String("path", path),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn(ctx, LogRequestFailed, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrMsgRequestFailed, err)
	}
	defer resp.Body.Close()

	log.Debug(ctx, LogRequestCompleted,
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp)
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if v, ok := any(&out).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
	}

	return &out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, o *requestOptions) (*http.Request, error) {
	var body io.Reader
	if o.body != nil {
		payload, err := json.Marshal(o.body)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgEncodeBody, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildRequest, err)
	}

	for key, values := range o.header {
		req.Header[key] = append([]string(nil), values...)
	}
	req.Header.Set("Content-Type", ContentTypeJSON)

	if req.Header.Get(logger.HeaderRequestID) == "" {
		if id, ok := logger.GetRequestID(ctx); ok {
			req.Header.Set(logger.HeaderRequestID, id)
		}
	}

	return req, nil
}

// newStatusError читает тело ответа как есть; ошибка чтения трактуется как пустое тело.
func newStatusError(resp *http.Response) *StatusError {
	var text string
	if raw, err := io.ReadAll(resp.Body); err == nil {
		text = string(raw)
	}

	return &StatusError{
		Code: resp.StatusCode,
		Text: statusText(resp),
		Body: text,
	}
}

func statusText(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if text, ok := strings.CutPrefix(resp.Status, prefix); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
