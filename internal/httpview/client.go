package httpview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/park285/chess3d/pkg/chessdto"
)

// Client drives a running view server, e.g. from the command line.
type Client struct {
	baseURL string
	http    *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
}

type ClientOption func(*Client)

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithRetry(max int) ClientOption {
	return func(c *Client) { c.retryMax = max }
}

// WithDialer replaces the TCP dialer, e.g. with an in-memory listener.
func WithDialer(dial func(addr string) (net.Conn, error)) ClientOption {
	return func(c *Client) { c.http.Dial = dial }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 4},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) State(ctx context.Context) (*chessdto.ViewState, error) {
	var st chessdto.ViewState
	if _, err := c.do(ctx, fasthttp.MethodGet, "/state", &st, true); err != nil {
		return nil, err
	}
	return &st, nil
}

// Click sends image pixel coordinates. A rejected move is returned as a
// chessdto.DomainError with CodeIllegalMove.
func (c *Client) Click(ctx context.Context, x, y int) (*chessdto.ViewState, error) {
	var st chessdto.ViewState
	path := "/click?x=" + strconv.Itoa(x) + "&y=" + strconv.Itoa(y)
	if _, err := c.do(ctx, fasthttp.MethodPost, path, &st, false); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) Reset(ctx context.Context) (*chessdto.ViewState, error) {
	var st chessdto.ViewState
	if _, err := c.do(ctx, fasthttp.MethodPost, "/reset", &st, false); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) SetLanguage(ctx context.Context, code string) (*chessdto.ViewState, error) {
	var st chessdto.ViewState
	if _, err := c.do(ctx, fasthttp.MethodPost, "/language?code="+strings.TrimSpace(code), &st, false); err != nil {
		return nil, err
	}
	return &st, nil
}

// BoardPNG downloads the current board image.
func (c *Client) BoardPNG(ctx context.Context) ([]byte, error) {
	return c.do(ctx, fasthttp.MethodGet, "/board.png", nil, true)
}

// do performs one request. Only idempotent requests are retried; a non-2xx
// response with a DomainError body is returned as that error.
func (c *Client) do(ctx context.Context, method, path string, out any, retry bool) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)

	attempts := 1
	if retry && c.retryMax > 1 {
		attempts = c.retryMax
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx)); err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
		} else {
			status := resp.StatusCode()
			if status >= 200 && status < 300 {
				body := append([]byte(nil), resp.Body()...)
				if out != nil {
					if err := json.Unmarshal(body, out); err != nil {
						return nil, fmt.Errorf("decode response: %w", err)
					}
				}
				return body, nil
			}
			var de chessdto.DomainError
			if json.Unmarshal(resp.Body(), &de) == nil && de.Code != "" {
				lastErr = de
				if !de.Retryable {
					return nil, de
				}
			} else {
				lastErr = fmt.Errorf("view api error: status=%d body=%s", status, truncate(string(resp.Body()), 512))
				if !shouldRetryStatus(status) {
					return nil, lastErr
				}
			}
		}
		if attempt == attempts {
			break
		}
		if err := c.sleepWithContext(ctx, backoffDuration(attempt)); err != nil {
			return nil, lastErr
		}
	}
	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return nil, lastErr
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func (c *Client) sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	attempt = min(max(attempt, 1), 6)
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
