// Package backend is the HTTP client for the analysis service.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"kibitz/analysis"
	"kibitz/obslog"
)

const analyzePath = "/analyze"

// Client posts transcripts to {baseURL}/analyze.
type Client struct {
	baseURL string
	http    *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
	newID          func() string
}

var _ analysis.Analyzer = (*Client)(nil)

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

// WithRetry sets how many extra attempts a 5xx or network failure gets.
func WithRetry(n int) Option {
	return func(c *Client) { c.retryMax = n }
}

func WithRequestID(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{MaxConnsPerHost: 4},
		defaultTimeout: 120 * time.Second,
		retryMax:       2,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type analyzeRequest struct {
	PGN string `json:"pgn"`
}

// Analyze sends transcript to the backend. The returned error is always one
// of the analysis error types.
func (c *Client) Analyze(ctx context.Context, transcript string) (*analysis.Result, error) {
	if err := analysis.ValidateTranscript(transcript); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(analyzeRequest{PGN: transcript})
	if err != nil {
		return nil, &analysis.TransportError{Err: fmt.Errorf("marshal request: %w", err)}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	owned := true
	defer func() {
		if owned {
			fasthttp.ReleaseRequest(req)
			fasthttp.ReleaseResponse(resp)
		}
	}()

	id := c.newID()
	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(c.baseURL + analyzePath)
	req.Header.SetContentType("application/json")
	req.Header.Set("X-Request-ID", id)
	req.SetBody(payload)

	log := obslog.L().With(zap.String("request_id", id))
	attempts := c.retryMax + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &analysis.TransportError{Err: err}
		}
		start := time.Now()
		abandoned, err := c.do(ctx, req, resp)
		if abandoned {
			owned = false
			log.Info("analyze request canceled", zap.Int("attempt", attempt))
			return nil, &analysis.TransportError{Err: err}
		}
		if err != nil {
			log.Warn("analyze request failed", zap.Int("attempt", attempt), zap.Error(err))
			lastErr = &analysis.TransportError{Err: err}
			if attempt == attempts || errors.Is(err, fasthttp.ErrTimeout) {
				return nil, lastErr
			}
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return nil, lastErr
			}
			continue
		}

		status := resp.StatusCode()
		body := resp.Body()
		log.Debug("analyze response", zap.Int("status", status), zap.Int("bytes", len(body)), zap.Duration("took", time.Since(start)))

		if status >= 200 && status < 300 {
			res, err := analysis.DecodeResponse(body)
			if err != nil {
				var appErr *analysis.ApplicationError
				if errors.As(err, &appErr) {
					return nil, err
				}
				return nil, &analysis.TransportError{Status: status, Err: err}
			}
			res.Transcript = transcript
			log.Info("analysis received", zap.Int("records", len(res.Records)))
			return res, nil
		}

		if status >= 400 && status < 500 {
			if msg, ok := analysis.ErrorBody(body); ok {
				return nil, &analysis.ApplicationError{Message: msg}
			}
		}
		lastErr = &analysis.TransportError{Status: status, Err: fmt.Errorf("body=%s", truncate(string(body), 512))}
		if attempt == attempts || !shouldRetryStatus(status) {
			return nil, lastErr
		}
		if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

// do runs one attempt and gives up as soon as ctx is done. An abandoned
// request still belongs to its goroutine, which releases req and resp once
// fasthttp returns.
func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) (abandoned bool, err error) {
	done := make(chan error, 1)
	go func() {
		done <- c.http.DoDeadline(req, resp, c.computeDeadline(ctx))
	}()
	select {
	case err := <-done:
		return false, err
	case <-ctx.Done():
		go func() {
			<-done
			fasthttp.ReleaseRequest(req)
			fasthttp.ReleaseResponse(resp)
		}()
		return true, ctx.Err()
	}
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
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
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
