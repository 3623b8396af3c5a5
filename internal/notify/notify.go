// Package notify posts game events to the social app's notification
// endpoint. Delivery is best effort with bounded retries; the game flow
// never fails because a notification did not land.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/friendschat/games/internal/domain"
)

// Event is the notification payload the social app ingests.
type Event struct {
	UserID    int64  `json:"user_id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	RelatedID int64  `json:"related_id,omitempty"`
}

type Client struct {
	baseURL string
	http    *fasthttp.Client

	timeout  time.Duration
	retryMax int
	logger   *zap.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

// NewClient returns a notifier posting to baseURL, or nil when baseURL is
// empty. A nil client drops events silently, which keeps development runs
// independent of the social app.
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &fasthttp.Client{ReadTimeout: 5 * time.Second, WriteTimeout: 5 * time.Second, MaxConnsPerHost: 16},
		timeout:  5 * time.Second,
		retryMax: 3,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NotifyGameEnd posts a game-end event. Errors are logged and swallowed.
func (c *Client) NotifyGameEnd(ctx context.Context, userID int64, gameType domain.GameType, outcome string, gameID int64) {
	if c == nil {
		return
	}
	evt := Event{
		UserID:    userID,
		Type:      "game_end",
		Content:   fmt.Sprintf("Your %s game ended: %s", gameType, outcome),
		RelatedID: gameID,
	}
	if err := c.post(ctx, "/api/notifications", evt); err != nil {
		c.logger.Warn("game end notification failed",
			zap.Int64("user_id", userID),
			zap.Int64("game_id", gameID),
			zap.Error(err))
	}
}

func (c *Client) post(ctx context.Context, path string, in any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodPost)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	attempts := c.retryMax
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.http.DoDeadline(req, resp, c.deadline(ctx))
		if err == nil {
			status := resp.StatusCode()
			if status >= 200 && status < 300 {
				return nil
			}
			err = fmt.Errorf("notification api error: status=%d", status)
			if !retryableStatus(status) {
				return err
			}
		}
		lastErr = err
		if attempt == attempts {
			break
		}
		if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) deadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.timeout)
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

func retryableStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
