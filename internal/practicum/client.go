package practicum

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
	"time"

	"go.uber.org/zap"

	"github.com/ykvlv/homework-bot/internal/metrics"
)

var (
	ErrHTTPStatus    = errors.New("unexpected API status code")
	ErrTransport     = errors.New("API request failed")
	ErrMalformedBody = errors.New("malformed API response body")
)

// StatusError is returned for any non-200 answer. It matches ErrHTTPStatus.
type StatusError struct {
	Code     int
	Endpoint string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint %s answered %d, want 200", e.Endpoint, e.Code)
}

func (e *StatusError) Is(target error) bool { return target == ErrHTTPStatus }

// Client queries the homework statuses endpoint.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
	log      *zap.Logger
	now      func() time.Time
}

// New creates a client with an explicit request timeout.
func New(endpoint, token string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{Timeout: timeout},
		log:      log,
		now:      time.Now,
	}
}

// GetAPIAnswer requests homeworks updated since cursor (unix seconds; 0 means now)
// and returns the decoded JSON object as is. Numbers are kept as json.Number.
func (c *Client) GetAPIAnswer(ctx context.Context, cursor int64) (map[string]any, error) {
	if cursor == 0 {
		cursor = c.now().Unix()
	}
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: bad endpoint: %v", ErrTransport, err)
	}
	q := u.Query()
	q.Set("from_date", strconv.FormatInt(cursor, 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.APIRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.log.Error("api request failed", zap.String("endpoint", c.endpoint), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("api returned non-200 status",
			zap.String("endpoint", c.endpoint),
			zap.Int("status", resp.StatusCode),
			zap.Int64("from_date", cursor),
		)
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{Code: resp.StatusCode, Endpoint: c.endpoint}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error("api body read failed", zap.Error(err))
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}
	return decodeObject(body)
}

func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: body is null", ErrMalformedBody)
	}
	return out, nil
}
