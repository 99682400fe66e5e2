// Package api reads learner records from the remote review service.
package api

import (
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

	"github.com/abhisek/levelcast/internal/logger"
	"github.com/abhisek/levelcast/internal/record"
	"github.com/abhisek/levelcast/internal/source"
)

const apiRevision = "20170710"

// Client implements source.Source over the paginated HTTP API.
type Client struct {
	cfg   Config
	http  *http.Client
	retry *retrier
	log   *logger.Logger
}

var _ source.Source = (*Client)(nil)

// New validates cfg and returns a Client. A nil log discards output.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("component", "api")
	return &Client{
		cfg:   cfg,
		http:  &http.Client{},
		retry: &retrier{config: cfg.Retry, log: log},
		log:   log,
	}, nil
}

// CurrentLevel returns the learner's current level.
func (c *Client) CurrentLevel(ctx context.Context) (int, error) {
	body, err := c.fetch(ctx, c.endpoint("/user", nil), resourceSchema)
	if err != nil {
		return 0, err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return 0, &ErrInvalidResponse{Body: body, Err: err}
	}
	var user userData
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return 0, &ErrInvalidResponse{Body: body, Err: err}
	}
	if user.Level < 1 {
		return 0, &ErrInvalidResponse{Body: body, Err: fmt.Errorf("user level %d", user.Level)}
	}
	return user.Level, nil
}

// LevelAttempts returns every started level progression, abandoned ones
// included.
func (c *Client) LevelAttempts(ctx context.Context) ([]record.LevelAttempt, error) {
	var out []record.LevelAttempt
	err := c.collect(ctx, c.endpoint("/level_progressions", nil), func(raw json.RawMessage) error {
		var d levelProgressionData
		if err := json.Unmarshal(raw, &d); err != nil {
			return err
		}
		a, ok := d.toAttempt()
		if !ok {
			return nil
		}
		if err := record.Validate(a); err != nil {
			return err
		}
		out = append(out, a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("level progressions: %w", err)
	}
	return out, nil
}

// ReviewItems returns the foundational and dependent items of each level.
func (c *Client) ReviewItems(ctx context.Context, levels []int) ([]record.ItemState, error) {
	var out []record.ItemState
	for _, level := range levels {
		q := url.Values{}
		q.Set("levels", strconv.Itoa(level))
		q.Set("subject_types", "radical,kanji")
		err := c.collect(ctx, c.endpoint("/assignments", q), func(raw json.RawMessage) error {
			var d assignmentData
			if err := json.Unmarshal(raw, &d); err != nil {
				return err
			}
			it, err := d.toItem(level)
			if err != nil {
				return err
			}
			if err := record.ValidateItem(it); err != nil {
				return err
			}
			out = append(out, it)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("assignments for level %d: %w", level, err)
		}
	}
	return out, nil
}

// ReviewOutcomes returns the answer tallies for items on the given levels.
func (c *Client) ReviewOutcomes(ctx context.Context, levels []int) ([]record.OutcomeCounters, error) {
	if len(levels) == 0 {
		return nil, nil
	}
	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = strconv.Itoa(l)
	}
	q := url.Values{}
	q.Set("levels", strings.Join(parts, ","))

	var out []record.OutcomeCounters
	err := c.collect(ctx, c.endpoint("/review_statistics", q), func(raw json.RawMessage) error {
		var d reviewStatisticData
		if err := json.Unmarshal(raw, &d); err != nil {
			return err
		}
		o := d.toOutcome()
		if err := record.Validate(o); err != nil {
			return err
		}
		out = append(out, o)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("review statistics: %w", err)
	}
	return out, nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// collect walks a paginated collection, handing each element's data to fn.
func (c *Client) collect(ctx context.Context, next string, fn func(json.RawMessage) error) error {
	seen := map[string]bool{}
	pages := 0
	for next != "" {
		if seen[next] {
			return &ErrInvalidResponse{Err: fmt.Errorf("pagination loops back to %s", next)}
		}
		seen[next] = true

		body, err := c.fetch(ctx, next, collectionSchema)
		if err != nil {
			return err
		}
		var page collection
		if err := json.Unmarshal(body, &page); err != nil {
			return &ErrInvalidResponse{Body: body, Err: err}
		}
		for _, el := range page.Data {
			if err := fn(el.Data); err != nil {
				return fmt.Errorf("element %d: %w", el.ID, err)
			}
		}
		pages++
		c.log.Debug("fetched page", "url", next, "elements", len(page.Data))

		next = ""
		if page.Pages.NextURL != nil {
			next = *page.Pages.NextURL
		}
	}
	c.log.Debug("collection complete", "pages", pages)
	return nil
}

// fetch GETs one page with retries and checks it against schema. A rate
// limit that outlasts the retries is reported as the source being
// unavailable.
func (c *Client) fetch(ctx context.Context, u string, schema *Schema) ([]byte, error) {
	body, err := c.retry.do(ctx, u, func(ctx context.Context) ([]byte, error) {
		body, err := c.get(ctx, u)
		if err != nil {
			return nil, err
		}
		if err := validateBody(schema, body); err != nil {
			return nil, err
		}
		return body, nil
	})
	if err != nil {
		var rl *ErrRateLimit
		if errors.As(err, &rl) {
			return nil, &source.ErrSourceUnavailable{Err: err}
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Wanikani-Revision", apiRevision)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, ctxErr
		}
		return nil, &source.ErrSourceUnavailable{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	status := &ErrStatus{Code: resp.StatusCode, URL: u}
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &source.ErrUnauthorized{Err: status}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &ErrRateLimit{RetryAfter: retryAfter(resp.Header.Get("Retry-After")), Err: status}
	case resp.StatusCode >= 500:
		return nil, &source.ErrSourceUnavailable{Err: status}
	case resp.StatusCode != http.StatusOK:
		return nil, status
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &source.ErrSourceUnavailable{Err: err}
	}
	return body, nil
}

// retryAfter parses a Retry-After header in seconds or HTTP-date form.
func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
