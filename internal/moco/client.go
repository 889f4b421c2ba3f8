// Package moco is a client for the Moco REST API (https://everii-group.github.io/mocoapp-api-docs/).
package moco

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.coldcutz.net/mococli/internal/config"
	"go.coldcutz.net/mococli/internal/tracker"
)

const defaultTimeout = 30 * time.Second

// APIError is returned for non-2xx responses.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("moco %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

var _ tracker.Backend = (*Client)(nil)

// Client talks to one Moco account.
type Client struct {
	baseURL   string
	apiKey    string
	botAPIKey string
	userID    *int64
	http      *http.Client
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the account described by cfg.
func New(cfg config.MocoConfig, opts ...Option) *Client {
	c := &Client{
		apiKey:    cfg.APIKey,
		botAPIKey: cfg.BotAPIKey,
		userID:    cfg.UserID,
		http:      &http.Client{Timeout: defaultTimeout},
		logger:    slog.New(slog.DiscardHandler),
	}
	if cfg.Company != "" {
		c.baseURL = fmt.Sprintf("https://%s.mocoapp.com/api/v1", cfg.Company)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserID looks up the id of the employee with the given name.
func (c *Client) UserID(ctx context.Context, firstname, lastname string) (int64, error) {
	var employments []struct {
		User struct {
			ID        int64  `json:"id"`
			Firstname string `json:"firstname"`
			Lastname  string `json:"lastname"`
		} `json:"user"`
	}
	if err := c.do(ctx, c.apiKey, http.MethodGet, "/users/employments", nil, nil, &employments); err != nil {
		return 0, err
	}
	for _, e := range employments {
		if e.User.Firstname == firstname && e.User.Lastname == lastname {
			return e.User.ID, nil
		}
	}
	return 0, fmt.Errorf("user %s %s: %w", firstname, lastname, tracker.ErrNotFound)
}

// Projects returns the active projects the user is assigned to.
func (c *Client) Projects(ctx context.Context) ([]tracker.Project, error) {
	var projects []tracker.Project
	q := url.Values{"active": {"true"}}
	if err := c.do(ctx, c.apiKey, http.MethodGet, "/projects/assigned", q, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Activities returns the user's activities between the calendar days of from and to.
func (c *Client) Activities(ctx context.Context, from, to time.Time) ([]tracker.Activity, error) {
	if c.userID == nil {
		return nil, tracker.ErrNotLoggedIn
	}
	q := url.Values{
		"from":    {from.Format(tracker.DateFormat)},
		"to":      {to.Format(tracker.DateFormat)},
		"user_id": {strconv.FormatInt(*c.userID, 10)},
	}
	var activities []tracker.Activity
	if err := c.do(ctx, c.apiKey, http.MethodGet, "/activities", q, nil, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// Activity returns one activity.
func (c *Client) Activity(ctx context.Context, id int64) (tracker.Activity, error) {
	var a tracker.Activity
	err := c.do(ctx, c.apiKey, http.MethodGet, activityPath(id), nil, nil, &a)
	return a, err
}

// CreateActivity creates an activity and returns it as stored.
func (c *Client) CreateActivity(ctx context.Context, n tracker.NewActivity) (tracker.Activity, error) {
	var a tracker.Activity
	err := c.do(ctx, c.apiKey, http.MethodPost, "/activities", nil, n, &a)
	return a, err
}

// UpdateActivity replaces the editable fields of an activity.
func (c *Client) UpdateActivity(ctx context.Context, id int64, u tracker.ActivityUpdate) error {
	return c.do(ctx, c.apiKey, http.MethodPut, activityPath(id), nil, u, nil)
}

// DeleteActivity deletes an activity.
func (c *Client) DeleteActivity(ctx context.Context, id int64) error {
	return c.do(ctx, c.apiKey, http.MethodDelete, activityPath(id), nil, nil, nil)
}

// StartTimer starts the timer of an activity of the current day.
func (c *Client) StartTimer(ctx context.Context, id int64) error {
	return c.do(ctx, c.apiKey, http.MethodPatch, activityPath(id)+"/start_timer", nil, nil, nil)
}

// StopTimer stops the timer of an activity.
func (c *Client) StopTimer(ctx context.Context, id int64) error {
	return c.do(ctx, c.apiKey, http.MethodPatch, activityPath(id)+"/stop_timer", nil, nil, nil)
}

// PerformanceReport returns the user's overtime report for the current year. It requires the
// bot API key.
func (c *Client) PerformanceReport(ctx context.Context) (tracker.PerformanceReport, error) {
	var r tracker.PerformanceReport
	if c.userID == nil {
		return r, tracker.ErrNotLoggedIn
	}
	path := fmt.Sprintf("/users/%d/performance_report", *c.userID)
	err := c.do(ctx, c.botAPIKey, http.MethodGet, path, nil, nil, &r)
	return r, err
}

func activityPath(id int64) string {
	return "/activities/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, key, method, path string, query url.Values, body, out any) error {
	if c.baseURL == "" || key == "" {
		return tracker.ErrNotLoggedIn
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Token token="+key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("moco %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.logger.Debug("moco request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", tracker.ErrNotLoggedIn, bytes.TrimSpace(data))
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("moco %s %s: %w", method, path, tracker.ErrNotFound)
		}
		return &APIError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}
