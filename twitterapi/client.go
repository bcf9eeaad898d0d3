// Package twitterapi reads following lists through the authenticated REST API.
package twitterapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/go-resty/resty/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"followexport/core"
	"followexport/log"
)

const (
	DefaultBaseURL          = "https://api.twitter.com/1.1"
	DefaultTimeout          = 30 * time.Second
	DefaultPageSize         = 200
	DefaultRetryCount       = 3
	DefaultMaxRateLimitWait = 15 * time.Minute

	rateLimitResetHeader = "x-rate-limit-reset"
	minRetryWait         = time.Second
)

// Credentials are the long-lived user context keys, passed through untouched.
type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

func (c Credentials) missing() []string {
	var names []string
	if c.ConsumerKey == "" {
		names = append(names, "consumer key")
	}
	if c.ConsumerSecret == "" {
		names = append(names, "consumer secret")
	}
	if c.AccessToken == "" {
		names = append(names, "access token")
	}
	if c.AccessTokenSecret == "" {
		names = append(names, "access token secret")
	}
	return names
}

type Config struct {
	BaseURL          string
	Timeout          time.Duration
	PageSize         int
	RetryCount       int
	MaxRateLimitWait time.Duration
	Credentials      Credentials
	Clock            clockwork.Clock
}

type Client struct {
	client   *resty.Client
	pageSize int
	maxWait  time.Duration
	clock    clockwork.Clock
	logger   *zap.SugaredLogger
}

// NewClient fails with a *core.CredentialError when any credential is missing.
func NewClient(ctx context.Context, cfg Config, logger *zap.SugaredLogger) (*Client, error) {
	if missing := cfg.Credentials.missing(); len(missing) > 0 {
		return nil, &core.CredentialError{Reason: "missing " + strings.Join(missing, ", ")}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	if cfg.MaxRateLimitWait <= 0 {
		cfg.MaxRateLimitWait = DefaultMaxRateLimitWait
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	oauthConfig := oauth1.NewConfig(cfg.Credentials.ConsumerKey, cfg.Credentials.ConsumerSecret)
	token := oauth1.NewToken(cfg.Credentials.AccessToken, cfg.Credentials.AccessTokenSecret)

	c := &Client{
		pageSize: cfg.PageSize,
		maxWait:  cfg.MaxRateLimitWait,
		clock:    cfg.Clock,
		logger:   logger,
	}

	minWait := minRetryWait
	if cfg.MaxRateLimitWait < minWait {
		minWait = cfg.MaxRateLimitWait
	}

	c.client = resty.NewWithClient(oauthConfig.Client(ctx, token)).
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(minWait).
		SetRetryMaxWaitTime(cfg.MaxRateLimitWait).
		AddRetryCondition(rateLimited).
		SetRetryAfter(c.untilReset).
		SetLogger(log.DebugLogger{SugaredLogger: logger})

	return c, nil
}

// Client exposes the underlying resty client, tests use it to mock transport.
func (c *Client) Client() *resty.Client {
	return c.client
}

func (c *Client) Name() string {
	return "api"
}

// Verify checks the credentials against the API.
func (c *Client) Verify(ctx context.Context) error {
	var apiErr ErrorResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("skip_status", "true").
		SetError(&apiErr).
		Get("/account/verify_credentials.json")
	if err != nil {
		return &core.CredentialError{Reason: "verify credentials", Err: err}
	}
	if !resp.IsSuccess() {
		return &core.CredentialError{Reason: "verify credentials", Err: statusError(resp, &apiErr)}
	}

	return nil
}

func (c *Client) Validate(ctx context.Context, username string) error {
	var user User
	var apiErr ErrorResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("screen_name", username).
		SetResult(&user).
		SetError(&apiErr).
		Get("/users/show.json")
	if err != nil {
		return core.NewTransientError("get user", err)
	}

	c.logger.Debugw("user fetched", "username", username, "status", resp.StatusCode(), "protected", user.Protected)

	switch resp.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return core.ErrAccountNotFound
	case http.StatusForbidden:
		if apiErr.hasCode(codeUserSuspended) {
			return core.ErrAccountSuspended
		}
		return core.ErrAccountPrivate
	default:
		if apiErr.hasCode(codeUserNotFound) {
			return core.ErrAccountNotFound
		}
		return core.NewTransientError("get user", statusError(resp, &apiErr))
	}
}

// Fetch walks the friends cursor until the API reports no further page.
func (c *Client) Fetch(ctx context.Context, username string) (core.FollowingList, error) {
	collector := core.NewCollector(username)
	cursor := int64(-1)

	for page := 1; ; page++ {
		var container UserContainer
		var apiErr ErrorResponse

		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"screen_name":           username,
				"count":                 strconv.Itoa(c.pageSize),
				"cursor":                strconv.FormatInt(cursor, 10),
				"skip_status":           "true",
				"include_user_entities": "false",
			}).
			ForceContentType("application/json").
			SetResult(&container).
			SetError(&apiErr).
			Get("/friends/list.json")
		if err != nil {
			return nil, core.NewTransientError("list friends", err)
		}
		if !resp.IsSuccess() {
			return nil, core.NewTransientError("list friends", statusError(resp, &apiErr))
		}

		for _, user := range container.Users {
			collector.Add(user.ScreenName)
		}

		c.logger.Debugw("friends page fetched", "username", username, "page", page, "users", len(container.Users), "next_cursor", container.NextCursor)

		if container.NextCursor == 0 {
			break
		}
		if container.NextCursor == cursor {
			return nil, core.NewTransientError("list friends", fmt.Errorf("cursor %d did not advance", cursor))
		}
		cursor = container.NextCursor
	}

	return collector.List(), nil
}

func rateLimited(resp *resty.Response, _ error) bool {
	return resp != nil && resp.StatusCode() == http.StatusTooManyRequests
}

// untilReset waits for the rate limit window to reopen, zero falls back to resty's backoff.
func (c *Client) untilReset(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	reset, err := strconv.ParseInt(resp.Header().Get(rateLimitResetHeader), 10, 64)
	if err != nil {
		return 0, nil
	}

	wait := time.Unix(reset, 0).Sub(c.clock.Now()) + time.Second
	if wait <= 0 {
		return 0, nil
	}
	if wait > c.maxWait {
		wait = c.maxWait
	}

	c.logger.Infof("Rate limit reached, waiting %s.", wait.Round(time.Second))
	return wait, nil
}

func statusError(resp *resty.Response, apiErr *ErrorResponse) error {
	if msg := apiErr.message(); msg != "" {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), msg)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode())
}
