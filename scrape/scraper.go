// Package scrape reads following lists from public profile pages without
// authentication. It only sees the links present in the served HTML, so it
// may not retrieve all results.
package scrape

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"followexport/core"
	"followexport/log"
)

const (
	DefaultBaseURL   = "https://twitter.com"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// profileLinkRe matches links to a single path segment, e.g. "/bob".
var profileLinkRe = regexp.MustCompile(`^/\w+$`)

type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

type Scraper struct {
	client *resty.Client
	logger *zap.SugaredLogger
}

func NewScraper(cfg Config, logger *zap.SugaredLogger) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("User-Agent", cfg.UserAgent).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetLogger(log.DebugLogger{SugaredLogger: logger})

	return &Scraper{client: client, logger: logger}
}

// Client exposes the underlying resty client, tests use it to mock transport.
func (s *Scraper) Client() *resty.Client {
	return s.client
}

func (s *Scraper) Name() string {
	return "scrape"
}

func (s *Scraper) Caveat() string {
	return "Note: Web scraping may not get all followings and might be unreliable."
}

func (s *Scraper) Validate(ctx context.Context, username string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("username", username).
		Get("/{username}")
	if err != nil {
		return core.NewTransientError("get profile", err)
	}

	body := resp.String()
	lower := strings.ToLower(body)

	s.logger.Debugw("profile page fetched", "username", username, "status", resp.StatusCode(), "bytes", len(body))

	switch {
	case strings.Contains(lower, "account suspended"):
		return core.ErrAccountSuspended
	case resp.StatusCode() == http.StatusNotFound || strings.Contains(lower, "doesn't exist"):
		return core.ErrAccountNotFound
	case strings.Contains(body, "These Tweets are protected"):
		return core.ErrAccountPrivate
	}

	return nil
}

func (s *Scraper) Fetch(ctx context.Context, username string) (core.FollowingList, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("username", username).
		Get("/{username}/following")
	if err != nil {
		return nil, core.NewTransientError("get following page", err)
	}

	s.logger.Debugw("following page fetched", "username", username, "status", resp.StatusCode(), "bytes", len(resp.Body()))

	hrefs, err := profileLinks(resp.Body())
	if err != nil {
		return nil, core.NewTransientError("parse following page", err)
	}

	c := core.NewCollector(username)
	for _, href := range hrefs {
		c.Add(href[1:])
	}

	return c.List(), nil
}

// profileLinks returns the href of every anchor pointing at a single path segment, in document order.
func profileLinks(body []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var hrefs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && profileLinkRe.MatchString(attr.Val) {
					hrefs = append(hrefs, attr.Val)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return hrefs, nil
}
