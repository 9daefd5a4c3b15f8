package github

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v67/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github-relay/internal/config"
)

// RateLimitLowWatermark is the remaining-quota level below which calls are logged at warn
const RateLimitLowWatermark = 100

// loggingTransport logs every GitHub API call with the quota left after it
type loggingTransport struct {
	base http.RoundTripper
	log  *logrus.Entry
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)

	fields := logrus.Fields{
		"method":   req.Method,
		"path":     req.URL.Path,
		"duration": time.Since(start).String(),
	}
	if err != nil {
		t.log.WithFields(fields).WithError(err).Debug("GitHub API call failed")
		return resp, err
	}

	fields["status"] = resp.StatusCode
	remaining, limit, resetAt := parseRateLimitHeaders(resp)
	if remaining >= 0 && limit > 0 {
		fields["rate_remaining"] = remaining
		fields["rate_limit"] = limit
	}

	entry := t.log.WithFields(fields)
	if remaining >= 0 && remaining <= RateLimitLowWatermark {
		entry.WithField("resets_at", resetAt.Format(time.RFC3339)).Warn("GitHub API rate limit low")
	} else {
		entry.Debug("GitHub API call")
	}

	return resp, nil
}

// parseRateLimitHeaders extracts rate limit info from response headers.
// Missing values are reported as -1.
func parseRateLimitHeaders(resp *http.Response) (remaining, limit int, resetAt time.Time) {
	remaining = -1
	limit = -1

	if remainingStr := resp.Header.Get("X-RateLimit-Remaining"); remainingStr != "" {
		if rem, err := strconv.Atoi(remainingStr); err == nil {
			remaining = rem
		}
	}

	if limitStr := resp.Header.Get("X-RateLimit-Limit"); limitStr != "" {
		if lim, err := strconv.Atoi(limitStr); err == nil {
			limit = lim
		}
	}

	if resetStr := resp.Header.Get("X-RateLimit-Reset"); resetStr != "" {
		if resetTime, err := strconv.ParseInt(resetStr, 10, 64); err == nil {
			resetAt = time.Unix(resetTime, 0)
		}
	}

	return remaining, limit, resetAt
}

// NewClient builds the GitHub API client once at startup.
// An empty token yields an unauthenticated client; requests are gated before reaching it.
func NewClient(ctx context.Context, cfg config.GitHubConfig, log *logrus.Entry) (*gh.Client, error) {
	httpClient := &http.Client{Transport: http.DefaultTransport}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	httpClient.Transport = &loggingTransport{
		base: httpClient.Transport,
		log:  log.WithField("component", "github"),
	}

	client := gh.NewClient(httpClient)

	if cfg.APIURL != "" {
		apiURL := cfg.APIURL
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		baseURL, err := client.BaseURL.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GITHUB_API_URL %q: %w", cfg.APIURL, err)
		}
		if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
			return nil, fmt.Errorf("invalid GITHUB_API_URL %q: scheme must be http or https", cfg.APIURL)
		}
		client.BaseURL = baseURL
	}

	return client, nil
}
