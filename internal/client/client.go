package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/avast/retry-go"
	"github.com/pkg/errors"
)

const (
	// DefaultBaseURL is the platform root, also used as referer to mimic
	// browser navigation.
	DefaultBaseURL = "https://piccoma.com/fr"

	// userAgent reduces our visibility (trying at least...)
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:92.0) Gecko/20100101 Firefox/92.0"

	// sessionCookie is set by the platform on a successful login.
	sessionCookie = "access_token"
)

var transport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ReadBufferSize:        65536,
	WriteBufferSize:       65536,
	TLSClientConfig: &tls.Config{
		MinVersion: tls.VersionTLS12,
	},
}

type Config struct {
	// BaseURL overrides the platform root. Defaults to DefaultBaseURL.
	BaseURL string
	// Retries bounds how often a retryable request is reissued.
	Retries uint
	// Delay is the fixed pause before every request. Defaults to 1s.
	Delay time.Duration
	// Jitter is the upper bound of the random pause added to Delay.
	// Defaults to 1s.
	Jitter time.Duration
	// Timeout applies per request. Defaults to 60s.
	Timeout time.Duration
}

// Client issues all platform calls over a single cookie-backed session,
// pacing every request and retrying on transient server errors.
type Client struct {
	http    *http.Client
	jar     *cookiejar.Jar
	base    *url.URL
	delay   time.Duration
	jitter  time.Duration
	retries uint
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Delay == 0 {
		// 1s ought to be enough to avoid detection...
		cfg.Delay = time.Second
	}
	if cfg.Jitter == 0 {
		cfg.Jitter = time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base URL %q", cfg.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "create cookie jar")
	}

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			Jar:       jar,
		},
		jar:     jar,
		base:    base,
		delay:   cfg.Delay,
		jitter:  cfg.Jitter,
		retries: cfg.Retries,
	}, nil
}

// BaseURL returns the platform root the client talks to.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// IsLoggedIn reports whether the session currently holds an access token.
// The token itself is never decoded.
func (c *Client) IsLoggedIn() bool {
	for _, cookie := range c.jar.Cookies(c.base) {
		if cookie.Name == sessionCookie {
			return true
		}
	}

	return false
}

// Login authenticates against the platform. The resulting session token is
// kept in the cookie jar, the response body is ignored.
func (c *Client) Login(ctx context.Context, email, password string) error {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
		"redirect": c.BaseURL(),
	})
	if err != nil {
		return errors.Wrap(err, "encode credentials")
	}

	if _, err := c.fetch(ctx, http.MethodPost, c.BaseURL()+"/api/auth/signin", "text/html", payload); err != nil {
		return errors.Wrap(err, "login")
	}

	return nil
}

// GetHTML retrieves and parses the HTML document at url.
func (c *Client) GetHTML(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := c.fetch(ctx, http.MethodGet, url, "text/html", nil)
	if err != nil {
		return nil, errors.Wrap(err, "get HTML")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "parse HTML")
	}

	return doc, nil
}

// GetJSON retrieves url and decodes the JSON response into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.fetch(ctx, http.MethodGet, url, "application/json", nil)
	if err != nil {
		return errors.Wrap(err, "get JSON")
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(err, "read JSON")
	}

	return nil
}

// GetBytes retrieves the raw body at url, typically a page image.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	body, err := c.fetch(ctx, http.MethodGet, url, "image/*", nil)
	if err != nil {
		return nil, errors.Wrap(err, "get image")
	}

	return body, nil
}

// fetch executes one logical request, with pacing before every attempt and
// bounded retries on transient server errors.
func (c *Client) fetch(ctx context.Context, method, url, accept string, payload []byte) ([]byte, error) {
	var body []byte

	err := retry.Do(func() error {
		// wait a bit, don't overload the site
		c.pace()

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
		}

		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Referer", DefaultBaseURL)
		req.Header.Set("Accept", accept)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.Unrecoverable(fmt.Errorf("HTTP request failed: %w", err))
		}
		defer resp.Body.Close()

		if err := checkStatus(resp); err != nil {
			return err
		}

		body, err = readBody(resp)
		if err != nil {
			return retry.Unrecoverable(err)
		}

		return nil
	},
		retry.Attempts(c.retries+1),
		retry.RetryIf(isRetryable),
		retry.DelayType(c.retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	return body, nil
}

// pace sleeps for the configured delay plus a random jitter, so requests
// never line up into bursts the platform could rate limit.
func (c *Client) pace() {
	var jiffy time.Duration
	if c.jitter > 0 {
		jiffy = time.Duration(rand.Int63n(int64(c.jitter)))
	}
	time.Sleep(c.delay + jiffy)
}

// retryDelay honors a server-supplied Retry-After, falling back to the
// fixed delay.
func (c *Client) retryDelay(_ uint, err error, _ *retry.Config) time.Duration {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.RetryAfter > 0 {
		return statusErr.RetryAfter
	}

	return c.delay
}
