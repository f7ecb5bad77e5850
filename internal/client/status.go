package client

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// StatusError is a transport failure carrying the HTTP status it failed
// with, and the server-supplied retry hint when one was sent.
type StatusError struct {
	Code       int
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

// Retryable reports whether the failure is worth retrying. Only server
// errors and rate limiting qualify, anything else is final.
func (e *StatusError) Retryable() bool {
	return (e.Code >= 500 && e.Code <= 599) || e.Code == http.StatusTooManyRequests
}

func isRetryable(err error) bool {
	statusErr, ok := err.(*StatusError)

	return ok && statusErr.Retryable()
}

// checkStatus turns a non-2xx response into a StatusError, capturing the
// Retry-After header (in seconds) for retryable statuses.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	statusErr := &StatusError{Code: resp.StatusCode}
	if statusErr.Retryable() {
		if header := resp.Header.Get("Retry-After"); header != "" {
			if seconds, err := strconv.ParseUint(header, 10, 32); err == nil {
				statusErr.RetryAfter = time.Duration(seconds) * time.Second
			}
		}
	}

	return statusErr
}

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(bufio.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
