// Package remote implements the clients for the external APIs: the news
// backend, Have I Been Pwned, the NIST NVD, CTFtime, and the GitHub/Reddit
// search APIs used by omni-search. Each client normalizes its raw payloads
// into the canonical domain shapes before returning them.
package remote

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cyberpulse/pulse/internal/errs"
)

func newClient(baseURL string, timeout time.Duration) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		SetHeader("Accept", "application/json")
}

// getJSON performs a GET and decodes the body into out, classifying failures
// into the shared error taxonomy.
func getJSON(ctx context.Context, client *resty.Client, op, path string, query map[string]string, out any) error {
	req := client.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return &errs.NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return &errs.NetworkError{Op: op, Status: resp.StatusCode()}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &errs.ParseError{Op: op, Err: err}
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
