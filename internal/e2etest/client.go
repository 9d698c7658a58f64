// Package e2etest drives a running server over HTTP the way a browser would: it keeps cookies, reads CSRF tokens
// from rendered forms and parses responses with goquery.
package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/learnpref/internal/errors"
)

type Client struct {
	client *http.Client
	url    string
}

// NewClient creates an HTTP client with a cookie jar for the server at url.
func NewClient(url string) (*Client, error) {
	jar, err := newUnsafeCookieJar()
	if err != nil {
		return nil, errors.Wrap(err, "create unsafe cookie jar")
	}
	return &Client{
		client: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second, //nolint:mnd // 10 seconds
		},
		url: url,
	}, nil
}

// WaitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func (c *Client) WaitForReady(ctx context.Context, urlPath string) error {
	timeout := 1 * time.Second
	startTime := time.Now()
	for {
		resp, err := c.Get(ctx, urlPath)
		if err == nil {
			status := resp.StatusCode
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
			if status == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "context cancelled")
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready", slog.String("path", urlPath))
			}
			time.Sleep(100 * time.Millisecond) //nolint:mnd // 100ms
		}
	}
}

// Get fetches a URL and returns the response.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	req, err := c.newRequestWithContext(ctx, http.MethodGet, urlPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request with context")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request")
	}
	return resp, nil
}

// GetDoc fetches a URL and returns a goquery document. Any status other than 200 is an error.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, urlPath)
	if err != nil {
		return nil, errors.Wrap(err, "client get")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if http.StatusOK != resp.StatusCode {
		return nil, errors.New("unexpected status code", slog.Int("status", resp.StatusCode))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "create document from reader")
	}
	return doc, nil
}

// newRequestWithContext creates a new HTTP request to the server that respects the given context.
func (c *Client) newRequestWithContext(
	ctx context.Context,
	method, urlPath string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	return req, nil
}

// ExtractCSRFToken returns the CSRF token of the form posting to formActionURLPath.
func ExtractCSRFToken(doc *goquery.Document, formActionURLPath string) (string, error) {
	formSelector := fmt.Sprintf("form[action='%s']", formActionURLPath)
	form := doc.Find(formSelector)
	if form.Length() == 0 {
		return "", errors.New("form not found", slog.String("selector", formSelector))
	}
	csrfToken, ok := form.Find("input[name=csrf_token]").Attr("value")
	if !ok {
		return "", errors.New("csrf_token not found in form", slog.String("selector", formSelector))
	}
	return csrfToken, nil
}

// SubmitForm loads the page at formURLPath, fills in the CSRF token of the form with action formActionURLPath, posts
// it together with values and returns the parsed response document and its status code.
//
// The status code is returned instead of checked so that callers can assert on validation failures.
func (c *Client) SubmitForm(
	ctx context.Context,
	formURLPath string,
	formActionURLPath string,
	values neturl.Values,
) (*goquery.Document, int, error) {
	doc, err := c.GetDoc(ctx, formURLPath)
	if err != nil {
		return nil, 0, errors.Wrap(err, "get document")
	}

	var csrfToken string
	if csrfToken, err = ExtractCSRFToken(doc, formActionURLPath); err != nil {
		return nil, 0, errors.Wrap(err, "extract CSRF token")
	}

	formData := neturl.Values{}
	for key, vals := range values {
		formData[key] = append([]string(nil), vals...)
	}
	formData.Set("csrf_token", csrfToken)

	req, err := c.newRequestWithContext(ctx, http.MethodPost, formActionURLPath,
		strings.NewReader(formData.Encode()))
	if err != nil {
		return nil, 0, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "do request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if doc, err = goquery.NewDocumentFromReader(resp.Body); err != nil {
		return nil, 0, errors.Wrap(err, "create document from reader")
	}
	return doc, resp.StatusCode, nil
}

// PostJSON posts body encoded as JSON to urlPath and decodes the response into out unless out is nil.
func (c *Client) PostJSON(ctx context.Context, urlPath string, body any, out any) (int, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, errors.Wrap(err, "encode body")
	}
	req, err := c.newRequestWithContext(ctx, http.MethodPost, urlPath, &buf)
	if err != nil {
		return 0, errors.Wrap(err, "new request with context")
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "do request")
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if out != nil {
		if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, errors.Wrap(err, "decode response", slog.Int("status", resp.StatusCode))
		}
	}
	return resp.StatusCode, nil
}
