package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/deploymenttheory/go-clearkey/internal/interfaces"
)

const (
	defaultLicenseTimeout = 10 * time.Second
	defaultUserAgent      = "go-clearkey/0.1"
)

// LicenseClient posts ClearKey license requests to a license server over HTTP.
type LicenseClient struct {
	client    *fasthttp.Client
	url       string
	timeout   time.Duration
	userAgent string
}

// Ensure interface compliance
var _ interfaces.LicenseFetcher = (*LicenseClient)(nil)

// LicenseClientOption configures a LicenseClient.
type LicenseClientOption func(*LicenseClient)

// WithHTTPClient replaces the underlying fasthttp client.
func WithHTTPClient(client *fasthttp.Client) LicenseClientOption {
	return func(c *LicenseClient) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout bounds each request when the caller's context carries no deadline.
func WithTimeout(timeout time.Duration) LicenseClientOption {
	return func(c *LicenseClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent sets the User-Agent header sent to the license server.
func WithUserAgent(userAgent string) LicenseClientOption {
	return func(c *LicenseClient) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// NewLicenseClient creates a client for the license server at url.
func NewLicenseClient(url string, opts ...LicenseClientOption) (*LicenseClient, error) {
	if url == "" {
		return nil, errors.New("license server URL must not be empty")
	}

	c := &LicenseClient{
		client:    &fasthttp.Client{},
		url:       url,
		timeout:   defaultLicenseTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the license server URL.
func (c *LicenseClient) URL() string {
	return c.url
}

// FetchLicense posts request as JSON and returns the response body.
// Any status outside 2xx is an error.
func (c *LicenseClient) FetchLicense(ctx context.Context, request []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.SetUserAgent(c.userAgent)
	req.SetBody(request)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch license from %s: %w", c.url, err)
	}

	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return nil, fmt.Errorf("license server %s returned status %d", c.url, status)
	}

	// The response body is only valid until resp is released.
	body := append([]byte(nil), resp.Body()...)
	return body, nil
}
