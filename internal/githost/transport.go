package githost

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Request is one call to the remote listing endpoint
type Request struct {
	URL   string
	Token string // Optional bearer token
	ETag  string // Optional conditional-fetch precondition
}

// Response carries the status, body, and the response metadata the client
// needs: the revision tag, a pagination continuation signal, and the
// rate-limit reset time when applicable
type Response struct {
	Status             int
	Body               []byte
	ETag               string
	NextPage           string // URL of the next page, empty when exhausted
	RateLimitRemaining int    // -1 when the header is absent
	RateLimitReset     time.Time
}

// Transport is the seam at which a real HTTP client plugs in
type Transport interface {
	RoundTrip(ctx context.Context, req *Request) (*Response, error)
}

// HTTPTransport implements Transport against a GitHub-compatible REST API
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport with a sane request timeout
func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// RoundTrip performs the request and extracts the metadata headers
func (t *HTTPTransport) RoundTrip(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to build request for %s", req.URL)
	}

	httpReq.Header.Set("Accept", "application/vnd.github+json")
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}
	if req.ETag != "" {
		httpReq.Header.Set("If-None-Match", req.ETag)
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, eris.Wrapf(err, "request to %s failed", req.URL)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "failed to read response body")
	}

	resp := &Response{
		Status:             httpResp.StatusCode,
		Body:               body,
		ETag:               httpResp.Header.Get("ETag"),
		NextPage:           parseNextLink(httpResp.Header.Get("Link")),
		RateLimitRemaining: -1,
	}

	if remaining := httpResp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
		if n, err := strconv.Atoi(remaining); err == nil {
			resp.RateLimitRemaining = n
		}
	}
	if reset := httpResp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if secs, err := strconv.ParseInt(reset, 10, 64); err == nil {
			resp.RateLimitReset = time.Unix(secs, 0)
		}
	}

	return resp, nil
}

// parseNextLink extracts the rel="next" URL from an RFC 5988 Link header,
// returning empty when there is no next page
func parseNextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}

		urlPart := strings.Trim(strings.TrimSpace(section[0]), "<>")
		for _, param := range section[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return urlPart
			}
		}
	}
	return ""
}
