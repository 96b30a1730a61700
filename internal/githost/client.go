// Package githost fetches the hosting account's repository list through an
// authenticated, paginated, rate-limit-aware client with conditional
// fetching against the persistent repository cache.
package githost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fjellvarden/peakview/internal/cache"
	"github.com/fjellvarden/peakview/internal/logging"
	"github.com/fjellvarden/peakview/internal/models"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// pageSize is the fixed page size for the listing endpoint
const pageSize = 100

// Client fetches the account's repositories. It does not retry or
// deduplicate concurrent calls; both are the caller's responsibility.
type Client struct {
	transport Transport
	cache     *cache.RemoteRepositoryCache
	baseURL   string
}

// NewClient creates a client over the given transport and cache
func NewClient(transport Transport, repoCache *cache.RemoteRepositoryCache, baseURL string) *Client {
	return &Client{
		transport: transport,
		cache:     repoCache,
		baseURL:   baseURL,
	}
}

// repoPayload is the JSON structure of one repository in the listing
// response
type repoPayload struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	FullName      string     `json:"full_name"`
	HTMLURL       string     `json:"html_url"`
	CloneURL      string     `json:"clone_url"`
	SSHURL        string     `json:"ssh_url"`
	Private       bool       `json:"private"`
	PushedAt      *time.Time `json:"pushed_at"`
	DefaultBranch string     `json:"default_branch"`
}

// viewerPayload is the JSON structure of the authenticated-user response
type viewerPayload struct {
	Login string `json:"login"`
}

// FetchAll returns the account's full repository list, serving from the
// cache when it is fresh enough and forceRefresh is false. On a
// conditional-fetch "not modified" answer the cached list is returned
// unchanged. Failures never mutate or clear the cache.
func (c *Client) FetchAll(ctx context.Context, token string, forceRefresh bool) ([]models.RemoteRepository, error) {
	if !forceRefresh && !c.cache.ShouldRefresh() {
		return c.cache.Repos(), nil
	}

	if token == "" {
		return nil, ErrUnauthenticated
	}

	var (
		all       []models.RemoteRepository
		firstETag string
	)

	pageURL := fmt.Sprintf("%s/user/repos?per_page=%d&affiliation=owner", c.baseURL, pageSize)
	firstPage := true

	for pageURL != "" {
		req := &Request{URL: pageURL, Token: token}
		if firstPage && !forceRefresh {
			// Conditional precondition applies to the first page only;
			// a forced refresh always transfers the full set
			req.ETag = c.cache.ETag()
		}

		resp, err := c.transport.RoundTrip(ctx, req)
		if err != nil {
			return nil, eris.Wrap(err, "repository listing request failed")
		}

		if firstPage && resp.Status == http.StatusNotModified {
			// The whole set is unchanged; remaining pages are not needed
			c.cache.RecordNotModified()
			logging.L().Debug("repository list not modified")
			return c.cache.Repos(), nil
		}

		if err := classifyStatus(resp); err != nil {
			return nil, err
		}

		var page []repoPayload
		if err := json.Unmarshal(resp.Body, &page); err != nil {
			return nil, eris.Wrap(err, "failed to parse repository listing")
		}

		for _, p := range page {
			all = append(all, models.RemoteRepository{
				ID:            p.ID,
				Name:          p.Name,
				FullName:      p.FullName,
				HTMLURL:       p.HTMLURL,
				CloneURL:      p.CloneURL,
				SSHURL:        p.SSHURL,
				Private:       p.Private,
				PushedAt:      p.PushedAt,
				DefaultBranch: p.DefaultBranch,
			})
		}

		if firstPage {
			firstETag = resp.ETag
			firstPage = false
		}
		pageURL = resp.NextPage
	}

	c.cache.RecordFetch(all, firstETag)
	logging.L().Info("fetched repository list", zap.Int("count", len(all)))

	return all, nil
}

// FetchViewer validates the token against the authenticated-user endpoint
// and returns the account login
func (c *Client) FetchViewer(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthenticated
	}

	resp, err := c.transport.RoundTrip(ctx, &Request{URL: c.baseURL + "/user", Token: token})
	if err != nil {
		return "", eris.Wrap(err, "viewer request failed")
	}

	if err := classifyStatus(resp); err != nil {
		return "", err
	}

	var viewer viewerPayload
	if err := json.Unmarshal(resp.Body, &viewer); err != nil {
		return "", eris.Wrap(err, "failed to parse viewer response")
	}
	if viewer.Login == "" {
		return "", eris.New("viewer response has no login")
	}

	return viewer.Login, nil
}

// classifyStatus maps non-success statuses to the client's typed errors.
// A 403 that exhausted the rate limit is RateLimited; any other 403 is a
// rejected credential, matching GitHub's API semantics.
func classifyStatus(resp *Response) error {
	switch {
	case resp.Status == http.StatusOK:
		return nil
	case resp.Status == http.StatusUnauthorized:
		return ErrInvalidCredential
	case resp.Status == http.StatusTooManyRequests,
		resp.Status == http.StatusForbidden && resp.RateLimitRemaining == 0:
		return &RateLimitedError{ResetAt: resp.RateLimitReset}
	case resp.Status == http.StatusForbidden:
		return ErrInvalidCredential
	default:
		return &ServerError{Status: resp.Status}
	}
}
