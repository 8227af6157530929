package github

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/nurl/pkg/integrations"
)

// DefaultHost is the public GitHub instance.
const DefaultHost = "github.com"

// Client provides access to the GitHub REST API of one GitHub instance.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client for host with optional authentication.
// github.com is served from api.github.com; any other host is assumed to be
// a GitHub Enterprise Server with its API under /api/v3. Pass an empty token
// for unauthenticated requests (60 requests/hour).
func NewClient(host, token string) *Client {
	if host == "" {
		host = DefaultHost
	}
	headers := integrations.BearerHeaders(map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}, token)

	return &Client{
		Client:  integrations.NewClient(headers),
		baseURL: apiBase(host),
	}
}

// LatestCommit returns the SHA of the newest commit on the default branch.
func (c *Client) LatestCommit(ctx context.Context, owner, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=1", c.baseURL, owner, repo)

	var data []commitResponse
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return "", err
	}
	if len(data) == 0 || data[0].SHA == "" {
		return "", fmt.Errorf("%w: no commits in github repo %s/%s", integrations.ErrEmpty, owner, repo)
	}
	return data[0].SHA, nil
}

func apiBase(host string) string {
	if host == DefaultHost {
		return "https://api.github.com"
	}
	return "https://" + host + "/api/v3"
}

type commitResponse struct {
	SHA string `json:"sha"`
}
