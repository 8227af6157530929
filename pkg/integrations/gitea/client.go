package gitea

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/nurl/pkg/integrations"
)

// DefaultHost is Codeberg, the largest public Forgejo instance.
const DefaultHost = "codeberg.org"

// Client provides access to the v1 API of a Gitea or Forgejo instance.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a Gitea API client for host. A non-empty token is sent
// as "Authorization: token <token>".
func NewClient(host, token string) *Client {
	if host == "" {
		host = DefaultHost
	}
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"Authorization": "token " + token}
	}

	return &Client{
		Client:  integrations.NewClient(headers),
		baseURL: "https://" + host + "/api/v1",
	}
}

// LatestCommit returns the SHA of the newest commit on the default branch.
func (c *Client) LatestCommit(ctx context.Context, owner, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits?limit=1&stat=false", c.baseURL, owner, repo)

	var data []commitResponse
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", fmt.Errorf("%w: gitea repo %s/%s", err, owner, repo)
		}
		return "", err
	}
	if len(data) == 0 || data[0].SHA == "" {
		return "", fmt.Errorf("%w: no commits in gitea repo %s/%s", integrations.ErrEmpty, owner, repo)
	}
	return data[0].SHA, nil
}

type commitResponse struct {
	SHA string `json:"sha"`
}
