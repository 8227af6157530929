package gitlab

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/nurl/pkg/integrations"
)

// DefaultHost is the public GitLab instance.
const DefaultHost = "gitlab.com"

// Client provides access to the GitLab v4 API of one GitLab instance.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitLab API client for host with optional authentication.
// The token is sent as PRIVATE-TOKEN; pass an empty string for public projects.
func NewClient(host, token string) *Client {
	if host == "" {
		host = DefaultHost
	}
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": token}
	}

	return &Client{
		Client:  integrations.NewClient(headers),
		baseURL: "https://" + host + "/api/v4",
	}
}

// LatestCommit returns the id of the newest commit on the project's default
// branch. group holds any enclosing (sub)groups and may be empty.
func (c *Client) LatestCommit(ctx context.Context, group, owner, repo string) (string, error) {
	project := integrations.PathEscape(group, owner, repo)
	url := fmt.Sprintf("%s/projects/%s/repository/commits?per_page=1", c.baseURL, project)

	var data []commitResponse
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", fmt.Errorf("%w: gitlab project %s", err, project)
		}
		return "", err
	}
	if len(data) == 0 || data[0].ID == "" {
		return "", fmt.Errorf("%w: no commits in gitlab project %s", integrations.ErrEmpty, project)
	}
	return data[0].ID, nil
}

type commitResponse struct {
	ID string `json:"id"`
}
