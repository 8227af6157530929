package hex

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/nurl/pkg/integrations"
)

// Client provides access to the hex.pm package API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a hex.pm client.
func NewClient() *Client {
	headers := map[string]string{
		"Accept":     "application/json",
		"User-Agent": integrations.UserAgent,
	}
	return &Client{
		Client:  integrations.NewClient(headers),
		baseURL: "https://hex.pm/api",
	}
}

// LatestVersion returns the newest stable release of pkg, or the newest
// release of any kind when no stable one exists.
func (c *Client) LatestVersion(ctx context.Context, pkg string) (string, error) {
	var data packageResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/packages/%s", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", fmt.Errorf("%w: hex package %s", err, pkg)
		}
		return "", err
	}

	if data.LatestStableVersion != "" {
		return data.LatestStableVersion, nil
	}
	if data.LatestVersion != "" {
		return data.LatestVersion, nil
	}
	return "", fmt.Errorf("%w: hex package %s has no releases", integrations.ErrEmpty, pkg)
}

type packageResponse struct {
	Name                string `json:"name"`
	LatestVersion       string `json:"latest_version"`
	LatestStableVersion string `json:"latest_stable_version"`
}
