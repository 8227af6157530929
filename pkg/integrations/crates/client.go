package crates

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/nurl/pkg/integrations"
)

// Client provides access to the crates.io package registry API.
//
// crates.io rejects requests without a User-Agent; this client sets one.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a crates.io client.
func NewClient() *Client {
	headers := map[string]string{"User-Agent": integrations.UserAgent}
	return &Client{
		Client:  integrations.NewClient(headers),
		baseURL: "https://crates.io/api/v1",
	}
}

// LatestVersion returns the newest stable version of crate, falling back to
// the newest version of any kind when the crate has no stable release.
func (c *Client) LatestVersion(ctx context.Context, crate string) (string, error) {
	var data crateResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/crates/%s", c.baseURL, crate), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", fmt.Errorf("%w: crate %s", err, crate)
		}
		return "", err
	}

	if v := data.Crate.MaxStableVersion; v != "" {
		return v, nil
	}
	if v := data.Crate.MaxVersion; v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: crate %s has no published versions", integrations.ErrEmpty, crate)
}

type crateResponse struct {
	Crate struct {
		Name             string `json:"name"`
		MaxVersion       string `json:"max_version"`
		MaxStableVersion string `json:"max_stable_version"`
	} `json:"crate"`
}
