package pypi

import (
	"context"
	"errors"
	"fmt"

	"github.com/matzehuels/nurl/pkg/integrations"
)

// Client provides access to the PyPI JSON API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PyPI client.
func NewClient() *Client {
	return &Client{
		Client:  integrations.NewClient(nil),
		baseURL: "https://pypi.org/pypi",
	}
}

// LatestVersion returns the version PyPI reports as current for pkg.
func (c *Client) LatestVersion(ctx context.Context, pkg string) (string, error) {
	var data apiResponse
	if err := c.Get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, pkg), &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return "", fmt.Errorf("%w: pypi package %s", err, pkg)
		}
		return "", err
	}
	if data.Info.Version == "" {
		return "", fmt.Errorf("%w: pypi package %s has no releases", integrations.ErrEmpty, pkg)
	}
	return data.Info.Version, nil
}

type apiResponse struct {
	Info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"info"`
}
