// Package gitlab provides an HTTP client for the GitLab v4 API.
//
// Projects are addressed by their URL-encoded full path, so nested groups
// work unchanged:
//
//	client := gitlab.NewClient("gitlab.gnome.org", "")
//	sha, err := client.LatestCommit(ctx, "World/Rust", "owner", "repo")
//	// GET https://gitlab.gnome.org/api/v4/projects/World%2FRust%2Fowner%2Frepo/repository/commits?per_page=1
package gitlab
