// Package github provides an HTTP client for the GitHub REST API.
//
// # Overview
//
// nurl only needs one thing from GitHub: the commit a repository's default
// branch currently points at, so that a fetcher can be pinned when the user
// did not name a revision.
//
// # Usage
//
//	client := github.NewClient("github.com", os.Getenv("GITHUB_TOKEN"))
//	sha, err := client.LatestCommit(ctx, "nix-community", "nurl")
//
// # Authentication
//
// A personal access token is optional. Without one GitHub allows 60
// requests/hour per IP; with one the limit is 5000 requests/hour. An
// exhausted quota surfaces as [integrations.ErrRateLimited].
//
// # Enterprise hosts
//
// For a host other than github.com the API is addressed as
// https://<host>/api/v3, the GitHub Enterprise Server layout.
package github
