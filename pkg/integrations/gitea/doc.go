// Package gitea provides an HTTP client for the Gitea/Forgejo v1 API,
// used to find the latest commit of repositories on codeberg.org and
// self-hosted instances.
package gitea
