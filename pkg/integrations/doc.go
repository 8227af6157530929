// Package integrations provides HTTP clients for the hosting APIs nurl asks
// for the latest revision of a repository or package.
//
// # Overview
//
// Each service has its own subpackage:
//
//   - [github]: latest commit on the default branch (api.github.com or GitHub Enterprise)
//   - [gitlab]: latest commit, including nested groups and self-hosted instances
//   - [gitea]: latest commit on Gitea and Forgejo instances such as codeberg.org
//   - [crates]: newest published version of a Rust crate
//   - [pypi]: newest release of a Python project
//   - [hex]: newest stable release of an Erlang/Elixir package
//
// # Client Pattern
//
// All clients follow the same shape:
//
//	client := github.NewClient("github.com", token)
//	sha, err := client.LatestCommit(ctx, "nix-community", "nurl")
//
// # Shared Infrastructure
//
// The [Client] type provides the shared HTTP plumbing: default headers,
// status-code mapping to [ErrNotFound], [ErrNetwork] and [ErrRateLimited],
// and retries for transient failures via [httputil.RetryWithBackoff].
// Nothing is cached between runs.
//
// [github]: github.com/matzehuels/nurl/pkg/integrations/github
// [gitlab]: github.com/matzehuels/nurl/pkg/integrations/gitlab
// [gitea]: github.com/matzehuels/nurl/pkg/integrations/gitea
// [crates]: github.com/matzehuels/nurl/pkg/integrations/crates
// [pypi]: github.com/matzehuels/nurl/pkg/integrations/pypi
// [hex]: github.com/matzehuels/nurl/pkg/integrations/hex
// [httputil.RetryWithBackoff]: github.com/matzehuels/nurl/pkg/httputil.RetryWithBackoff
package integrations
