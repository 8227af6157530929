package pipeline

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/nurl/pkg/errors"
	"github.com/matzehuels/nurl/pkg/fetcher"
	"github.com/matzehuels/nurl/pkg/integrations"
	"github.com/matzehuels/nurl/pkg/integrations/crates"
	"github.com/matzehuels/nurl/pkg/integrations/gitea"
	"github.com/matzehuels/nurl/pkg/integrations/github"
	"github.com/matzehuels/nurl/pkg/integrations/gitlab"
	"github.com/matzehuels/nurl/pkg/integrations/hex"
	"github.com/matzehuels/nurl/pkg/integrations/pypi"
	"github.com/matzehuels/nurl/pkg/vcs"
)

// RevisionSource looks up the newest revision of what a call fetches.
type RevisionSource interface {
	LatestRevision(ctx context.Context, call fetcher.Call) (string, error)
}

// Remote answers latest-revision lookups from hosting APIs, package
// registries and git servers.
type Remote struct {
	Credentials Credentials
	Git         *vcs.Git
}

// LatestRevision implements RevisionSource.
func (r *Remote) LatestRevision(ctx context.Context, call fetcher.Call) (string, error) {
	f, keys := call.Fetcher, call.Values.Keys

	var (
		rev string
		err error
	)
	switch f.Latest {
	case fetcher.LatestGitHub:
		rev, err = github.NewClient(f.EffectiveHost(), r.Credentials.GitHub).LatestCommit(ctx, keys[0], keys[1])
	case fetcher.LatestGitLab:
		rev, err = gitlab.NewClient(f.EffectiveHost(), r.Credentials.GitLab).LatestCommit(ctx, call.Values.Group, keys[0], keys[1])
	case fetcher.LatestGitea:
		rev, err = gitea.NewClient(f.EffectiveHost(), r.Credentials.Gitea).LatestCommit(ctx, keys[0], keys[1])
	case fetcher.LatestCrates:
		rev, err = crates.NewClient().LatestVersion(ctx, keys[0])
	case fetcher.LatestPyPI:
		rev, err = pypi.NewClient().LatestVersion(ctx, keys[0])
	case fetcher.LatestHex:
		rev, err = hex.NewClient().LatestVersion(ctx, keys[0])
	case fetcher.LatestGit:
		if r.Git == nil {
			return "", errors.New(errors.ErrCodeInternal, "no git client configured")
		}
		// Extract already dropped any git+ prefix, which git itself rejects.
		return r.Git.LatestRevision(ctx, keys[0])
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "%s does not support fetching the latest revision", f.Name)
	}

	if err != nil {
		return "", apiError(err, sourceURL(call))
	}
	return rev, nil
}

// sourceURL returns the web address of what call fetches, for messages.
func sourceURL(call fetcher.Call) string {
	f, vals := call.Fetcher, call.Values
	switch f.Latest {
	case fetcher.LatestGitHub, fetcher.LatestGitLab, fetcher.LatestGitea:
		path := vals.Keys[0] + "/" + vals.Keys[1]
		if vals.Group != "" {
			path = vals.Group + "/" + path
		}
		return "https://" + f.EffectiveHost() + "/" + path
	case fetcher.LatestCrates:
		return "https://crates.io/crates/" + vals.Keys[0]
	case fetcher.LatestPyPI:
		return "https://pypi.org/project/" + vals.Keys[0]
	case fetcher.LatestHex:
		return "https://hex.pm/packages/" + vals.Keys[0]
	}
	if len(vals.Keys) > 0 {
		return vals.Keys[0]
	}
	return f.Name
}

// apiError maps integration errors onto error codes.
func apiError(err error, url string) error {
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return err
	case stderrors.Is(err, integrations.ErrNotFound), stderrors.Is(err, integrations.ErrEmpty):
		return errors.Wrap(errors.ErrCodeNotFound, err, "failed to fetch the latest revision of %s", url)
	case stderrors.Is(err, integrations.ErrRateLimited):
		return errors.Wrap(errors.ErrCodeRateLimited, err, "failed to fetch the latest revision of %s", url)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "failed to fetch the latest revision of %s", url)
	}
}
