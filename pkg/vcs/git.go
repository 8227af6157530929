// Package vcs queries version-control servers directly, for repositories
// that are not hosted on a forge with an API.
package vcs

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/matzehuels/nurl/pkg/command"
	"github.com/matzehuels/nurl/pkg/errors"
)

// Git resolves revisions with the git command-line client.
type Git struct {
	Runner command.Runner
}

// LatestRevision returns the commit HEAD points at in the remote repository.
func (g *Git) LatestRevision(ctx context.Context, url string) (string, error) {
	res, err := g.Runner.Run(ctx, "git", "ls-remote", url, "HEAD")
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", errors.Wrap(errors.ErrCodeExternalTool, err, "git ls-remote %s", url)
	}

	sc := bufio.NewScanner(bytes.NewReader(res.Stdout))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) >= 2 && fields[1] == "HEAD" && isCommitHash(fields[0]) {
			return fields[0], nil
		}
	}
	return "", errors.New(errors.ErrCodeNotFound, "no HEAD revision found for %s", url)
}

// isCommitHash reports whether s looks like a full 40-character SHA-1 hex string.
func isCommitHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
