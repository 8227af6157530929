package nix

import (
	"context"
	stderrors "errors"
	"strings"
)

// RefKind says how a git revision string is handed to nix.
type RefKind int

const (
	// RefCommit is a full commit digest, fetched with allRefs so that
	// commits outside the default branch are found.
	RefCommit RefKind = iota
	// RefTag is a symbolic name tried as refs/tags/<name> first and as a
	// plain ref second.
	RefTag
	// RefName is a ref passed through unchanged.
	RefName
)

// GitFlakeRefs returns the flake references to try, in order, for fetching
// rev from the git repository at url. url must already carry any git+
// prefix nix needs.
func GitFlakeRefs(url, rev string, kind RefKind, submodules bool) []string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	suffix := ""
	if submodules {
		suffix = "&submodules=1"
	}

	switch kind {
	case RefCommit:
		return []string{url + sep + "allRefs=1&rev=" + rev + suffix}
	case RefTag:
		return []string{
			url + sep + "ref=refs/tags/" + rev + suffix,
			url + sep + "ref=" + rev + suffix,
		}
	default:
		return []string{url + sep + "ref=" + rev + suffix}
	}
}

// Git prefetches rev of the git repository at url, walking the candidates
// of [GitFlakeRefs] until one succeeds. The last failure is returned when
// none does.
func (p *Prefetcher) Git(ctx context.Context, url, rev string, kind RefKind, submodules bool) (string, error) {
	var lastErr error
	for _, ref := range GitFlakeRefs(url, rev, kind, submodules) {
		hash, err := p.Flake(ctx, ref)
		if err == nil {
			return hash, nil
		}
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		p.logger.Debug("flake prefetch failed, trying next reference", "ref", ref)
		lastErr = err
	}
	return "", lastErr
}
