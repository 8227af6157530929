package fetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/nurl/pkg/errors"
	"github.com/matzehuels/nurl/pkg/integrations"
	"github.com/matzehuels/nurl/pkg/nix"
)

// Prefetcher is the hash acquisition back-end. [nix.Prefetcher] implements it.
type Prefetcher interface {
	Flake(ctx context.Context, ref string) (string, error)
	URL(ctx context.Context, url string, unpack bool) (string, error)
	FOD(ctx context.Context, expr string) (string, error)
	Git(ctx context.Context, url, rev string, kind nix.RefKind, submodules bool) (string, error)
}

// Hash computes the content hash of call. Extra arguments always force a
// fixed-output build, since only nixpkgs knows how they change the result.
func Hash(ctx context.Context, p Prefetcher, call Call, cfg *Config) (string, error) {
	f := call.Fetcher
	if f.Strategy == StrategyNone {
		return "", errors.New(errors.ErrCodeUnsupported, "%s does not support hashes", f.Name)
	}
	if !f.Revless() && call.Rev == "" {
		return "", errors.New(errors.ErrCodeInternal, "%s needs a revision to be hashed", f.Name)
	}

	_, rev := f.RevisionEntry(call.Rev)

	// A lone extension argument only changes which file fetchPypi downloads.
	if f.Kind == FetchPypi {
		if ext, ok := pypiExtension(cfg); ok {
			return p.URL(ctx, pypiURL(call.Values.Keys[0], rev, ext), false)
		}
	}

	if cfg.HasArgs() || f.Strategy == StrategyFOD {
		return p.FOD(ctx, nix.Call(cfg.Nixpkgs, f.Name, cfg.HashFields(call)))
	}

	vals := call.Values
	submodules := cfg.SubmodulesFor(f.Variant)

	switch f.Kind {
	case FetchFromGitHub:
		owner, repo := vals.Keys[0], vals.Keys[1]
		if submodules {
			return gitPrefetch(ctx, p, call, "git+https://"+f.EffectiveHost()+"/"+owner+"/"+repo, true)
		}
		return p.Flake(ctx, withHost("github:"+owner+"/"+repo+"/"+rev, f.Host))

	case FetchFromGitLab:
		owner, repo := vals.Keys[0], vals.Keys[1]
		if submodules {
			return gitPrefetch(ctx, p, call, "git+https://"+f.EffectiveHost()+"/"+joinPath(vals.Group, owner, repo), true)
		}
		return p.Flake(ctx, withHost("gitlab:"+integrations.PathEscape(vals.Group, owner)+"/"+repo+"/"+rev, f.Host))

	case FetchFromSourcehut:
		owner, repo := vals.Keys[0], vals.Keys[1]
		if submodules {
			return gitPrefetch(ctx, p, call, "git+https://"+f.EffectiveHost()+"/"+owner+"/"+repo, true)
		}
		return p.Flake(ctx, withHost("sourcehut:"+owner+"/"+repo+"/"+rev, f.Host))

	case FetchFromGitea:
		owner, repo := vals.Keys[0], vals.Keys[1]
		if submodules {
			return gitPrefetch(ctx, p, call, "git+https://"+f.EffectiveHost()+"/"+owner+"/"+repo, true)
		}
		return p.URL(ctx, fmt.Sprintf("https://%s/%s/%s/archive/%s.tar.gz", f.EffectiveHost(), owner, repo, rev), true)

	case Fetchgit:
		url := vals.Keys[0]
		if f.Git != GitNative {
			url = "git+" + url
		}
		return gitPrefetch(ctx, p, call, url, submodules)

	case Fetchhg:
		if submodules {
			return p.FOD(ctx, nix.Call(cfg.Nixpkgs, f.Name, cfg.HashFields(call)))
		}
		param := "ref"
		if len(rev) == 40 {
			param = "rev"
		}
		return p.Flake(ctx, "hg+"+vals.Keys[0]+"?"+param+"="+rev)

	case Fetchzip:
		return p.Flake(ctx, "tarball+"+vals.Keys[0])
	}

	url, ok := archiveURL(call, rev)
	if !ok {
		return "", errors.New(errors.ErrCodeInternal, "no hashing strategy for %s", f.Name)
	}
	return p.URL(ctx, url, f.Unpack)
}

// archiveURL returns the download URL hashed for fetchers that use
// nix-prefetch-url.
func archiveURL(call Call, rev string) (string, bool) {
	vals := call.Values
	switch call.Fetcher.Kind {
	case FetchFromBitbucket:
		return fmt.Sprintf("https://bitbucket.org/%s/%s/get/%s.tar.gz", vals.Keys[0], vals.Keys[1], rev), true
	case FetchFromGitiles:
		return fmt.Sprintf("%s/+archive/%s.tar.gz", strings.TrimSuffix(vals.Keys[0], "/"), rev), true
	case FetchFromRepoOrCz:
		return fmt.Sprintf("https://repo.or.cz/%s.git/snapshot/%s.tar.gz", vals.Keys[0], rev), true
	case FetchCrate:
		return fmt.Sprintf("https://crates.io/api/v1/crates/%s/%s/download", vals.Keys[0], rev), true
	case FetchPypi:
		return pypiURL(vals.Keys[0], rev, "tar.gz"), true
	case FetchHex:
		return fmt.Sprintf("https://repo.hex.pm/tarballs/%s-%s.tar", vals.Keys[0], rev), true
	case Fetchurl:
		return vals.Keys[0], true
	}
	return "", false
}

func pypiURL(pname, version, ext string) string {
	return fmt.Sprintf("https://pypi.org/packages/source/%s/%s/%s-%s.%s", pname[:1], pname, pname, version, ext)
}

// pypiExtension reports the file extension to download when extension is
// the only extra argument.
func pypiExtension(cfg *Config) (string, bool) {
	if len(cfg.Args) != 0 || len(cfg.ArgsStr) != 1 {
		return "", false
	}
	if b := cfg.ArgsStr[0]; b.Name == "extension" && b.Value != "" {
		return b.Value, true
	}
	return "", false
}

func gitPrefetch(ctx context.Context, p Prefetcher, call Call, url string, submodules bool) (string, error) {
	key, rev := call.Fetcher.RevisionEntry(call.Rev)
	kind := nix.RefTag
	switch key {
	case "rev":
		kind = nix.RefCommit
	case "ref":
		kind = nix.RefName
	}
	return p.Git(ctx, url, rev, kind, submodules)
}

// EffectiveHost returns the recorded host, or the variant's default host.
func (f Fetcher) EffectiveHost() string {
	if f.Host != "" {
		return f.Host
	}
	return f.DefaultHost
}

func withHost(ref, host string) string {
	if host == "" {
		return ref
	}
	return ref + "?host=" + host
}

func joinPath(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "/")
}
