package fetcher

import (
	"strings"

	"github.com/matzehuels/nurl/pkg/errors"
)

// GitScheme records how a git URL was spelled.
type GitScheme int

const (
	GitPlain  GitScheme = iota // https://, ssh://, ...; nix needs a git+ prefix
	GitNative                  // git://, understood by nix as-is
	GitPlus                    // git+https:// etc.; the prefix is stripped from the rendered URL
)

// Fetcher is a resolved fetcher choice for a particular URL.
type Fetcher struct {
	*Variant
	// Host is the host to render under Variant.HostKey; empty when the
	// default host applies.
	Host string
	Git  GitScheme
	// HgPlus is set when the URL used the hg+ scheme prefix.
	HgPlus bool
}

var archiveSuffixes = []string{
	".tar", ".tar.gz", ".tar.bz2", ".tar.xz",
	".tgz", ".tbz", ".tbz2", ".txz", ".zip",
}

// Resolve chooses the fetcher for u. explicit, when non-nil, is the
// user's choice; fallback applies when nothing else matches.
//
// The rules are checked in order and the first match wins: patch files,
// archives, an explicit forge fetcher (validated against the host), known
// hosts, URL schemes, any other explicit fetcher, and finally the fallback.
func Resolve(u URL, explicit *Kind, fallback Kind) (Fetcher, error) {
	if explicit == nil {
		last := u.lastSegment()
		if strings.HasSuffix(last, ".patch") || strings.HasSuffix(last, ".diff") {
			return Fetcher{Variant: Fetchpatch.Variant()}, nil
		}
		for _, suffix := range archiveSuffixes {
			if strings.HasSuffix(last, suffix) {
				return Fetcher{Variant: Fetchzip.Variant()}, nil
			}
		}
	}

	if explicit != nil && explicit.Variant().ForgeSpecific() {
		return forHost(explicit.Variant(), u)
	}

	if explicit == nil {
		if k, ok := inferFromHost(u.Hostname()); ok {
			return forHost(k.Variant(), u)
		}
	}

	if k, ok := inferFromScheme(u.Scheme); ok && (explicit == nil || *explicit == k) {
		return rawFetcher(k.Variant(), u), nil
	}

	if explicit != nil {
		return rawFetcher(explicit.Variant(), u), nil
	}

	if fallback.Variant().ForgeSpecific() {
		return forHost(fallback.Variant(), u)
	}
	return rawFetcher(fallback.Variant(), u), nil
}

func inferFromHost(host string) (Kind, bool) {
	switch {
	case host == "github.com":
		return FetchFromGitHub, true
	case host == "gitlab.com" || strings.HasPrefix(host, "gitlab."):
		return FetchFromGitLab, true
	case host == "codeberg.org":
		return FetchFromGitea, true
	case host == "git.sr.ht":
		return FetchFromSourcehut, true
	case host == "bitbucket.org":
		return FetchFromBitbucket, true
	case host == "repo.or.cz":
		return FetchFromRepoOrCz, true
	case strings.HasSuffix(host, ".googlesource.com"):
		return FetchFromGitiles, true
	case host == "crates.io" || host == "lib.rs":
		return FetchCrate, true
	case host == "pypi.org":
		return FetchPypi, true
	case host == "hex.pm":
		return FetchHex, true
	}
	return 0, false
}

func inferFromScheme(scheme string) (Kind, bool) {
	switch {
	case scheme == "git" || strings.HasPrefix(scheme, "git+"):
		return Fetchgit, true
	case strings.HasPrefix(scheme, "hg+"):
		return Fetchhg, true
	case scheme == "svn" || strings.HasPrefix(scheme, "svn+"):
		return Fetchsvn, true
	}
	return 0, false
}

// forHost validates u's host for a forge-specific variant.
func forHost(v *Variant, u URL) (Fetcher, error) {
	host := u.Hostname()
	if host == "" {
		return Fetcher{}, errors.New(errors.ErrCodeInvalidURL, "%s does not support URLs without a host", v.Name)
	}

	f := Fetcher{Variant: v}
	switch v.HostRule {
	case HostFixed:
		for _, h := range v.Hosts {
			if host == h {
				return f, nil
			}
		}
		return Fetcher{}, errors.New(errors.ErrCodeUnsupported, "%s does not support host %s", v.Name, u.Host)
	case HostForge:
		if v.HostKey != "" && (v.AlwaysHost || host != v.DefaultHost) {
			f.Host = u.Host
		}
	}
	return f, nil
}

// rawFetcher builds a fetcher that takes the URL itself, remembering how
// git and mercurial URLs were prefixed.
func rawFetcher(v *Variant, u URL) Fetcher {
	f := Fetcher{Variant: v}
	switch v.Kind {
	case Fetchgit, BuiltinsFetchGit:
		switch {
		case u.Scheme == "git":
			f.Git = GitNative
		case strings.HasPrefix(u.Scheme, "git+"):
			f.Git = GitPlus
		}
	case Fetchhg:
		f.HgPlus = strings.HasPrefix(u.Scheme, "hg+")
	}
	return f
}
