package fetcher

import (
	"fmt"
	"strings"

	"github.com/matzehuels/nurl/pkg/errors"
)

// Kind identifies one of the supported fetcher functions.
type Kind int

// Kinds are declared in the order their names sort, which is the order
// they are listed in.
const (
	BuiltinsFetchGit Kind = iota
	FetchCrate
	FetchFromBitbucket
	FetchFromGitHub
	FetchFromGitLab
	FetchFromGitea
	FetchFromGitiles
	FetchFromRepoOrCz
	FetchFromSourcehut
	FetchHex
	FetchPypi
	Fetchgit
	Fetchhg
	Fetchpatch
	Fetchpatch2
	Fetchsvn
	Fetchurl
	Fetchzip
	numKinds
)

// RevPolicy decides the attribute a revision is rendered under.
type RevPolicy int

const (
	// RevNone marks a revless fetcher; the URL fully identifies the content.
	RevNone RevPolicy = iota
	// RevConst always uses Variant.RevKey.
	RevConst
	// RevOrTag uses "rev" for full commit digests, "ref" for names under
	// refs/ (with the prefix removed) and "tag" otherwise.
	RevOrTag
	// RevOrRef uses "rev" for full commit digests and "ref" otherwise.
	RevOrRef
)

// HostRule decides which hosts a fetcher accepts.
type HostRule int

const (
	// HostAny accepts any URL, with or without a host.
	HostAny HostRule = iota
	// HostForge accepts any host; hosts other than DefaultHost are recorded.
	HostForge
	// HostFixed accepts only the hosts in Variant.Hosts.
	HostFixed
)

// Strategy is the preferred way of computing a fetcher's hash when no
// extra arguments force a fixed-output build.
type Strategy int

const (
	StrategyNone  Strategy = iota // no hash attribute at all
	StrategyFlake                 // nix flake prefetch on a forge flake reference
	StrategyGit                   // nix flake prefetch on a git+ reference
	StrategyURL                   // nix-prefetch-url
	StrategyFOD                   // fixed-output derivation build
)

// LatestSource is where the newest revision is looked up when none is given.
type LatestSource int

const (
	LatestNone LatestSource = iota
	LatestGitHub
	LatestGitLab
	LatestGitea
	LatestGit
	LatestCrates
	LatestPyPI
	LatestHex
)

// Variant is the static policy data of one fetcher function.
type Variant struct {
	Kind Kind
	Name string
	Keys []string // identifying attributes, in output order

	Rev    RevPolicy
	RevKey string // attribute for RevConst

	HostRule    HostRule
	HostKey     string   // attribute recording a custom host
	DefaultHost string   // host that is not recorded
	AlwaysHost  bool     // record the host even when it is DefaultHost
	Hosts       []string // accepted hosts for HostFixed

	HashKey           string // empty when the fetcher takes no hash
	SubmodulesKey     string
	SubmodulesDefault bool

	Strategy Strategy
	Unpack   bool // URL strategy hashes the unpacked archive
	Latest   LatestSource

	// Inferable is false for fetchers that are only chosen on request.
	Inferable bool
}

var variants = [numKinds]Variant{
	BuiltinsFetchGit: {
		Name:          "builtins.fetchGit",
		Keys:          []string{"url"},
		Rev:           RevOrRef,
		SubmodulesKey: "submodules",
	},
	FetchCrate: {
		Name:      "fetchCrate",
		Keys:      []string{"pname"},
		Rev:       RevConst,
		RevKey:    "version",
		HostRule:  HostFixed,
		Hosts:     []string{"crates.io", "lib.rs"},
		HashKey:   "hash",
		Strategy:  StrategyURL,
		Unpack:    true,
		Latest:    LatestCrates,
		Inferable: true,
	},
	FetchFromBitbucket: {
		Name:      "fetchFromBitbucket",
		Keys:      []string{"owner", "repo"},
		Rev:       RevConst,
		RevKey:    "rev",
		HostRule:  HostFixed,
		Hosts:     []string{"bitbucket.org"},
		HashKey:   "hash",
		Strategy:  StrategyURL,
		Unpack:    true,
		Inferable: true,
	},
	FetchFromGitHub: {
		Name:          "fetchFromGitHub",
		Keys:          []string{"owner", "repo"},
		Rev:           RevOrTag,
		HostRule:      HostForge,
		HostKey:       "githubBase",
		DefaultHost:   "github.com",
		HashKey:       "hash",
		SubmodulesKey: "fetchSubmodules",
		Strategy:      StrategyFlake,
		Latest:        LatestGitHub,
		Inferable:     true,
	},
	FetchFromGitLab: {
		Name:          "fetchFromGitLab",
		Keys:          []string{"owner", "repo"},
		Rev:           RevOrTag,
		HostRule:      HostForge,
		HostKey:       "domain",
		DefaultHost:   "gitlab.com",
		HashKey:       "hash",
		SubmodulesKey: "fetchSubmodules",
		Strategy:      StrategyFlake,
		Latest:        LatestGitLab,
		Inferable:     true,
	},
	FetchFromGitea: {
		Name:          "fetchFromGitea",
		Keys:          []string{"owner", "repo"},
		Rev:           RevConst,
		RevKey:        "rev",
		HostRule:      HostForge,
		HostKey:       "domain",
		DefaultHost:   "codeberg.org",
		AlwaysHost:    true,
		HashKey:       "hash",
		SubmodulesKey: "fetchSubmodules",
		Strategy:      StrategyURL,
		Unpack:        true,
		Latest:        LatestGitea,
		Inferable:     true,
	},
	FetchFromGitiles: {
		Name:      "fetchFromGitiles",
		Keys:      []string{"url"},
		Rev:       RevConst,
		RevKey:    "rev",
		HostRule:  HostForge,
		HashKey:   "hash",
		Strategy:  StrategyURL,
		Unpack:    true,
		Inferable: true,
	},
	FetchFromRepoOrCz: {
		Name:      "fetchFromRepoOrCz",
		Keys:      []string{"repo"},
		Rev:       RevConst,
		RevKey:    "rev",
		HostRule:  HostFixed,
		Hosts:     []string{"repo.or.cz"},
		HashKey:   "hash",
		Strategy:  StrategyURL,
		Unpack:    true,
		Inferable: true,
	},
	FetchFromSourcehut: {
		Name:          "fetchFromSourcehut",
		Keys:          []string{"owner", "repo"},
		Rev:           RevConst,
		RevKey:        "rev",
		HostRule:      HostForge,
		HostKey:       "domain",
		DefaultHost:   "git.sr.ht",
		HashKey:       "hash",
		SubmodulesKey: "fetchSubmodules",
		Strategy:      StrategyFlake,
		Inferable:     true,
	},
	FetchHex: {
		Name:      "fetchHex",
		Keys:      []string{"pkg"},
		Rev:       RevConst,
		RevKey:    "version",
		HostRule:  HostFixed,
		Hosts:     []string{"hex.pm"},
		HashKey:   "sha256",
		Strategy:  StrategyURL,
		Latest:    LatestHex,
		Inferable: true,
	},
	FetchPypi: {
		Name:      "fetchPypi",
		Keys:      []string{"pname"},
		Rev:       RevConst,
		RevKey:    "version",
		HostRule:  HostFixed,
		Hosts:     []string{"pypi.org"},
		HashKey:   "hash",
		Strategy:  StrategyURL,
		Latest:    LatestPyPI,
		Inferable: true,
	},
	Fetchgit: {
		Name:              "fetchgit",
		Keys:              []string{"url"},
		Rev:               RevOrTag,
		HashKey:           "hash",
		SubmodulesKey:     "fetchSubmodules",
		SubmodulesDefault: true,
		Strategy:          StrategyGit,
		Latest:            LatestGit,
		Inferable:         true,
	},
	Fetchhg: {
		Name:          "fetchhg",
		Keys:          []string{"url"},
		Rev:           RevConst,
		RevKey:        "rev",
		HashKey:       "hash",
		SubmodulesKey: "fetchSubrepos",
		Strategy:      StrategyFlake,
		Inferable:     true,
	},
	Fetchpatch: {
		Name:      "fetchpatch",
		Keys:      []string{"url"},
		HashKey:   "hash",
		Strategy:  StrategyFOD,
		Inferable: true,
	},
	Fetchpatch2: {
		Name:     "fetchpatch2",
		Keys:     []string{"url"},
		HashKey:  "hash",
		Strategy: StrategyFOD,
	},
	Fetchsvn: {
		Name:      "fetchsvn",
		Keys:      []string{"url"},
		Rev:       RevConst,
		RevKey:    "rev",
		HashKey:   "hash",
		Strategy:  StrategyFOD,
		Inferable: true,
	},
	Fetchurl: {
		Name:     "fetchurl",
		Keys:     []string{"url"},
		HashKey:  "hash",
		Strategy: StrategyURL,
	},
	Fetchzip: {
		Name:      "fetchzip",
		Keys:      []string{"url"},
		HashKey:   "hash",
		Strategy:  StrategyFlake,
		Inferable: true,
	},
}

func init() {
	for k := range variants {
		variants[k].Kind = Kind(k)
	}
}

// Variant returns the policy data for k.
func (k Kind) Variant() *Variant {
	if k < 0 || k >= numKinds {
		panic(fmt.Sprintf("fetcher: invalid kind %d", int(k)))
	}
	return &variants[k]
}

// String returns the Nix name of the fetcher.
func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return variants[k].Name
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so kinds can be read
// from the config file by name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind looks a fetcher up by its Nix name.
func ParseKind(name string) (Kind, error) {
	for k := range variants {
		if variants[k].Name == name {
			return Kind(k), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown fetcher %q", name)
}

// Names returns the names of all fetchers. When inferableOnly is set, only
// fetchers that some URL selects without an explicit choice are included.
func Names(inferableOnly bool) []string {
	names := make([]string, 0, len(variants))
	for _, v := range variants {
		if inferableOnly && !v.Inferable {
			continue
		}
		names = append(names, v.Name)
	}
	return names
}

// Revless reports whether the fetcher has no notion of a revision.
func (v *Variant) Revless() bool { return v.Rev == RevNone }

// ForgeSpecific reports whether the fetcher only makes sense for URLs with a host.
func (v *Variant) ForgeSpecific() bool { return v.HostRule != HostAny }

// RevisionEntry returns the attribute name and value under which rev is
// rendered.
func (v *Variant) RevisionEntry(rev string) (key, value string) {
	switch v.Rev {
	case RevOrTag:
		switch {
		case len(rev) == 40:
			return "rev", rev
		case strings.HasPrefix(rev, "refs/"):
			return "ref", strings.TrimPrefix(rev, "refs/")
		default:
			return "tag", rev
		}
	case RevOrRef:
		if len(rev) == 40 {
			return "rev", rev
		}
		return "ref", rev
	default:
		return v.RevKey, rev
	}
}
