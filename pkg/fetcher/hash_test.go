package fetcher

import (
	"context"
	"testing"

	"github.com/matzehuels/nurl/pkg/errors"
	"github.com/matzehuels/nurl/pkg/nix"
)

// prefetchCall records one call made to fakePrefetcher.
type prefetchCall struct {
	Method     string
	Arg        string
	Rev        string
	Unpack     bool
	Kind       nix.RefKind
	Submodules bool
}

type fakePrefetcher struct {
	calls []prefetchCall
}

func (f *fakePrefetcher) Flake(_ context.Context, ref string) (string, error) {
	f.calls = append(f.calls, prefetchCall{Method: "flake", Arg: ref})
	return "sha256-flake", nil
}

func (f *fakePrefetcher) URL(_ context.Context, url string, unpack bool) (string, error) {
	f.calls = append(f.calls, prefetchCall{Method: "url", Arg: url, Unpack: unpack})
	return "sha256-url", nil
}

func (f *fakePrefetcher) FOD(_ context.Context, expr string) (string, error) {
	f.calls = append(f.calls, prefetchCall{Method: "fod", Arg: expr})
	return "sha256-fod", nil
}

func (f *fakePrefetcher) Git(_ context.Context, url, rev string, kind nix.RefKind, submodules bool) (string, error) {
	f.calls = append(f.calls, prefetchCall{Method: "git", Arg: url, Rev: rev, Kind: kind, Submodules: submodules})
	return "sha256-git", nil
}

func TestHashStrategies(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		explicit *Kind
		rev      string
		cfg      Config
		want     prefetchCall
	}{
		{
			name: "github tag",
			url:  "https://github.com/o/r", rev: "v1.0",
			want: prefetchCall{Method: "flake", Arg: "github:o/r/v1.0"},
		},
		{
			name: "github enterprise",
			url:  "https://ghe.example.com/o/r", explicit: kindPtr(FetchFromGitHub), rev: testSHA,
			want: prefetchCall{Method: "flake", Arg: "github:o/r/" + testSHA + "?host=ghe.example.com"},
		},
		{
			name: "github submodules",
			url:  "https://github.com/o/r", rev: "v1.0", cfg: Config{Submodules: boolPtr(true)},
			want: prefetchCall{Method: "git", Arg: "git+https://github.com/o/r", Rev: "v1.0", Kind: nix.RefTag, Submodules: true},
		},
		{
			name: "gitlab subgroup",
			url:  "https://gitlab.com/a/b/c", rev: "v1",
			want: prefetchCall{Method: "flake", Arg: "gitlab:a%2Fb/c/v1"},
		},
		{
			name: "gitlab self-hosted",
			url:  "https://gitlab.gnome.org/World/foo", rev: "v1",
			want: prefetchCall{Method: "flake", Arg: "gitlab:World/foo/v1?host=gitlab.gnome.org"},
		},
		{
			name: "gitlab submodules",
			url:  "https://gitlab.com/g/o/r", rev: testSHA, cfg: Config{Submodules: boolPtr(true)},
			want: prefetchCall{Method: "git", Arg: "git+https://gitlab.com/g/o/r", Rev: testSHA, Kind: nix.RefCommit, Submodules: true},
		},
		{
			name: "sourcehut",
			url:  "https://git.sr.ht/~o/r", rev: "v1",
			want: prefetchCall{Method: "flake", Arg: "sourcehut:~o/r/v1"},
		},
		{
			name: "gitea archive",
			url:  "https://codeberg.org/o/r", rev: "v1",
			want: prefetchCall{Method: "url", Arg: "https://codeberg.org/o/r/archive/v1.tar.gz", Unpack: true},
		},
		{
			name: "bitbucket",
			url:  "https://bitbucket.org/o/r", rev: "v1",
			want: prefetchCall{Method: "url", Arg: "https://bitbucket.org/o/r/get/v1.tar.gz", Unpack: true},
		},
		{
			name: "gitiles",
			url:  "https://chromium.googlesource.com/chromium/src", rev: testSHA,
			want: prefetchCall{Method: "url", Arg: "https://chromium.googlesource.com/chromium/src/+archive/" + testSHA + ".tar.gz", Unpack: true},
		},
		{
			name: "repo.or.cz",
			url:  "https://repo.or.cz/git.git", rev: "v1",
			want: prefetchCall{Method: "url", Arg: "https://repo.or.cz/git.git/snapshot/v1.tar.gz", Unpack: true},
		},
		{
			name: "crate",
			url:  "https://crates.io/crates/serde", rev: "1.0.0",
			want: prefetchCall{Method: "url", Arg: "https://crates.io/api/v1/crates/serde/1.0.0/download", Unpack: true},
		},
		{
			name: "pypi",
			url:  "https://pypi.org/project/requests", rev: "2.32.5",
			want: prefetchCall{Method: "url", Arg: "https://pypi.org/packages/source/r/requests/requests-2.32.5.tar.gz"},
		},
		{
			name: "pypi extension",
			url:  "https://pypi.org/project/requests", rev: "2.31.0",
			cfg:  Config{ArgsStr: Bindings{{Name: "extension", Value: "zip"}}},
			want: prefetchCall{Method: "url", Arg: "https://pypi.org/packages/source/r/requests/requests-2.31.0.zip"},
		},
		{
			name: "pypi extension with other arguments",
			url:  "https://pypi.org/project/requests", rev: "2.31.0",
			cfg: Config{ArgsStr: Bindings{
				{Name: "extension", Value: "zip"},
				{Name: "format", Value: "wheel"},
			}},
			want: prefetchCall{Method: "fod", Arg: `(import <nixpkgs> {}).fetchPypi{pname="requests";version="2.31.0";hash="` + nix.FakeHash + `";extension="zip";format="wheel";}`},
		},
		{
			name: "pypi other argument",
			url:  "https://pypi.org/project/requests", rev: "2.31.0",
			cfg:  Config{Args: Bindings{{Name: "extension", Value: "ext", Expr: true}}},
			want: prefetchCall{Method: "fod", Arg: `(import <nixpkgs> {}).fetchPypi{pname="requests";version="2.31.0";hash="` + nix.FakeHash + `";extension=ext;}`},
		},
		{
			name: "hex",
			url:  "https://hex.pm/packages/phoenix", rev: "1.7.21",
			want: prefetchCall{Method: "url", Arg: "https://repo.hex.pm/tarballs/phoenix-1.7.21.tar"},
		},
		{
			name: "fetchgit commit",
			url:  "https://example.org/r.git", rev: testSHA,
			want: prefetchCall{Method: "git", Arg: "git+https://example.org/r.git", Rev: testSHA, Kind: nix.RefCommit, Submodules: true},
		},
		{
			name: "fetchgit native scheme",
			url:  "git://example.org/r.git", rev: "v1", cfg: Config{Submodules: boolPtr(false)},
			want: prefetchCall{Method: "git", Arg: "git://example.org/r.git", Rev: "v1", Kind: nix.RefTag},
		},
		{
			name: "fetchgit git+ branch",
			url:  "git+https://example.org/r.git", rev: "refs/heads/main",
			want: prefetchCall{Method: "git", Arg: "git+https://example.org/r.git", Rev: "heads/main", Kind: nix.RefName, Submodules: true},
		},
		{
			name: "fetchhg ref",
			url:  "hg+https://hg.example.org/r", rev: "default",
			want: prefetchCall{Method: "flake", Arg: "hg+https://hg.example.org/r?ref=default"},
		},
		{
			name: "fetchhg rev",
			url:  "hg+https://hg.example.org/r", rev: testSHA,
			want: prefetchCall{Method: "flake", Arg: "hg+https://hg.example.org/r?rev=" + testSHA},
		},
		{
			name: "fetchhg subrepos",
			url:  "hg+https://hg.example.org/r", rev: "default", cfg: Config{Submodules: boolPtr(true)},
			want: prefetchCall{Method: "fod", Arg: `(import <nixpkgs> {}).fetchhg{url="https://hg.example.org/r";rev="default";fetchSubrepos=true;hash="` + nix.FakeHash + `";}`},
		},
		{
			name: "fetchzip",
			url:  "https://example.org/src.tar.gz",
			want: prefetchCall{Method: "flake", Arg: "tarball+https://example.org/src.tar.gz"},
		},
		{
			name: "fetchurl",
			url:  "https://example.org/file.bin", explicit: kindPtr(Fetchurl),
			want: prefetchCall{Method: "url", Arg: "https://example.org/file.bin"},
		},
		{
			name: "fetchsvn",
			url:  "svn://svn.example.org/trunk", rev: "42", cfg: Config{Nixpkgs: "<pkgs>"},
			want: prefetchCall{Method: "fod", Arg: `(import <pkgs> {}).fetchsvn{url="svn://svn.example.org/trunk";rev="42";hash="` + nix.FakeHash + `";}`},
		},
		{
			name: "fetchpatch",
			url:  "https://example.org/fix.patch",
			want: prefetchCall{Method: "fod", Arg: `(import <nixpkgs> {}).fetchpatch{url="https://example.org/fix.patch";hash="` + nix.FakeHash + `";}`},
		},
		{
			name: "extra arguments force a build",
			url:  "https://github.com/o/r", rev: "v1.0",
			cfg: Config{
				Args:       Bindings{{Name: "leaveDotGit", Value: "true", Expr: true}},
				Overwrites: Bindings{{Name: "repo", Value: "pname", Expr: true}},
			},
			want: prefetchCall{Method: "fod", Arg: `(import <nixpkgs> {}).fetchFromGitHub{owner="o";repo="r";tag="v1.0";hash="` + nix.FakeHash + `";leaveDotGit=true;}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := resolveCall(t, tt.url, tt.explicit, tt.rev)
			p := &fakePrefetcher{}

			hash, err := Hash(context.Background(), p, call, &tt.cfg)
			if err != nil {
				t.Fatalf("Hash() error: %v", err)
			}
			if len(p.calls) != 1 {
				t.Fatalf("Hash() made %d prefetch calls, want 1", len(p.calls))
			}
			if got := p.calls[0]; got != tt.want {
				t.Errorf("Hash() call\n got: %+v\nwant: %+v", got, tt.want)
			}
			if hash != "sha256-"+tt.want.Method {
				t.Errorf("Hash() = %q", hash)
			}
		})
	}
}

func TestHashErrors(t *testing.T) {
	p := &fakePrefetcher{}

	call := resolveCall(t, "https://example.org/r.git", kindPtr(BuiltinsFetchGit), "main")
	if _, err := Hash(context.Background(), p, call, &Config{}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Hash(builtins.fetchGit) error = %v, want %s", err, errors.ErrCodeUnsupported)
	}

	call = resolveCall(t, "https://github.com/o/r", nil, "")
	if _, err := Hash(context.Background(), p, call, &Config{}); !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("Hash(no revision) error = %v, want %s", err, errors.ErrCodeInternal)
	}

	if len(p.calls) != 0 {
		t.Errorf("no prefetch expected, got %+v", p.calls)
	}
}
