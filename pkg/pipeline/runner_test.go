package pipeline

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nurl/pkg/errors"
	"github.com/matzehuels/nurl/pkg/fetcher"
	"github.com/matzehuels/nurl/pkg/nix"
)

const testSHA = "0123456789abcdef0123456789abcdef01234567"

type fakePrefetcher struct {
	hash  string
	err   error
	calls []string
}

func (f *fakePrefetcher) record(call string) (string, error) {
	f.calls = append(f.calls, call)
	return f.hash, f.err
}

func (f *fakePrefetcher) Flake(_ context.Context, ref string) (string, error) {
	return f.record("flake " + ref)
}

func (f *fakePrefetcher) URL(_ context.Context, url string, _ bool) (string, error) {
	return f.record("url " + url)
}

func (f *fakePrefetcher) FOD(_ context.Context, expr string) (string, error) {
	return f.record("fod " + expr)
}

func (f *fakePrefetcher) Git(_ context.Context, url, rev string, _ nix.RefKind, _ bool) (string, error) {
	return f.record("git " + url + " " + rev)
}

type fakeRevisions struct {
	rev   string
	err   error
	calls int
}

func (f *fakeRevisions) LatestRevision(context.Context, fetcher.Call) (string, error) {
	f.calls++
	return f.rev, f.err
}

func newTestRunner() (*Runner, *fakePrefetcher, *fakeRevisions) {
	p := &fakePrefetcher{hash: "sha256-abc="}
	revs := &fakeRevisions{rev: testSHA}
	return NewRunner(p, revs, log.New(io.Discard)), p, revs
}

func kindPtr(k fetcher.Kind) *fetcher.Kind { return &k }

func execute(t *testing.T, r *Runner, req Request) (string, error) {
	t.Helper()
	if req.Fallback == 0 {
		req.Fallback = DefaultFallback
	}
	var buf bytes.Buffer
	err := r.Execute(context.Background(), req, fetcher.Output{W: &buf})
	return buf.String(), err
}

func TestExecuteNix(t *testing.T) {
	r, p, revs := newTestRunner()

	got, err := execute(t, r, Request{URL: "https://github.com/nix-community/nurl", Rev: "v0.3.13"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := `fetchFromGitHub {
  owner = "nix-community";
  repo = "nurl";
  tag = "v0.3.13";
  hash = "sha256-abc=";
}`
	if got != want {
		t.Errorf("Execute() =\n%s\nwant:\n%s", got, want)
	}
	if revs.calls != 0 {
		t.Error("a given revision must not be looked up")
	}
	if len(p.calls) != 1 || p.calls[0] != "flake github:nix-community/nurl/v0.3.13" {
		t.Errorf("prefetch calls = %q", p.calls)
	}
}

func TestExecuteLatestRevision(t *testing.T) {
	r, p, revs := newTestRunner()

	got, err := execute(t, r, Request{URL: "https://github.com/o/r"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if revs.calls != 1 {
		t.Errorf("revision lookups = %d, want 1", revs.calls)
	}
	if !strings.Contains(got, `rev = "`+testSHA+`";`) {
		t.Errorf("output does not use the latest revision:\n%s", got)
	}
	if p.calls[0] != "flake github:o/r/"+testSHA {
		t.Errorf("prefetch calls = %q", p.calls)
	}
}

func TestExecuteLatestRevisionError(t *testing.T) {
	r, p, revs := newTestRunner()
	revs.err = errors.New(errors.ErrCodeRateLimited, "slow down")

	_, err := execute(t, r, Request{URL: "https://github.com/o/r"})
	if !errors.Is(err, errors.ErrCodeRateLimited) {
		t.Errorf("Execute() error = %v, want %s", err, errors.ErrCodeRateLimited)
	}
	if len(p.calls) != 0 {
		t.Error("no hash should be computed after a failed lookup")
	}
}

func TestExecuteJSON(t *testing.T) {
	r, _, _ := newTestRunner()

	req := Request{
		URL:    "https://example.org/repo.git",
		Rev:    "v1",
		Mode:   ModeJSON,
		Config: fetcher.Config{Submodules: new(bool)},
	}
	if err := req.Config.Overwrite("url", "src.url", true); err != nil {
		t.Fatal(err)
	}

	got, err := execute(t, r, req)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	want := `{"args":{"fetchSubmodules":false,"hash":"sha256-abc=","tag":"v1",` +
		`"url":{"type":"nix","value":"src.url"}},"fetcher":"fetchgit"}`
	if got != want {
		t.Errorf("Execute() =\n%s\nwant:\n%s", got, want)
	}
}

func TestExecuteParse(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{
			name: "with revision",
			req:  Request{URL: "https://gitlab.com/a/o/r", Rev: "v1"},
			want: `{"args":{"group":"a","owner":"o","repo":"r","tag":"v1"},"fetcher":"fetchFromGitLab"}`,
		},
		{
			name: "without revision",
			req:  Request{URL: "https://github.com/o/r"},
			want: `{"args":{"owner":"o","repo":"r"},"fetcher":"fetchFromGitHub"}`,
		},
		{
			name: "custom host",
			req:  Request{URL: "https://gitea.local/o/r", Fetcher: kindPtr(fetcher.FetchFromGitea)},
			want: `{"args":{"domain":"gitea.local","owner":"o","repo":"r"},"fetcher":"fetchFromGitea"}`,
		},
		{
			name: "ignores args",
			req: Request{
				URL: "https://github.com/o/r",
				Config: fetcher.Config{
					Args:       fetcher.Bindings{{Name: "x", Value: "1", Expr: true}},
					Overwrites: fetcher.Bindings{{Name: "owner", Value: "me"}},
				},
			},
			want: `{"args":{"owner":"o","repo":"r"},"fetcher":"fetchFromGitHub"}`,
		},
		{
			name: "builtins.fetchGit",
			req:  Request{URL: "https://example.org/r.git", Rev: "main", Fetcher: kindPtr(fetcher.BuiltinsFetchGit)},
			want: `{"args":{"ref":"main","url":"https://example.org/r.git"},"fetcher":"builtins.fetchGit"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, p, revs := newTestRunner()
			tt.req.Mode = ModeParse

			got, err := execute(t, r, tt.req)
			if err != nil {
				t.Fatalf("Execute() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Execute() =\n%s\nwant:\n%s", got, tt.want)
			}
			if len(p.calls) != 0 || revs.calls != 0 {
				t.Error("parse mode must not hash or look up revisions")
			}
		})
	}
}

func TestExecuteParseBuiltinsWithoutRevision(t *testing.T) {
	r, _, revs := newTestRunner()

	_, err := execute(t, r, Request{
		URL:     "https://example.org/r.git",
		Fetcher: kindPtr(fetcher.BuiltinsFetchGit),
		Mode:    ModeParse,
	})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Fatalf("Execute() error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
	if !strings.Contains(err.Error(), "builtins.fetchGit does not support fetching the latest revision") {
		t.Errorf("Execute() error = %v", err)
	}
	if revs.calls != 0 {
		t.Error("parse mode must not look up revisions")
	}
}

func TestExecuteHash(t *testing.T) {
	r, p, _ := newTestRunner()

	got, err := execute(t, r, Request{URL: "https://crates.io/crates/serde", Rev: "1.0.0", Mode: ModeHash})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got != "sha256-abc=" {
		t.Errorf("Execute() = %q", got)
	}
	if p.calls[0] != "url https://crates.io/api/v1/crates/serde/1.0.0/download" {
		t.Errorf("prefetch calls = %q", p.calls)
	}
}

func TestExecuteNoHashFetcher(t *testing.T) {
	r, p, _ := newTestRunner()
	req := Request{URL: "https://example.org/r.git", Rev: "main", Fetcher: kindPtr(fetcher.BuiltinsFetchGit)}

	got, err := execute(t, r, req)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	want := `builtins.fetchGit {
  url = "https://example.org/r.git";
  ref = "main";
}`
	if got != want {
		t.Errorf("Execute() =\n%s\nwant:\n%s", got, want)
	}
	if len(p.calls) != 0 {
		t.Errorf("prefetch calls = %q, want none", p.calls)
	}

	req.Mode = ModeHash
	if _, err := execute(t, r, req); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("hash mode error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestExecuteRevless(t *testing.T) {
	r, p, revs := newTestRunner()

	got, err := execute(t, r, Request{URL: "https://example.org/src.tar.gz"})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	want := `fetchzip {
  url = "https://example.org/src.tar.gz";
  hash = "sha256-abc=";
}`
	if got != want {
		t.Errorf("Execute() =\n%s\nwant:\n%s", got, want)
	}
	if revs.calls != 0 {
		t.Error("revless fetchers have no latest revision")
	}
	if p.calls[0] != "flake tarball+https://example.org/src.tar.gz" {
		t.Errorf("prefetch calls = %q", p.calls)
	}

	_, err = execute(t, r, Request{URL: "https://example.org/src.tar.gz", Rev: "v1"})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("revision for revless fetcher error = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		code errors.Code
	}{
		{"missing URL", Request{}, errors.ErrCodeInvalidInput},
		{"relative URL", Request{URL: "github.com/o/r"}, errors.ErrCodeInvalidURL},
		{"too few segments", Request{URL: "https://github.com/o"}, errors.ErrCodeInvalidURL},
		{"wrong host", Request{URL: "https://github.com/o/r", Fetcher: kindPtr(fetcher.FetchHex)}, errors.ErrCodeUnsupported},
		{"no host", Request{URL: "file:///srv/r", Fetcher: kindPtr(fetcher.FetchFromSourcehut)}, errors.ErrCodeInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRunner()
			if _, err := execute(t, r, tt.req); !errors.Is(err, tt.code) {
				t.Errorf("Execute() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExecuteExpr(t *testing.T) {
	r, p, _ := newTestRunner()

	var buf bytes.Buffer
	req := Request{Expr: "pkgs.hello.src", Mode: ModeNix}
	if err := r.Execute(context.Background(), req, fetcher.Output{W: &buf, Newline: true}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if buf.String() != "sha256-abc=\n" {
		t.Errorf("Execute() = %q", buf.String())
	}
	if want := "fod " + nix.OverrideHash("pkgs.hello.src"); p.calls[0] != want {
		t.Errorf("prefetch call = %q, want %q", p.calls[0], want)
	}
}

func TestExecuteHashFailure(t *testing.T) {
	r, p, _ := newTestRunner()
	p.err = errors.New(errors.ErrCodeExternalTool, "nix exited with status 1")

	got, err := execute(t, r, Request{URL: "https://github.com/o/r", Rev: "v1"})
	if !errors.Is(err, errors.ErrCodeExternalTool) {
		t.Errorf("Execute() error = %v, want %s", err, errors.ErrCodeExternalTool)
	}
	if got != "" {
		t.Errorf("nothing may be written on failure, got %q", got)
	}
}

func TestModeString(t *testing.T) {
	for m, want := range map[Mode]string{ModeNix: "nix", ModeJSON: "json", ModeParse: "parse", ModeHash: "hash"} {
		if m.String() != want {
			t.Errorf("Mode(%d).String() = %q, want %q", m, m.String(), want)
		}
	}
}
