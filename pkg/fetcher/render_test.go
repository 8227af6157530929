package fetcher

import (
	"bytes"
	"testing"

	"github.com/matzehuels/nurl/pkg/nix"
)

var renderBindings = []nix.Binding{
	{Name: "owner", Value: "nix-community"},
	{Name: "repo", Value: "nurl"},
	{Name: "tag", Value: "v0.3.13"},
	{Name: "fetchSubmodules", Value: "true", Expr: true},
	{Name: "hash", Value: "sha256-abc="},
	{Name: "postFetch", Value: `"rm $out/a && touch ${placeholder "out"}"`, Expr: true},
}

func TestOutputNix(t *testing.T) {
	tests := []struct {
		name   string
		indent int
		nl     bool
		want   string
	}{
		{
			name: "plain",
			want: `fetchFromGitHub {
  owner = "nix-community";
  repo = "nurl";
  tag = "v0.3.13";
  fetchSubmodules = true;
  hash = "sha256-abc=";
  postFetch = "rm $out/a && touch ${placeholder "out"}";
}`,
		},
		{
			name:   "indented with newline",
			indent: 4,
			nl:     true,
			want: `fetchFromGitHub {
      owner = "nix-community";
      repo = "nurl";
      tag = "v0.3.13";
      fetchSubmodules = true;
      hash = "sha256-abc=";
      postFetch = "rm $out/a && touch ${placeholder "out"}";
    }
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			out := Output{W: &buf, Indent: tt.indent, Newline: tt.nl}
			if err := out.Nix("fetchFromGitHub", renderBindings); err != nil {
				t.Fatalf("Nix() error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Nix() =\n%s\nwant:\n%s", buf.String(), tt.want)
			}
		})
	}
}

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	out := Output{W: &buf}
	if err := out.JSON("fetchFromGitHub", renderBindings, "fetchSubmodules"); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	want := `{"args":{"fetchSubmodules":true,"hash":"sha256-abc=","owner":"nix-community",` +
		`"postFetch":{"type":"nix","value":"\"rm $out/a && touch ${placeholder \"out\"}\""},` +
		`"repo":"nurl","tag":"v0.3.13"},"fetcher":"fetchFromGitHub"}`
	if buf.String() != want {
		t.Errorf("JSON() =\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestOutputJSONBoolKey(t *testing.T) {
	fields := []nix.Binding{
		{Name: "fetchSubmodules", Value: "lib.versionAtLeast x y", Expr: true},
		{Name: "leaveDotGit", Value: "true", Expr: true},
	}

	var buf bytes.Buffer
	if err := (Output{W: &buf, Newline: true}).JSON("fetchgit", fields, "fetchSubmodules"); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	want := `{"args":{"fetchSubmodules":{"type":"nix","value":"lib.versionAtLeast x y"},` +
		`"leaveDotGit":{"type":"nix","value":"true"}},"fetcher":"fetchgit"}` + "\n"
	if buf.String() != want {
		t.Errorf("JSON() =\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestOutputHash(t *testing.T) {
	var buf bytes.Buffer
	if err := (Output{W: &buf}).Hash("sha256-abc="); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "sha256-abc=" {
		t.Errorf("Hash() = %q", buf.String())
	}

	buf.Reset()
	_ = (Output{W: &buf, Newline: true}).Hash("sha256-abc=")
	if buf.String() != "sha256-abc=\n" {
		t.Errorf("Hash() with newline = %q", buf.String())
	}
}
