package fetcher

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/matzehuels/nurl/pkg/nix"
)

// Output writes results in one of nurl's output formats.
type Output struct {
	W io.Writer
	// Indent is the number of spaces the rendered Nix block is shifted by,
	// for pasting into nested code. The first line is never indented.
	Indent int
	// Newline appends a final newline; set when writing to a terminal.
	Newline bool
}

// Hash writes just the hash.
func (o Output) Hash(hash string) error {
	return o.write(hash)
}

// Nix writes the call as a Nix function application:
//
//	fetchFromGitHub {
//	  owner = "nix-community";
//	  repo = "nurl";
//	  rev = "...";
//	  hash = "sha256-...";
//	}
func (o Output) Nix(name string, fields []nix.Binding) error {
	indent := strings.Repeat(" ", max(o.Indent, 0))

	var b strings.Builder
	b.WriteString(name)
	b.WriteString(" {\n")
	for _, f := range fields {
		b.WriteString(indent)
		b.WriteString("  ")
		b.WriteString(f.Name)
		b.WriteString(" = ")
		b.WriteString(f.Literal())
		b.WriteString(";\n")
	}
	b.WriteString(indent)
	b.WriteString("}")
	return o.write(b.String())
}

// JSON writes {"args": {...}, "fetcher": name}. Expression values are
// written as {"type": "nix", "value": ...}; the attribute named boolKey, if
// it holds a Nix boolean, becomes a JSON boolean.
func (o Output) JSON(name string, fields []nix.Binding, boolKey string) error {
	args := make(map[string]any, len(fields))
	for _, f := range fields {
		switch {
		case !f.Expr:
			args[f.Name] = f.Value
		case f.Name == boolKey && (f.Value == "true" || f.Value == "false"):
			args[f.Name] = f.Value == "true"
		default:
			args[f.Name] = nixValue{Type: "nix", Value: f.Value}
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any{"fetcher": name, "args": args}); err != nil {
		return err
	}
	return o.write(strings.TrimSuffix(buf.String(), "\n"))
}

type nixValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (o Output) write(s string) error {
	if o.Newline {
		s += "\n"
	}
	_, err := io.WriteString(o.W, s)
	return err
}
