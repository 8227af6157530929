package nix

import "strings"

// FakeHash is the placeholder hash given to fixed-output derivations whose
// real hash is not known yet. It equals lib.fakeHash.
const FakeHash = "sha256-AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

// DefaultNixpkgs is the nixpkgs expression used when none is configured.
const DefaultNixpkgs = "<nixpkgs>"

// Binding is one attribute of a Nix attribute set.
type Binding struct {
	Name  string
	Value string
	// Expr marks Value as a Nix expression to emit verbatim; otherwise it
	// is emitted as a double-quoted string.
	Expr bool
}

// Literal renders the binding's value as Nix source.
func (b Binding) Literal() string {
	if b.Expr {
		return b.Value
	}
	return `"` + b.Value + `"`
}

// Call renders a compact call of a nixpkgs function with an attribute set:
//
//	(import <nixpkgs> {}).fetchFromGitHub{owner="o";repo="r";}
func Call(nixpkgs, fn string, bindings []Binding) string {
	if nixpkgs == "" {
		nixpkgs = DefaultNixpkgs
	}

	var b strings.Builder
	b.WriteString("(import ")
	b.WriteString(nixpkgs)
	b.WriteString(" {}).")
	b.WriteString(fn)
	b.WriteByte('{')
	for _, bind := range bindings {
		b.WriteString(bind.Name)
		b.WriteByte('=')
		b.WriteString(bind.Literal())
		b.WriteByte(';')
	}
	b.WriteByte('}')
	return b.String()
}

// OverrideHash wraps an arbitrary fixed-output derivation expression so that
// its output hash is replaced by [FakeHash].
func OverrideHash(expr string) string {
	return "(" + strings.TrimSpace(expr) + `).overrideAttrs (_: { outputHash = "` + FakeHash + `"; outputHashAlgo = null; })`
}
