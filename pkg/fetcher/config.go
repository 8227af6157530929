package fetcher

import (
	"strconv"

	"github.com/matzehuels/nurl/pkg/errors"
	"github.com/matzehuels/nurl/pkg/nix"
)

// Bindings is an ordered list of attributes where setting an existing name
// replaces its value in place.
type Bindings []nix.Binding

// Set adds or replaces the binding called name.
func (b *Bindings) Set(name, value string, expr bool) {
	for i := range *b {
		if (*b)[i].Name == name {
			(*b)[i].Value, (*b)[i].Expr = value, expr
			return
		}
	}
	*b = append(*b, nix.Binding{Name: name, Value: value, Expr: expr})
}

// Get returns the binding called name.
func (b Bindings) Get(name string) (nix.Binding, bool) {
	for _, bind := range b {
		if bind.Name == name {
			return bind, true
		}
	}
	return nix.Binding{}, false
}

// Config carries the user's adjustments to a fetcher call.
//
// Args and ArgsStr become part of the call and of the hashed derivation.
// Overwrites only change the rendered text and never influence the hash.
type Config struct {
	// Submodules overrides the fetcher's submodule default when non-nil.
	Submodules *bool
	Nixpkgs    string
	Indent     int

	Args    Bindings // expression arguments
	ArgsStr Bindings // string arguments

	Overwrites Bindings // expression or string replacements, by attribute
	// OverwriteRev replaces the revision under whatever attribute it is
	// rendered; Name is ignored.
	OverwriteRev *nix.Binding
}

// AddArg records an extra expression argument.
func (c *Config) AddArg(name, expr string) error {
	if err := errors.ValidateAttrName(name); err != nil {
		return err
	}
	c.Args.Set(name, expr, true)
	return nil
}

// AddArgStr records an extra string argument.
func (c *Config) AddArgStr(name, value string) error {
	if err := errors.ValidateAttrName(name); err != nil {
		return err
	}
	c.ArgsStr.Set(name, value, false)
	return nil
}

// Overwrite replaces the rendered value of attribute name. A later
// overwrite of the same name wins, whatever its kind.
func (c *Config) Overwrite(name, value string, expr bool) error {
	if err := errors.ValidateAttrName(name); err != nil {
		return err
	}
	c.Overwrites.Set(name, value, expr)
	return nil
}

// HasArgs reports whether any extra argument was given.
func (c *Config) HasArgs() bool {
	return len(c.Args) > 0 || len(c.ArgsStr) > 0
}

// SubmodulesFor returns the effective submodule setting for v.
func (c *Config) SubmodulesFor(v *Variant) bool {
	if c.Submodules != nil && v.SubmodulesKey != "" {
		return *c.Submodules
	}
	return v.SubmodulesDefault
}

// Call describes one fully resolved fetcher invocation.
type Call struct {
	Fetcher Fetcher
	Values  Values
	Rev     string // empty when absent
	Hash    string // empty when not computed
}

// fieldSet selects which groups of attributes are produced.
type fieldSet struct {
	hash       bool
	args       bool
	overwrites bool
}

var (
	renderFields = fieldSet{hash: true, args: true, overwrites: true}
	hashFields   = fieldSet{hash: true, args: true}
	parseFields  = fieldSet{}
)

// Fields returns the attributes of the rendered call, in output order:
// host, group, identifiers, revision, submodules, hash, expression
// arguments, string arguments, then any overwrites of attributes that
// do not exist otherwise.
func (c *Config) Fields(call Call) []nix.Binding {
	return c.fields(call, renderFields)
}

// HashFields returns the attributes of the call as it is built to obtain
// its hash: the placeholder hash, no overwrites.
func (c *Config) HashFields(call Call) []nix.Binding {
	call.Hash = nix.FakeHash
	return c.fields(call, hashFields)
}

// ParseFields returns only what was read from the URL and the revision.
func (c *Config) ParseFields(call Call) []nix.Binding {
	return c.fields(call, parseFields)
}

func (c *Config) fields(call Call, set fieldSet) []nix.Binding {
	f, vals := call.Fetcher, call.Values
	var out Bindings

	if f.Host != "" && f.HostKey != "" {
		out = append(out, nix.Binding{Name: f.HostKey, Value: f.Host})
	}
	if vals.Group != "" {
		out = append(out, nix.Binding{Name: "group", Value: vals.Group})
	}
	for i, key := range f.Keys {
		if i < len(vals.Keys) {
			out = append(out, nix.Binding{Name: key, Value: vals.Keys[i]})
		}
	}

	revKey := ""
	if call.Rev != "" && !f.Revless() {
		var value string
		revKey, value = f.RevisionEntry(call.Rev)
		out = append(out, nix.Binding{Name: revKey, Value: value})
	}

	if set.hash || set.args {
		if f.SubmodulesKey != "" && c.Submodules != nil && *c.Submodules != f.SubmodulesDefault {
			out = append(out, nix.Binding{Name: f.SubmodulesKey, Value: strconv.FormatBool(*c.Submodules), Expr: true})
		}
	}
	if set.hash && f.HashKey != "" && call.Hash != "" {
		out = append(out, nix.Binding{Name: f.HashKey, Value: call.Hash})
	}
	if set.args {
		for _, a := range append(append(Bindings{}, c.Args...), c.ArgsStr...) {
			out.Set(a.Name, a.Value, a.Expr)
		}
	}

	if !set.overwrites {
		return out
	}
	for _, o := range c.Overwrites {
		out.Set(o.Name, o.Value, o.Expr)
	}
	if c.OverwriteRev != nil && revKey != "" {
		out.Set(revKey, c.OverwriteRev.Value, c.OverwriteRev.Expr)
	}
	return out
}
