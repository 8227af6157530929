package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/nurl/pkg/buildinfo"
	"github.com/matzehuels/nurl/pkg/errors"
	"github.com/matzehuels/nurl/pkg/fetcher"
	"github.com/matzehuels/nurl/pkg/nix"
	"github.com/matzehuels/nurl/pkg/pipeline"
)

// options holds the root command's flag values.
type options struct {
	submodules bool
	fetcher    string
	fallback   string
	nixpkgs    string
	indent     int

	hash  bool
	json  bool
	parse bool
	expr  string

	args       []pair
	argsStr    []pair
	overwrites []pair // expression and string overwrites, in command-line order

	overwriteRev    string
	overwriteRevStr string

	listFetchers bool
	listPossible bool
	listSep      string

	configPath string
}

// pair is one NAME=VALUE flag argument.
type pair struct {
	name  string
	value string
	expr  bool
}

// pairFlag collects repeated NAME=VALUE flags into a shared slice, so that
// flags feeding the same slice keep their relative order.
type pairFlag struct {
	dst  *[]pair
	expr bool
	typ  string
}

func (p *pairFlag) String() string { return "" }
func (p *pairFlag) Type() string   { return p.typ }

func (p *pairFlag) Set(s string) error {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("expected %s, got %q", p.typ, s)
	}
	*p.dst = append(*p.dst, pair{name: name, value: value, expr: p.expr})
	return nil
}

// RootCommand creates the nurl command with all flags and subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   appName + " [URL] [REV]",
		Short: "Generate Nix fetcher calls from repository URLs",
		Long: `nurl picks the Nix fetcher for a repository URL, prefetches the source and
prints the fetcher call with its hash.

When REV is omitted, the latest revision is looked up where the fetcher
supports it.`,
		Example: `  nurl https://github.com/nix-community/patsh v0.2.0
  nurl https://gitlab.com/gitlab-org/gitlab-shell --json
  nurl https://crates.io/crates/serde --hash
  nurl -e '(import <nixpkgs> {}).hello.src'`,
		Version:      buildinfo.Version,
		Args:         cobra.MaximumNArgs(2),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd, opts, args)
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	c.registerFlags(root, opts)
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) registerFlags(root *cobra.Command, opts *options) {
	flags := root.Flags()
	flags.SortFlags = false

	flags.BoolVarP(&opts.submodules, "submodules", "S", false, "fetch submodules (or subrepos); an explicit false disables a fetcher's default")
	flags.StringVarP(&opts.fetcher, "fetcher", "f", "", "use this fetcher instead of inferring one")
	flags.StringVarP(&opts.fallback, "fallback", "F", pipeline.DefaultFallback.String(), "fetcher to use when none can be inferred")
	flags.StringVarP(&opts.nixpkgs, "nixpkgs", "n", nix.DefaultNixpkgs, "nixpkgs expression used for fixed-output builds")
	flags.IntVarP(&opts.indent, "indent", "i", 0, "extra indentation of the output, in spaces")

	flags.BoolVarP(&opts.hash, "hash", "H", false, "only print the hash")
	flags.BoolVarP(&opts.json, "json", "j", false, "print the fetcher call as JSON")
	flags.BoolVarP(&opts.parse, "parse", "p", false, "print what the URL says as JSON, without prefetching")
	flags.StringVarP(&opts.expr, "expr", "e", "", "hash a fixed-output derivation expression instead of a URL")

	flags.VarP(&pairFlag{dst: &opts.args, expr: true, typ: "NAME=EXPR"}, "arg", "a", "extra argument for the fetcher (Nix expression)")
	flags.VarP(&pairFlag{dst: &opts.argsStr, typ: "NAME=STRING"}, "arg-str", "A", "extra argument for the fetcher (string)")
	flags.VarP(&pairFlag{dst: &opts.overwrites, expr: true, typ: "NAME=EXPR"}, "overwrite", "o", "replace an attribute in the output, without affecting the hash (Nix expression)")
	flags.VarP(&pairFlag{dst: &opts.overwrites, typ: "NAME=STRING"}, "overwrite-str", "O", "replace an attribute in the output, without affecting the hash (string)")
	flags.StringVar(&opts.overwriteRev, "overwrite-rev", "", "replace the revision in the output (Nix expression)")
	flags.StringVar(&opts.overwriteRevStr, "overwrite-rev-str", "", "replace the revision in the output (string)")

	flags.BoolVarP(&opts.listFetchers, "list-fetchers", "l", false, "list all fetchers")
	flags.BoolVarP(&opts.listPossible, "list-possible-fetchers", "L", false, "list the fetchers that can be inferred from a URL")
	flags.StringVarP(&opts.listSep, "list-sep", "s", pipeline.DefaultListSep, "separator for --list-fetchers and --list-possible-fetchers")

	flags.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/nurl/config.toml)")

	flags.Lookup("submodules").NoOptDefVal = "true"

	root.MarkFlagsMutuallyExclusive("hash", "json", "parse")
	root.MarkFlagsMutuallyExclusive("expr", "json")
	root.MarkFlagsMutuallyExclusive("expr", "parse")
	root.MarkFlagsMutuallyExclusive("overwrite-rev", "overwrite-rev-str")
	root.MarkFlagsMutuallyExclusive("list-fetchers", "list-possible-fetchers")

	completeFetchers := func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return fetcher.Names(false), cobra.ShellCompDirectiveNoFileComp
	}
	_ = root.RegisterFlagCompletionFunc("fetcher", completeFetchers)
	_ = root.RegisterFlagCompletionFunc("fallback", completeFetchers)
}

// run executes the root command.
func (c *CLI) run(cmd *cobra.Command, opts *options, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if opts.listFetchers || opts.listPossible {
		return c.listFetchers(opts.listPossible, opts.listSep)
	}

	path, explicit := opts.configPath, opts.configPath != ""
	if !explicit {
		var err error
		if path, err = c.configPath(); err != nil {
			logger.Debug("no config directory", "error", err)
		}
	}
	var file fileConfig
	if path != "" {
		var err error
		if file, err = loadConfig(path, explicit, logger); err != nil {
			return err
		}
	}

	req, err := buildRequest(cmd.Flags(), opts, file, args)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	runner := c.newRunner(logger, credentials(c.getenv, file))
	out := fetcher.Output{
		W:       c.Stdout,
		Indent:  req.Config.Indent,
		Newline: isTerminal(c.Stdout),
	}
	if err := runner.Execute(ctx, req, out); err != nil {
		return err
	}
	prog.done("finished " + req.Mode.String() + " output")
	return nil
}

// buildRequest turns flags, config file and positional arguments into a
// pipeline request. Flags given on the command line win over the file.
func buildRequest(flags *pflag.FlagSet, opts *options, file fileConfig, args []string) (pipeline.Request, error) {
	var req pipeline.Request

	switch {
	case opts.expr != "" && len(args) > 0:
		return req, errors.New(errors.ErrCodeInvalidInput, "--expr does not take a URL")
	case opts.expr != "":
		req.Expr = opts.expr
		req.Mode = pipeline.ModeHash
	case len(args) == 0:
		return req, errors.New(errors.ErrCodeInvalidInput, "a URL is required")
	default:
		req.URL = args[0]
		if len(args) > 1 {
			req.Rev = args[1]
		}
	}

	if opts.fetcher != "" {
		k, err := fetcher.ParseKind(opts.fetcher)
		if err != nil {
			return req, err
		}
		req.Fetcher = &k
	}

	switch {
	case !flags.Changed("fallback") && file.Fallback != nil:
		req.Fallback = *file.Fallback
	default:
		k, err := fetcher.ParseKind(opts.fallback)
		if err != nil {
			return req, err
		}
		req.Fallback = k
	}

	cfg := &req.Config
	cfg.Nixpkgs = opts.nixpkgs
	if !flags.Changed("nixpkgs") && file.Nixpkgs != "" {
		cfg.Nixpkgs = file.Nixpkgs
	}
	cfg.Indent = opts.indent
	if !flags.Changed("indent") && file.Indent != nil {
		cfg.Indent = *file.Indent
	}
	if cfg.Indent < 0 {
		return req, errors.New(errors.ErrCodeInvalidInput, "--indent must not be negative")
	}
	if flags.Changed("submodules") {
		cfg.Submodules = &opts.submodules
	}

	for _, a := range opts.args {
		if err := cfg.AddArg(a.name, a.value); err != nil {
			return req, err
		}
	}
	for _, a := range opts.argsStr {
		if err := cfg.AddArgStr(a.name, a.value); err != nil {
			return req, err
		}
	}
	for _, o := range opts.overwrites {
		if err := cfg.Overwrite(o.name, o.value, o.expr); err != nil {
			return req, err
		}
	}
	switch {
	case flags.Changed("overwrite-rev"):
		cfg.OverwriteRev = &nix.Binding{Value: opts.overwriteRev, Expr: true}
	case flags.Changed("overwrite-rev-str"):
		cfg.OverwriteRev = &nix.Binding{Value: opts.overwriteRevStr}
	}

	switch {
	case req.Expr != "":
	case opts.hash:
		req.Mode = pipeline.ModeHash
	case opts.json:
		req.Mode = pipeline.ModeJSON
	case opts.parse:
		req.Mode = pipeline.ModeParse
	}
	return req, nil
}

// listFetchers writes fetcher names separated by sep.
func (c *CLI) listFetchers(inferableOnly bool, sep string) error {
	s := strings.Join(fetcher.Names(inferableOnly), sep)
	if isTerminal(c.Stdout) {
		s += "\n"
	}
	_, err := io.WriteString(c.Stdout, s)
	return err
}
