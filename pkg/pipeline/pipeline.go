// Package pipeline turns a URL and an optional revision into a rendered
// fetcher call.
//
// This package implements the complete resolve → extract → revision → hash
// → render sequence the CLI runs. Every external effect goes through an
// interface, so the whole sequence can be exercised without nix, git or the
// network.
//
// # Stages
//
//  1. Resolve: pick the fetcher variant for the URL ([fetcher.Resolve])
//  2. Extract: read owner, repo, package name etc. from the URL
//  3. Revision: use the given revision or look up the latest one
//  4. Hash: prefetch the content ([fetcher.Hash])
//  5. Render: write Nix, JSON or just the hash
//
// Parse mode stops after extraction, reporting only what the URL and the
// given revision say, and never touches the network.
//
// # Usage
//
//	runner := pipeline.NewRunner(nix.NewPrefetcher(exec, logger), &pipeline.Remote{Git: &vcs.Git{Runner: exec}}, logger)
//	err := runner.Execute(ctx, pipeline.Request{
//	    URL:      "https://github.com/nix-community/nurl",
//	    Fallback: fetcher.Fetchgit,
//	    Mode:     pipeline.ModeNix,
//	}, fetcher.Output{W: os.Stdout})
package pipeline

import (
	"github.com/matzehuels/nurl/pkg/errors"
	"github.com/matzehuels/nurl/pkg/fetcher"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultFallback is the fetcher used when nothing about the URL selects one.
const DefaultFallback = fetcher.Fetchgit

// DefaultListSep separates fetcher names when listing them.
const DefaultListSep = "\n"

// Mode selects what Execute writes.
type Mode int

const (
	ModeNix   Mode = iota // Nix function application
	ModeJSON              // {"args": ..., "fetcher": ...}
	ModeParse             // JSON of what was read from the URL, without a hash
	ModeHash              // only the hash
)

// String returns the mode's name as used in logs.
func (m Mode) String() string {
	switch m {
	case ModeJSON:
		return "json"
	case ModeParse:
		return "parse"
	case ModeHash:
		return "hash"
	default:
		return "nix"
	}
}

// =============================================================================
// Request
// =============================================================================

// Credentials holds API tokens for hosting services. Empty tokens mean
// unauthenticated requests.
type Credentials struct {
	GitHub string
	GitLab string
	Gitea  string
}

// Request describes one nurl invocation.
type Request struct {
	URL string
	Rev string // empty to look up the latest revision

	// Fetcher is the user's explicit choice, nil to infer one.
	Fetcher  *fetcher.Kind
	Fallback fetcher.Kind

	Config fetcher.Config
	Mode   Mode

	// Expr, when set, is a fixed-output derivation expression to hash
	// instead of a URL. URL, Rev and Fetcher are ignored.
	Expr string
}

// Validate checks that the request names something to work on.
func (r *Request) Validate() error {
	if r.Expr != "" {
		return nil
	}
	if r.URL == "" {
		return errors.New(errors.ErrCodeInvalidInput, "a URL is required")
	}
	return errors.ValidateURL(r.URL)
}
