// Package pkg provides the core libraries behind nurl, which turns a
// source-repository URL into a Nix fetcher call with its hash filled in.
//
// # Overview
//
// The pkg directory is organized into a few areas:
//
//  1. [fetcher] - The fetcher table, URL resolution, argument extraction,
//     hashing strategies and output rendering
//  2. [pipeline] - Orchestration (resolve → revision → hash → render) used by
//     the CLI
//  3. [nix] - Nix expression building and the nix/git prefetch commands
//  4. [integrations] - HTTP clients that look up the newest revision on
//     hosting services and registries (GitHub, GitLab, Gitea, crates.io,
//     PyPI, hex.pm)
//
// Smaller supporting packages: [command] runs external programs with
// captured output, [vcs] wraps git ls-remote, [httputil] retries transient
// HTTP failures, [errors] carries the error codes, and [buildinfo] holds the
// version stamped in at build time.
//
// # Architecture
//
// The data flow for one invocation:
//
//	URL + optional revision
//	         ↓
//	    [fetcher.ParseURL] + [fetcher.Resolve] (choose a fetcher)
//	         ↓
//	    [fetcher.Extract] (identifying arguments)
//	         ↓
//	    [integrations] / [vcs] (latest revision, when none is given)
//	         ↓
//	    [fetcher.Hash] via [nix.Prefetcher]
//	         ↓
//	    Nix, JSON or bare hash output
//
// # Quick Start
//
//	u, _ := fetcher.ParseURL("https://github.com/nix-community/nurl")
//	f, _ := fetcher.Resolve(u, nil, fetcher.Fetchgit)
//	vals, _ := fetcher.Extract(f, u)
//
//	call := fetcher.Call{Fetcher: f, Values: vals, Rev: "v0.3.0"}
//	cfg := &fetcher.Config{}
//	hash, _ := fetcher.Hash(ctx, nix.NewPrefetcher(&command.Exec{}, logger), call, cfg)
//	call.Hash = hash
//
//	out := fetcher.Output{W: os.Stdout}
//	_ = out.Nix(call.Fetcher.Name, cfg.Fields(call))
//
// # Testing
//
//	go test ./pkg/...
//
// Nothing under pkg talks to the network or spawns nix in tests; the
// prefetchers and API clients are exercised through fakes and httptest.
//
// [fetcher]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/fetcher
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/pipeline
// [nix]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/nix
// [integrations]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/integrations
// [command]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/command
// [vcs]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/vcs
// [httputil]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/buildinfo
// [fetcher.ParseURL]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/fetcher#ParseURL
// [fetcher.Resolve]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/fetcher#Resolve
// [fetcher.Extract]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/fetcher#Extract
// [fetcher.Hash]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/fetcher#Hash
// [nix.Prefetcher]: https://pkg.go.dev/github.com/matzehuels/nurl/pkg/nix#Prefetcher
package pkg
