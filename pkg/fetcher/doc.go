// Package fetcher turns a source URL into a Nix fetcher call.
//
// # Pipeline
//
// The steps, each a separate function so they can be tested alone:
//
//  1. [ParseURL] parses the user's URL.
//  2. [Resolve] picks the fetcher ([Kind]) from file extension, explicit
//     choice, host and scheme, recording a custom host where needed.
//  3. [Extract] reads the identifying values (owner, repo, package name,
//     group, or the URL itself) from the path.
//  4. The revision is the user's, or the newest one looked up by the caller.
//     [Variant.RevisionEntry] decides whether it is rendered as rev, tag,
//     ref or version.
//  5. [Hash] obtains the content hash through a [Prefetcher].
//  6. [Config.Fields] merges everything into the ordered attribute list and
//     [Output] writes it as Nix, JSON or a bare hash.
//
// # Variants
//
// Every fetcher is described by static data in its [Variant]: attribute
// names, host rules, revision policy, submodule default, hashing strategy
// and where the latest revision comes from. Behaviour is driven by this
// table rather than by per-fetcher types.
package fetcher
