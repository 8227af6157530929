// Package nix obtains content hashes by driving the nix command-line tools.
//
// # Strategies
//
// Three back-ends exist, from cheapest to most general:
//
//   - [Prefetcher.Flake]: nix flake prefetch on a flake reference
//     (github:, gitlab:, sourcehut:, hg+, tarball+ and git+ URLs)
//   - [Prefetcher.URL]: nix-prefetch-url, converted to SRI with nix hash to-sri
//   - [Prefetcher.FOD]: build a fixed-output derivation with a placeholder
//     hash and read the real hash from the mismatch report
//
// [Prefetcher.Git] layers the git-specific reference rules on top of
// [Prefetcher.Flake]: full commit digests are fetched with allRefs, symbolic
// names are tried as tags before plain refs.
//
// # Memoisation
//
// A [Prefetcher] remembers every hash it produced, keyed by the exact
// request, so a hash is computed at most once per process.
//
// # Fixed-output scraping
//
// The fixed-output strategy depends on the wording of nix's hash mismatch
// error:
//
//	error: hash mismatch in fixed-output derivation '/nix/store/...':
//	         specified: sha256-AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=
//	            got:    sha256-2Fy6vP0n0u6uKXM3D3sKtpiCE4sVQmwXlkhAbfy0iBk=
//
// [ParseHashMismatch] is the single place that knows this format.
package nix
