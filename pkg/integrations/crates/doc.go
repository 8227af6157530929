// Package crates provides an HTTP client for the crates.io API.
//
// # Usage
//
//	client := crates.NewClient()
//	version, err := client.LatestVersion(ctx, "serde")
//
// The version becomes the version argument of fetchCrate when the user
// names a crate without a version. Pre-releases are only returned for
// crates that have never published a stable version.
package crates
