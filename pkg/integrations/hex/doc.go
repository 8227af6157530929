// Package hex provides an HTTP client for the hex.pm API, used to pick the
// version argument of fetchHex.
package hex
