// Package pypi provides an HTTP client for the PyPI JSON API
// (https://pypi.org/pypi/<name>/json).
//
// [Client.LatestVersion] supplies the version argument of fetchPypi when the
// user names a project without a version.
package pypi
