package fetcher

import (
	"strings"

	"github.com/matzehuels/nurl/pkg/errors"
)

// Values are the identifying attribute values of a fetcher call, parallel
// to Variant.Keys.
type Values struct {
	Keys  []string
	Group string // GitLab (sub)groups above the owner, slash-separated
}

// Extract pulls the identifying values for f out of u. It reports false
// when the URL's path does not have the shape the fetcher needs.
func Extract(f Fetcher, u URL) (Values, bool) {
	segs := u.Segments()

	switch f.Kind {
	case FetchFromGitHub, FetchFromGitea, FetchFromSourcehut, FetchFromBitbucket:
		owner, repo, ok := ownerRepo(segs)
		if !ok {
			return Values{}, false
		}
		return Values{Keys: []string{owner, repo}}, true

	case FetchFromGitLab:
		return gitlabValues(segs)

	case FetchFromRepoOrCz:
		if len(segs) == 0 {
			return Values{}, false
		}
		repo := strings.TrimSuffix(segs[0], ".git")
		if repo == "" {
			return Values{}, false
		}
		return Values{Keys: []string{repo}}, true

	case FetchCrate:
		name := ""
		switch {
		case u.Hostname() == "lib.rs" && len(segs) > 0 && segs[0] != "crates" && segs[0] != "install":
			name = segs[0]
		case len(segs) > 1:
			name = segs[1]
		}
		return registryValues(name, errors.ValidateCratesPackageName)

	case FetchPypi:
		if len(segs) < 2 {
			return Values{}, false
		}
		return registryValues(segs[1], errors.ValidatePythonPackageName)

	case FetchHex:
		if len(segs) < 2 {
			return Values{}, false
		}
		return registryValues(segs[1], errors.ValidateHexPackageName)

	default:
		raw := u.Raw
		switch {
		case f.Git == GitPlus:
			raw = strings.TrimPrefix(raw, "git+")
		case f.HgPlus:
			raw = strings.TrimPrefix(raw, "hg+")
		}
		return Values{Keys: []string{raw}}, true
	}
}

func ownerRepo(segs []string) (owner, repo string, ok bool) {
	if len(segs) < 2 {
		return "", "", false
	}
	owner, repo = segs[0], strings.TrimSuffix(segs[1], ".git")
	return owner, repo, owner != "" && repo != ""
}

// gitlabValues treats everything before the first "" or "-" segment as
// group path, owner and repository, in that order.
func gitlabValues(segs []string) (Values, bool) {
	var path []string
	for _, s := range segs {
		if s == "" || s == "-" {
			break
		}
		path = append(path, s)
	}
	if len(path) < 2 {
		return Values{}, false
	}

	n := len(path)
	repo := strings.TrimSuffix(path[n-1], ".git")
	if repo == "" {
		return Values{}, false
	}
	return Values{
		Keys:  []string{path[n-2], repo},
		Group: strings.Join(path[:n-2], "/"),
	}, true
}

func registryValues(name string, validate func(string) error) (Values, bool) {
	if validate(name) != nil {
		return Values{}, false
	}
	return Values{Keys: []string{name}}, true
}
