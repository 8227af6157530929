package cli

import (
	stderrors "errors"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/nurl/pkg/errors"
	"github.com/matzehuels/nurl/pkg/fetcher"
	"github.com/matzehuels/nurl/pkg/pipeline"
)

// fileConfig is the contents of config.toml:
//
//	fallback = "fetchFromGitHub"
//	nixpkgs = "<nixpkgs>"
//	indent = 2
//
//	[tokens]
//	github = "ghp_..."
//	gitlab = "glpat-..."
//	gitea = "..."
type fileConfig struct {
	Fallback *fetcher.Kind `toml:"fallback"`
	Nixpkgs  string        `toml:"nixpkgs"`
	Indent   *int          `toml:"indent"`
	Tokens   struct {
		GitHub string `toml:"github"`
		GitLab string `toml:"gitlab"`
		Gitea  string `toml:"gitea"`
	} `toml:"tokens"`
}

// loadConfig reads the config file at path. A missing file is only an
// error when the path was given explicitly.
func loadConfig(path string, explicit bool, logger *log.Logger) (fileConfig, error) {
	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return fileConfig{}, nil
		}
		return fileConfig{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to read config file %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("ignoring unknown config keys", "file", path, "keys", strings.Join(keys, ", "))
	}
	if cfg.Indent != nil && *cfg.Indent < 0 {
		return fileConfig{}, errors.New(errors.ErrCodeInvalidInput, "indent in %s must not be negative", path)
	}
	logger.Debug("loaded config", "file", path)
	return cfg, nil
}

// tokenEnv lists, per service, the environment variables holding an API
// token, in order of preference.
var tokenEnv = struct {
	GitHub, GitLab, Gitea []string
}{
	GitHub: []string{"GH_TOKEN", "GITHUB_TOKEN", "GITHUB_API_TOKEN"},
	GitLab: []string{"GITLAB_TOKEN"},
	Gitea:  []string{"GITEA_TOKEN"},
}

// credentials merges tokens from the environment over those in the file.
func credentials(getenv func(string) string, file fileConfig) pipeline.Credentials {
	pick := func(vars []string, fallback string) string {
		for _, v := range vars {
			if token := getenv(v); token != "" {
				return token
			}
		}
		return fallback
	}
	return pipeline.Credentials{
		GitHub: pick(tokenEnv.GitHub, file.Tokens.GitHub),
		GitLab: pick(tokenEnv.GitLab, file.Tokens.GitLab),
		Gitea:  pick(tokenEnv.Gitea, file.Tokens.Gitea),
	}
}
