package nix

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/nurl/pkg/command"
	"github.com/matzehuels/nurl/pkg/errors"
)

const memoSize = 32

var experimental = []string{"--extra-experimental-features", "nix-command flakes"}

// Prefetcher computes content hashes with the nix tools.
type Prefetcher struct {
	runner command.Runner
	logger *log.Logger
	memo   *lru.Cache[string, string]
}

// NewPrefetcher creates a Prefetcher that runs commands through r.
// A nil logger falls back to log.Default().
func NewPrefetcher(r command.Runner, logger *log.Logger) *Prefetcher {
	if logger == nil {
		logger = log.Default()
	}
	memo, _ := lru.New[string, string](memoSize)
	return &Prefetcher{runner: r, logger: logger, memo: memo}
}

// Flake returns the hash of the source tree behind a flake reference.
func (p *Prefetcher) Flake(ctx context.Context, ref string) (string, error) {
	return p.memoize("flake\x00"+ref, func() (string, error) {
		args := append(append([]string{}, experimental...), "flake", "prefetch", "--json", ref)
		res, err := p.runner.Run(ctx, "nix", args...)
		if err != nil {
			return "", toolError(err, "nix flake prefetch %s", ref)
		}

		var out struct {
			Hash string `json:"hash"`
		}
		if err := json.Unmarshal(res.Stdout, &out); err != nil {
			return "", errors.Wrap(errors.ErrCodeExternalTool, err, "cannot parse output of nix flake prefetch %s", ref)
		}
		if out.Hash == "" {
			return "", errors.New(errors.ErrCodeExternalTool, "nix flake prefetch %s reported no hash", ref)
		}
		return out.Hash, nil
	})
}

// URL returns the SRI hash of a downloaded file, or of the unpacked archive
// when unpack is set.
func (p *Prefetcher) URL(ctx context.Context, url string, unpack bool) (string, error) {
	key := "url\x00" + url
	if unpack {
		key = "unpack\x00" + url
	}
	return p.memoize(key, func() (string, error) {
		args := []string{url}
		if unpack {
			args = []string{"--unpack", url}
		}
		res, err := p.runner.Run(ctx, "nix-prefetch-url", args...)
		if err != nil {
			return "", toolError(err, "nix-prefetch-url %s", url)
		}
		digest := lastLine(res.Stdout)
		if digest == "" {
			return "", errors.New(errors.ErrCodeExternalTool, "nix-prefetch-url %s printed no hash", url)
		}

		args = append(append([]string{}, experimental[0], "nix-command"), "hash", "to-sri", "--type", "sha256", digest)
		res, err = p.runner.Run(ctx, "nix", args...)
		if err != nil {
			return "", toolError(err, "nix hash to-sri %s", digest)
		}
		sri := lastLine(res.Stdout)
		if sri == "" {
			return "", errors.New(errors.ErrCodeExternalTool, "nix hash to-sri printed nothing for %s", digest)
		}
		return sri, nil
	})
}

// FOD builds expr, a fixed-output derivation carrying [FakeHash], and
// returns the hash nix reports in the resulting mismatch error.
func (p *Prefetcher) FOD(ctx context.Context, expr string) (string, error) {
	return p.memoize("fod\x00"+expr, func() (string, error) {
		args := append(append([]string{}, experimental[0], "nix-command"), "build", "--impure", "--no-link", "--expr", expr)
		res, err := p.runner.Run(ctx, "nix", args...)
		if err == nil {
			return "", errors.New(errors.ErrCodeExternalTool, "nix build succeeded unexpectedly for %s", expr)
		}
		var exitErr *command.ExitError
		if !stderrors.As(err, &exitErr) {
			return "", toolError(err, "nix build %s", expr)
		}

		if hash, ok := ParseHashMismatch(res.Stderr); ok {
			return hash, nil
		}
		return "", errors.New(errors.ErrCodeHashNotFound,
			"failed to find the hash in the output of nix build\nstdout:\n%s\nstderr:\n%s",
			strings.TrimSpace(string(res.Stdout)), strings.TrimSpace(string(res.Stderr)))
	})
}

// ParseHashMismatch scans nix's stderr for a "specified:" line immediately
// followed by a "got:" line and returns the hash after "got:".
func ParseHashMismatch(stderr []byte) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(stderr))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	specified := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if specified {
			if rest, ok := strings.CutPrefix(line, "got:"); ok {
				if hash := strings.TrimSpace(rest); hash != "" {
					return hash, true
				}
			}
		}
		specified = strings.HasPrefix(line, "specified:")
	}
	return "", false
}

func (p *Prefetcher) memoize(key string, compute func() (string, error)) (string, error) {
	if hash, ok := p.memo.Get(key); ok {
		p.logger.Debug("reusing hash", "hash", hash)
		return hash, nil
	}
	hash, err := compute()
	if err != nil {
		return "", err
	}
	p.memo.Add(key, hash)
	return hash, nil
}

func toolError(err error, format string, args ...any) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.Wrap(errors.ErrCodeExternalTool, err, format, args...)
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
