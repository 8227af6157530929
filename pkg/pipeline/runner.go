package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nurl/pkg/errors"
	"github.com/matzehuels/nurl/pkg/fetcher"
	"github.com/matzehuels/nurl/pkg/nix"
)

// Runner executes requests against a prefetch back-end and a revision source.
//
// The Runner is stateless apart from whatever its Prefetcher memoises; it
// never stores results between requests.
type Runner struct {
	Prefetcher fetcher.Prefetcher
	Revisions  RevisionSource
	Logger     *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(p fetcher.Prefetcher, revs RevisionSource, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Prefetcher: p,
		Revisions:  revs,
		Logger:     logger,
	}
}

// Execute runs the request and writes its result to out.
func (r *Runner) Execute(ctx context.Context, req Request, out fetcher.Output) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Expr != "" {
		return r.hashExpr(ctx, req.Expr, out)
	}

	call, err := r.Resolve(req)
	if err != nil {
		return err
	}
	f, cfg := call.Fetcher, &req.Config

	if req.Mode == ModeParse {
		// builtins.fetchGit has nothing to describe the checkout by
		// without a revision.
		if f.Kind == fetcher.BuiltinsFetchGit && call.Rev == "" {
			return errors.New(errors.ErrCodeUnsupported, "%s does not support fetching the latest revision", f.Name)
		}
		return out.JSON(f.Name, cfg.ParseFields(call), "")
	}

	if call.Rev == "" && !f.Revless() {
		start := time.Now()
		rev, err := r.Revisions.LatestRevision(ctx, call)
		if err != nil {
			return err
		}
		call.Rev = rev
		r.Logger.Info("fetched latest revision",
			"fetcher", f.Name,
			"rev", rev,
			"duration", time.Since(start))
	}

	if req.Mode == ModeHash || f.HashKey != "" {
		start := time.Now()
		hash, err := fetcher.Hash(ctx, r.Prefetcher, call, cfg)
		if err != nil {
			return err
		}
		call.Hash = hash
		r.Logger.Debug("computed hash",
			"fetcher", f.Name,
			"hash", hash,
			"duration", time.Since(start))
	}

	switch req.Mode {
	case ModeHash:
		return out.Hash(call.Hash)
	case ModeJSON:
		return out.JSON(f.Name, cfg.Fields(call), f.SubmodulesKey)
	default:
		return out.Nix(f.Name, cfg.Fields(call))
	}
}

// Resolve selects the fetcher for req and reads its values from the URL.
// The returned call carries the request's revision, if any.
func (r *Runner) Resolve(req Request) (fetcher.Call, error) {
	u, err := fetcher.ParseURL(req.URL)
	if err != nil {
		return fetcher.Call{}, err
	}

	f, err := fetcher.Resolve(u, req.Fetcher, req.Fallback)
	if err != nil {
		return fetcher.Call{}, err
	}
	r.Logger.Debug("resolved fetcher",
		"url", u.Raw,
		"fetcher", f.Name,
		"host", f.Host)

	vals, ok := fetcher.Extract(f, u)
	if !ok {
		return fetcher.Call{}, errors.New(errors.ErrCodeInvalidURL, "failed to parse %s as a %s URL", u.Raw, f.Name)
	}
	if req.Rev != "" && f.Revless() {
		return fetcher.Call{}, errors.New(errors.ErrCodeUnsupported, "%s does not support revisions", f.Name)
	}

	return fetcher.Call{Fetcher: f, Values: vals, Rev: req.Rev}, nil
}

// hashExpr hashes an arbitrary fixed-output derivation.
func (r *Runner) hashExpr(ctx context.Context, expr string, out fetcher.Output) error {
	r.Logger.Debug("hashing expression", "expr", expr)
	hash, err := r.Prefetcher.FOD(ctx, nix.OverrideHash(expr))
	if err != nil {
		return err
	}
	return out.Hash(hash)
}
