package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/cache"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/errors"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to share caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// SceneHash returns the content hash of doc used in cache keys.
func SceneHash(doc *scene.Document) (string, error) {
	data, err := doc.Canonical()
	if err != nil {
		return "", fmt.Errorf("hash scene: %w", err)
	}
	return cache.Hash(data), nil
}

// Execute runs the complete solve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, doc *scene.Document, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}
	hash, err := SceneHash(doc)
	if err != nil {
		return nil, err
	}
	result.SceneHash = hash

	// Stage 1: Solve
	solveStart := time.Now()
	layout, solveHit, err := r.SolveWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	result.Layout = layout
	result.Stats.Widgets = len(layout.Widgets)
	result.Stats.SolveTime = time.Since(solveStart)
	result.CacheInfo.SolveHit = solveHit

	r.Logger.Info("solved layout",
		"scene", doc.Name,
		"widgets", len(layout.Widgets),
		"strategy", layout.Strategy,
		"cached", solveHit,
		"duration", result.Stats.SolveTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SolveWithCacheInfo solves doc with caching and returns cache hit info.
// Layouts that did not converge are returned but never cached.
func (r *Runner) SolveWithCacheInfo(ctx context.Context, doc *scene.Document, opts Options) (*Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}

	hash, err := SceneHash(doc)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.SolveKey(hash, opts.SolveKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, true, nil
			}
		}
	}

	layout, err := Solve(ctx, doc, opts)
	if err != nil {
		return nil, false, err
	}

	if layout.Converged {
		if data, err := json.Marshal(layout); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLSolve); err != nil {
				opts.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
			}
		}
	}
	return layout, false, nil
}

// Solve is a convenience wrapper that calls SolveWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Solve(ctx context.Context, doc *scene.Document, opts Options) (*Layout, error) {
	layout, _, err := r.SolveWithCacheInfo(ctx, doc, opts)
	return layout, err
}

// AnimateWithCacheInfo samples the transition of doc with caching and
// returns cache hit info.
func (r *Runner) AnimateWithCacheInfo(ctx context.Context, doc *scene.Document, opts Options) (*Animation, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	hash, err := SceneHash(doc)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.AnimateKey(hash, opts.AnimateKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached Animation
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, true, nil
			}
		}
	}

	a, err := Animate(ctx, doc, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(a); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLAnimate); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		}
	}
	return a, false, nil
}

// Animate is a convenience wrapper that calls AnimateWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Animate(ctx context.Context, doc *scene.Document, opts Options) (*Animation, error) {
	a, _, err := r.AnimateWithCacheInfo(ctx, doc, opts)
	return a, err
}

// RenderWithCacheInfo generates artifacts of layout with caching and
// returns whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout *Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForSolve(); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := RenderLayout(layout, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout *Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// StoreScene keeps the canonical form of doc in the cache and returns
// its hash, so later requests can refer to the scene by hash.
func (r *Runner) StoreScene(ctx context.Context, doc *scene.Document) (string, error) {
	data, err := doc.Canonical()
	if err != nil {
		return "", fmt.Errorf("hash scene: %w", err)
	}
	hash := cache.Hash(data)
	if err := r.Cache.Set(ctx, r.Keyer.SceneKey(hash), data, cache.TTLScene); err != nil {
		return "", fmt.Errorf("store scene: %w", err)
	}
	return hash, nil
}

// LoadScene returns a scene stored by [Runner.StoreScene].
func (r *Runner) LoadScene(ctx context.Context, hash string) (*scene.Document, error) {
	data, hit, err := r.Cache.Get(ctx, r.Keyer.SceneKey(hash))
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	if !hit {
		return nil, errors.Wrap(errors.ErrCodeNotFound, cache.ErrCacheMiss, "scene %s not found", hash)
	}
	return scene.Parse(data, scene.FormatJSON)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
