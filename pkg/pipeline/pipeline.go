// Package pipeline provides the solve, animate and render stages shared by
// the CLI and the HTTP API.
//
// This package implements the scene → layout → artifact pipeline. By
// centralizing it, every entry point applies the same defaults, the same
// validation and the same cache keys.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Solve: build the widget tree of a scene and measure it
//  2. Animate: solve both states of a transition and sample it
//  3. Render: produce SVG, PNG or JSON from a layout, DOT or SVG from a
//     dependency graph, or a plot from an animation
//
// Each stage is a plain function ([Solve], [Animate], [RenderLayout]);
// [Runner] wraps them with caching.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, doc, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts[pipeline.FormatSVG]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/cache"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/analyzer"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/core/widgets"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultFrames is the number of samples taken of a transition,
	// including both endpoints.
	DefaultFrames = 30

	// MaxFrames bounds the samples of one animation request.
	MaxFrames = 1000

	// MaxSize bounds a container size override in pixels.
	MaxSize = 1 << 15

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// Measure modes for a container size override.
const (
	ModeExactly = "exactly"
	ModeAtMost  = "at_most"
	ModeWrap    = "wrap"
)

// ValidFormats is the set of formats a solved layout renders to.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ValidGraphFormats is the set of formats a dependency graph renders to.
var ValidGraphFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// ValidModes is the set of container measure modes.
var ValidModes = map[string]bool{
	ModeExactly: true,
	ModeAtMost:  true,
	ModeWrap:    true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. Zero values keep
// what the scene document says. This struct supports JSON serialization
// for API requests.
type Options struct {
	// Solve options
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	WidthMode    string `json:"width_mode,omitempty"`  // exactly, at_most or wrap; exactly when only Width is set
	HeightMode   string `json:"height_mode,omitempty"` // exactly, at_most or wrap; exactly when only Height is set
	Optimization string `json:"optimization,omitempty"`
	Direct       bool   `json:"direct,omitempty"` // Skip the dependency graph and start with the direct solver
	Strict       bool   `json:"strict,omitempty"` // Fail when the layout does not converge
	Refresh      bool   `json:"refresh,omitempty"`

	// Animate options
	Frames   int    `json:"frames,omitempty"`
	Duration string `json:"duration,omitempty"` // Overrides the scene duration, e.g. "300ms"

	// Render options
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	Helpers bool     `json:"helpers,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a solve and render run.
type Result struct {
	// Layout is the solved start state of the scene.
	Layout *Layout

	// SceneHash is the content hash of the scene document.
	SceneHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Widgets    int
	SolveTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SolveHit  bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a layout format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid format: %q (must be one of: svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all layout formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateGraphFormat checks that a dependency graph format is valid.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid graph format: %q (must be one of: dot, svg, json)", format)
	}
	return nil
}

// ValidateMode checks that a measure mode is valid. The empty mode is.
func ValidateMode(mode string) error {
	if mode != "" && !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid mode: %q (must be one of: exactly, at_most, wrap)", mode)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every option and applies the defaults of
// all stages. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForSolve(); err != nil {
		return err
	}
	if err := o.ValidateForAnimate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetSolveDefaults sets default values for solving and rendering.
func (o *Options) SetSolveDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForSolve sets the solve defaults and checks the solve options.
func (o *Options) ValidateForSolve() error {
	o.SetSolveDefaults()
	for _, axis := range []struct {
		name, mode string
		size       int
	}{{"width", o.WidthMode, o.Width}, {"height", o.HeightMode, o.Height}} {
		if err := ValidateMode(axis.mode); err != nil {
			return err
		}
		if axis.size < 0 || axis.size > MaxSize {
			return errors.New(errors.ErrCodeInvalidOptions, "%s %d out of range [0, %d]", axis.name, axis.size, MaxSize)
		}
		if (axis.mode == ModeExactly || axis.mode == ModeAtMost) && axis.size == 0 {
			return errors.New(errors.ErrCodeInvalidOptions, "%s mode %s needs a %s", axis.name, axis.mode, axis.name)
		}
	}
	if _, ok := o.optimization(); !ok {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid optimization: %q", o.Optimization)
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "invalid scale: %v", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// SetAnimateDefaults sets default values for sampling a transition.
func (o *Options) SetAnimateDefaults() {
	if o.Frames == 0 {
		o.Frames = DefaultFrames
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForAnimate sets the animate defaults and checks the animate
// options.
func (o *Options) ValidateForAnimate() error {
	o.SetAnimateDefaults()
	if o.Frames < 2 || o.Frames > MaxFrames {
		return errors.New(errors.ErrCodeInvalidOptions, "frames %d out of range [2, %d]", o.Frames, MaxFrames)
	}
	if _, err := o.DurationValue(); err != nil {
		return err
	}
	return nil
}

// DurationValue parses the duration override; 0 keeps the scene's.
func (o *Options) DurationValue() (time.Duration, error) {
	if o.Duration == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(o.Duration)
	if err != nil || d <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidOptions, "invalid duration: %q", o.Duration)
	}
	return d, nil
}

// optimization returns the optimization override and whether it
// parsed. An empty string overrides nothing and returns -1.
func (o *Options) optimization() (widgets.Optimization, bool) {
	if o.Optimization == "" {
		return -1, true
	}
	return widgets.ParseOptimization(o.Optimization)
}

// apply sets the solver options on a freshly built container.
func (o *Options) apply(c *widgets.Container) {
	if opt, _ := o.optimization(); opt >= 0 {
		c.Optimization = opt
	}
	if o.Direct {
		c.Optimization &^= widgets.OptimizationGraph | widgets.OptimizationGraphWrap
	}
}

// MeasureSpec returns base with the size overrides applied.
func (o *Options) MeasureSpec(base analyzer.Spec) analyzer.Spec {
	if mode, size, ok := axisOverride(o.WidthMode, o.Width); ok {
		base.WidthMode, base.Width = mode, size
	}
	if mode, size, ok := axisOverride(o.HeightMode, o.Height); ok {
		base.HeightMode, base.Height = mode, size
	}
	return base
}

func axisOverride(mode string, size int) (analyzer.MeasureMode, int, bool) {
	switch mode {
	case ModeExactly:
		return analyzer.Exactly, size, true
	case ModeAtMost:
		return analyzer.AtMost, size, true
	case ModeWrap:
		return analyzer.Unspecified, 0, true
	}
	if size > 0 {
		return analyzer.Exactly, size, true
	}
	return analyzer.Unspecified, 0, false
}

// SolveKeyOpts returns cache key options for solving.
func (o *Options) SolveKeyOpts() cache.SolveKeyOpts {
	opt, _ := o.optimization()
	return cache.SolveKeyOpts{
		Width:        o.Width,
		Height:       o.Height,
		WidthMode:    o.WidthMode,
		HeightMode:   o.HeightMode,
		Optimization: int(opt),
		Direct:       o.Direct,
	}
}

// AnimateKeyOpts returns cache key options for sampling a transition.
func (o *Options) AnimateKeyOpts() cache.AnimateKeyOpts {
	d, _ := o.DurationValue()
	return cache.AnimateKeyOpts{
		SolveKeyOpts: o.SolveKeyOpts(),
		Frames:       o.Frames,
		Duration:     d,
	}
}

// ArtifactKeyOpts returns cache key options for rendering a layout.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Scale:   o.Scale,
		Labels:  o.Labels,
		Helpers: o.Helpers,
	}
}

// ParseFormats splits a comma separated format list, dropping blanks and
// duplicates.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
