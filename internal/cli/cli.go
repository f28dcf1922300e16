// Package cli implements the constraintlayout command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/buildinfo"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/cache"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/pipeline"
	"github.com/Lavmee/constraintlayout-compose-multiplatform-sub003/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "constraintlayout"

	// envCache overrides the cache backend: a directory, a redis:// or
	// mongodb:// URL, or "none".
	envCache = "CONSTRAINTLAYOUT_CACHE"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// cacheTarget selects the cache backend; empty means the XDG
	// directory.
	cacheTarget string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:      newLogger(w, level),
		cacheTarget: os.Getenv(envCache),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Solve and animate constraint layouts",
		Long: `constraintlayout solves scenes of widgets positioned by constraints
against their container and each other, renders the solved frames, and
samples transitions between two solved states.

Scenes are TOML or JSON files. Results are cached locally for faster
subsequent runs.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cacheTarget, "cache", c.cacheTarget, "cache backend: directory, redis:// or mongodb:// URL, or none (default: XDG cache dir, env "+envCache+")")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.scrubCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache.Observed(cc), nil, c.Logger), nil
}

// openCache opens the configured backend. Without one, the XDG directory
// is used; when even that cannot be found, caching is disabled.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if c.cacheTarget != "" {
		return cache.Open(ctx, c.cacheTarget)
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("caching disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/constraintlayout/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Scene Loading
// =============================================================================

// loadScene reads the scene at path, logging its size.
func loadScene(ctx context.Context, path string) (*scene.Document, error) {
	doc, err := scene.Import(path)
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Debug("loaded scene",
		"path", path,
		"widgets", len(doc.Widgets),
		"guidelines", len(doc.Guidelines),
		"barriers", len(doc.Barriers),
		"motion", doc.Motion != nil)
	return doc, nil
}

// solveFlags registers the container override flags shared by solving
// commands.
func solveFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().IntVar(&opts.Width, "width", 0, "container width override")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "container height override")
	cmd.Flags().StringVar(&opts.WidthMode, "width-mode", "", "width measure mode: exactly (default with --width), at_most, wrap")
	cmd.Flags().StringVar(&opts.HeightMode, "height-mode", "", "height measure mode: exactly (default with --height), at_most, wrap")
	cmd.Flags().StringVar(&opts.Optimization, "optimization", "", "solver optimization flags, e.g. standard or graph|chain")
	cmd.Flags().BoolVar(&opts.Direct, "direct", false, "skip the dependency graph solver")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when the layout does not converge")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")
}
