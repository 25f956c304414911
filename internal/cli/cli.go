package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mockup/pkg/buildinfo"
	"github.com/matzehuels/mockup/pkg/cache"
	"github.com/matzehuels/mockup/pkg/catalog"
	"github.com/matzehuels/mockup/pkg/config"
	"github.com/matzehuels/mockup/pkg/observability"
	"github.com/matzehuels/mockup/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "mockup"

	// defaultProject is used when --project is not given.
	defaultProject = "default"
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

	configPath string
	projectID  string
	screenRef  string
	verbose    bool
	cfg        config.Config

	// store, when set, is used instead of opening the configured backend.
	// Tests share one in-memory store across commands this way.
	store store.Store
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:    newLogger(w, level),
		projectID: defaultProject,
		cfg:       config.Default(),
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
		Short: "Mockup designs app screens from the terminal",
		Long: `Mockup edits app mockups: screens of positioned, grouped elements with
snapping, locking, click-through links and per-screen undo history.

Projects are saved after every command, history included, so undo works
across invocations.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.configure,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/mockup/config.toml)")
	flags.StringVarP(&c.projectID, "project", "p", defaultProject, "project id")
	flags.StringVarP(&c.screenRef, "screen", "s", "", "screen id or name to work on (default: active screen)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.initCommand())
	root.AddCommand(c.projectsCommand())
	root.AddCommand(c.screenCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.groupCommand())
	root.AddCommand(c.ungroupCommand())
	root.AddCommand(c.reparentCommand())
	root.AddCommand(c.duplicateCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.lockCommand())
	root.AddCommand(c.hideCommand())
	root.AddCommand(c.renameCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.styleCommand())
	root.AddCommand(c.undoCommand())
	root.AddCommand(c.redoCommand())
	root.AddCommand(c.jumpCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())

	return root
}

// configure loads the config file and applies the log level. It runs before
// every command.
func (c *CLI) configure(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, _ := cfg.Log.ParseLevel()
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// openStore returns the project store and whether the caller must close it.
func (c *CLI) openStore(ctx context.Context) (store.Store, bool, error) {
	if c.store != nil {
		return c.store, false, nil
	}
	st, err := store.Open(ctx, c.cfg.StoreConfig())
	if err != nil {
		return nil, false, err
	}
	return st, true, nil
}

// newCatalog returns the built-in catalog extended by the configured file.
func (c *CLI) newCatalog() (*catalog.Catalog, error) {
	cat := catalog.Default()
	if c.cfg.Editor.Catalog == "" {
		return cat, nil
	}
	f, err := os.Open(c.cfg.Editor.Catalog)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	if err := cat.Load(f); err != nil {
		return nil, fmt.Errorf("%s: %w", c.cfg.Editor.Catalog, err)
	}
	return cat, nil
}

// newArtifactCache returns the on-disk cache for rendered diagrams, or a
// null cache when the directory is unavailable.
func newArtifactCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/mockup/).
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
