package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/matzehuels/beer/internal/config"
	"github.com/matzehuels/beer/pkg/buildinfo"
	"github.com/matzehuels/beer/pkg/cache"
	"github.com/matzehuels/beer/pkg/checkout"
	"github.com/matzehuels/beer/pkg/execx"
	"github.com/matzehuels/beer/pkg/install"
	"github.com/matzehuels/beer/pkg/observability"
	"github.com/matzehuels/beer/pkg/pipeline"
	"github.com/matzehuels/beer/pkg/registry"
	"github.com/matzehuels/beer/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// flagKeys maps command-line flags to the config keys they override. Flags
// are bound only on the commands that define them.
var flagKeys = map[string]string{
	"registry":  "registry",
	"root":      "root",
	"jobs":      "jobs",
	"workers":   "resolve_workers",
	"policy":    "command_policy",
	"git":       "git",
	"no-cache":  "cache.disabled",
	"store":     "store.backend",
	"store-dir": "store.dir",
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configFile string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the configuration loaded for the running command.
func (c *CLI) Config() config.Config {
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Beer installs packages and their dependencies from git",
		Long:          `Beer resolves a package's dependency graph from a registry of TOML formulas, then clones and builds every package in dependency order.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default: beer.yaml in . or $XDG_CONFIG_HOME/beer)")
	flags.String("registry", "", "registry base URL or local formula directory")
	flags.String("root", "", "install root for package checkouts")

	// Register all subcommands
	root.AddCommand(c.installCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.newCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.statusCommand())
	root.AddCommand(c.uninstallCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig builds the configuration for cmd from defaults, config file,
// environment and the flags cmd actually defines.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	v := config.New(c.configFile)
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		c.SetLogLevel(LogDebug)
	}
	if c.Logger.GetLevel() <= LogDebug {
		observability.LogHooks{Logger: c.Logger}.Register()
	}
	c.cfg = cfg
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	if used := v.ConfigFileUsed(); used != "" {
		c.Logger.Debug("loaded config", "file", used)
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for flag, key := range flagKeys {
		f := flags.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, refresh bool) (*pipeline.Runner, error) {
	src, err := c.newSource(refresh)
	if err != nil {
		return nil, err
	}
	st, err := c.newStore(ctx)
	if err != nil {
		return nil, err
	}
	exec := &execx.ExecRunner{Stdout: os.Stderr, Stderr: os.Stderr}
	return pipeline.NewRunner(src, st, checkout.NewGitCloner(c.cfg.Git), exec, c.Logger), nil
}

// newSource opens the configured registry. HTTP registries are wrapped in
// the manifest cache; local directories are read directly.
func (c *CLI) newSource(refresh bool) (registry.Source, error) {
	if c.cfg.Registry == "" {
		return nil, fmt.Errorf("no registry configured (use --registry or BEER_REGISTRY)")
	}
	if !c.cfg.RegistryIsURL() {
		return registry.NewDirSource(c.cfg.Registry)
	}

	src, err := registry.NewHTTPSource(c.cfg.Registry)
	if err != nil {
		return nil, err
	}
	mc, err := newCache(c.cfg.Cache)
	if err != nil {
		return nil, err
	}
	return registry.NewCachedSource(src, mc, cache.NewDefaultKeyer(), c.cfg.Cache.TTL, refresh), nil
}

func newCache(cfg config.CacheConfig) (cache.Cache, error) {
	if cfg.Disabled || cfg.Dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(cfg.Dir)
}

// newStore opens the configured installed-marker backend.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	sc := c.cfg.Store
	switch sc.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendRedis:
		return store.NewRedisStore(ctx, sc.RedisAddr)
	case config.BackendMongo:
		return store.NewMongoStore(ctx, sc.MongoURI, sc.MongoDB)
	default:
		return store.NewFileStore(sc.Dir)
	}
}

// pipelineOptions builds run options from the loaded configuration.
func (c *CLI) pipelineOptions() pipeline.Options {
	opts := pipeline.Options{ResolveWorkers: c.cfg.ResolveWorkers}
	opts.Install.Root = c.cfg.Root
	opts.Install.Jobs = c.cfg.Jobs
	opts.Install.CommandPolicy = install.Policy(c.cfg.CommandPolicy)
	return opts
}

// =============================================================================
// Exit Status
// =============================================================================

// ExitError carries a process exit status out of a command. main exits with
// Code and prints Err unless it is nil.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }
