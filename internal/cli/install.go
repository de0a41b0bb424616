package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beer/pkg/pipeline"
)

// installOpts holds the install command's own flags. Flags shared with the
// configuration (jobs, policy, ...) are read through viper.
type installOpts struct {
	force     bool
	dryRun    bool
	capture   bool
	tui       bool
	refresh   bool
	ledgerOut string
}

// installCommand creates the install command.
func (c *CLI) installCommand() *cobra.Command {
	var opts installOpts

	cmd := &cobra.Command{
		Use:   "install NAME",
		Short: "Install a package and all of its dependencies",
		Long: `Install resolves NAME's dependency graph from the registry, orders it into
install groups, and installs every package: its repository is cloned into
<root>/<name> and its formula's install commands run inside the checkout.

Dependencies always install before their dependents. When a package fails,
everything that depends on it is skipped; unrelated packages still install.
Packages already installed from the same manifest are not reinstalled unless
--force is given.`,
		Example: `  # Install from a remote registry
  beer install web --registry https://formulas.example.com

  # Show what would be installed
  beer install web --dry-run

  # Stop each package at its first failing command
  beer install web --policy abort --ledger-out run.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInstall(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "reinstall packages that are already installed")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "resolve and plan, but install nothing")
	cmd.Flags().BoolVar(&opts.capture, "capture", false, "record command output in the ledger instead of streaming it")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show a live progress view")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached manifests")
	cmd.Flags().StringVar(&opts.ledgerOut, "ledger-out", "", "write the run ledger as JSON to this file")
	c.addRunFlags(cmd)
	c.addStoreFlags(cmd)
	cmd.Flags().IntP("jobs", "j", 0, "packages installed concurrently per group (default 4)")
	cmd.Flags().String("policy", "", "after a failing command: continue or abort (default continue)")
	cmd.Flags().String("git", "", "git executable (default git)")

	return cmd
}

// addRunFlags registers the flags every resolving command shares.
func (c *CLI) addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int("workers", 0, "concurrent manifest fetches (default 8)")
	cmd.Flags().Bool("no-cache", false, "disable the manifest cache")
}

// addStoreFlags registers the installed-marker store flags.
func (c *CLI) addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "", "marker store backend: file, memory, redis or mongo")
	cmd.Flags().String("store-dir", "", "directory for the file marker store")
}

func (c *CLI) runInstall(ctx context.Context, name string, opts installOpts) error {
	runner, err := c.newRunner(ctx, opts.refresh)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := c.pipelineOptions()
	popts.DryRun = opts.dryRun
	popts.Install.Force = opts.force
	popts.Install.CaptureOutput = opts.capture || opts.tui
	if err := popts.Validate(); err != nil {
		return err
	}

	start := time.Now()
	res, err := runner.Plan(ctx, name, popts)
	if err != nil {
		return c.installExit(res, err)
	}
	logElapsed(c.Logger, start, "planned", "root", name, "plan", res.Describe())

	if opts.dryRun {
		printPlan(res)
		return nil
	}

	if opts.tui {
		err = c.executeWithProgress(ctx, runner, res, popts, os.Stderr)
	} else {
		err = runner.Execute(ctx, res, popts)
	}

	if opts.ledgerOut != "" && res.Ledger != nil {
		if saveErr := res.Ledger.Save(opts.ledgerOut); saveErr != nil {
			c.Logger.Error("write ledger", "path", opts.ledgerOut, "err", saveErr)
		} else {
			printFile(opts.ledgerOut)
		}
	}
	if res.Summary != nil {
		printSummary(res.Summary)
	}
	return c.installExit(res, err)
}

// installExit converts a run outcome into the error main exits with.
func (c *CLI) installExit(res *pipeline.Result, err error) error {
	code := pipeline.ExitCode(res, err)
	switch {
	case code == pipeline.ExitOK:
		return nil
	case errors.Is(err, context.Canceled):
		return err
	default:
		return &ExitError{Code: code, Err: err}
	}
}
