package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beer/pkg/cache"
)

// cacheCommand groups the manifest cache subcommands.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached registry manifests",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every cached manifest",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return c.clearCache(c.cfg.Cache.Dir)
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fmt.Fprintln(stdout, c.cfg.Cache.Dir)
				return nil
			},
		},
	)
	return cmd
}

func (c *CLI) clearCache(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		printInfo("Cache is empty")
		return nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return fmt.Errorf("open cache %s: %w", dir, err)
	}
	n, err := fc.Clear()
	if err != nil {
		return err
	}
	c.Logger.Debug("cache cleared", "dir", dir, "entries", n)
	printSuccess("Removed %d cached manifests", n)
	return nil
}
