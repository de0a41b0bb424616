package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beer/pkg/formula"
)

// newCommand creates the new command for scaffolding formulas.
func (c *CLI) newCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new [DIR]",
		Short: "Create a starter beer_package.toml",
		Long: `New writes a beer_package.toml into DIR (default: the current directory),
naming the package after the directory. Edit git_repository, dependencies and
install_cmds before publishing it to a registry.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
			path, err := formula.Scaffold(dir)
			if err != nil {
				return err
			}
			printSuccess("Created package manifest")
			printFile(path)
			printNewline()
			printNextStep("Fill in git_repository and install_cmds", "$EDITOR "+path)
			return nil
		},
	}
}
