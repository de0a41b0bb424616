package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beer/pkg/pipeline"
)

// resolveCommand creates the resolve command.
func (c *CLI) resolveCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "resolve NAME",
		Short: "List a package's transitive dependencies",
		Long: `Resolve fetches NAME's manifest and every manifest it depends on, checks
the graph for missing, malformed and cyclic dependencies, and prints each
package with its direct dependencies.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), args[0], refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached manifests")
	c.addRunFlags(cmd)

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, name string, refresh bool) error {
	src, err := c.newSource(refresh)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(src, nil, nil, nil, c.Logger)

	spinner := newSpinner(ctx, os.Stderr, "Resolving "+name+"...")
	spinner.Start()
	res, err := runner.Resolve(ctx, name, c.pipelineOptions())
	spinner.Stop()
	if err != nil {
		return c.installExit(res, err)
	}

	g := res.Graph
	printSuccess("Resolved %s", StyleHighlight.Render(name))
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, 0)
	for _, n := range g.Names() {
		ds := g.Dependencies(n)
		value := StyleDim.Render("no dependencies")
		if len(ds) > 0 {
			value = strings.Join(ds, ", ")
		}
		printKeyValue(n, value)
	}
	if c.Logger.GetLevel() <= LogDebug {
		for _, n := range g.Names() {
			printDetail("%s fingerprint %.12s", n, g.Fingerprint(n))
		}
	}
	return nil
}
