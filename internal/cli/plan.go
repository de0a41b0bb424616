package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beer/pkg/pipeline"
	"github.com/matzehuels/beer/pkg/plan"
)

const (
	formatText = "text"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
)

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var (
		format  string
		output  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "plan NAME",
		Short: "Show the install groups for a package",
		Long: `Plan resolves NAME and prints the groups packages would be installed in.
Packages in one group do not depend on each other and install concurrently.

With --format json the graph and plan are written as a JSON document; with
dot or svg the graph is rendered with one cluster per group.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd.Context(), args[0], format, output, refresh)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json, dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached manifests")
	c.addRunFlags(cmd)

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, name, format, output string, refresh bool) error {
	src, err := c.newSource(refresh)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(src, nil, nil, nil, c.Logger)

	spinner := newSpinner(ctx, os.Stderr, "Resolving "+name+"...")
	spinner.Start()
	res, err := runner.Plan(ctx, name, c.pipelineOptions())
	spinner.Stop()
	if err != nil {
		return c.installExit(res, err)
	}

	var data []byte
	switch strings.ToLower(format) {
	case formatText:
		if output == "" {
			printPlan(res)
			return nil
		}
		data = []byte(planText(res.Plan))
	case formatDOT:
		data = []byte(plan.ToDOT(res.Graph, res.Plan))
	case formatJSON:
		var buf bytes.Buffer
		if err := plan.WriteJSON(res.Graph, res.Plan, &buf); err != nil {
			return err
		}
		data = buf.Bytes()
	case formatSVG:
		data, err = plan.RenderSVG(ctx, plan.ToDOT(res.Graph, res.Plan))
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q (want text, json, dot or svg)", format)
	}

	if output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Wrote plan for %s", name)
	printFile(output)
	return nil
}

// planText renders one line per group.
func planText(p *plan.InstallPlan) string {
	var b strings.Builder
	for i, group := range p.Groups {
		fmt.Fprintf(&b, "%d: %s\n", i, strings.Join(group, " "))
	}
	return b.String()
}

// printPlan prints a styled plan with graph statistics.
func printPlan(res *pipeline.Result) {
	printSuccess("Install plan for %s", StyleHighlight.Render(res.Graph.Root()))
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.GroupCount)
	for i, group := range res.Plan.Groups {
		printKeyValue(fmt.Sprintf("group %d", i), strings.Join(group, ", "))
	}
}
