package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beer/pkg/ledger"
)

// statusCommand creates the status command.
func (c *CLI) statusCommand() *cobra.Command {
	var ledgerPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "List installed packages or a saved run ledger",
		Long: `Status lists the packages recorded as installed in the marker store.

With --ledger it instead shows the per-package outcome of a run saved with
install --ledger-out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ledgerPath != "" {
				return c.showLedger(ledgerPath)
			}
			return c.showInstalled(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "show a ledger written by install --ledger-out")
	c.addStoreFlags(cmd)

	return cmd
}

func (c *CLI) showInstalled(ctx context.Context) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	markers, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(markers) == 0 {
		printInfo("No packages installed")
		return nil
	}

	rows := make([][]string, 0, len(markers))
	for _, m := range markers {
		rows = append(rows, []string{
			m.Name,
			m.InstalledAt.Local().Format(time.DateTime),
			shortFingerprint(m.Fingerprint),
			m.Source,
		})
	}
	fmt.Fprintln(stdout, renderTable([]string{"Package", "Installed", "Manifest", "Source"}, rows, nil))
	return nil
}

func (c *CLI) showLedger(path string) error {
	l, err := ledger.Load(path)
	if err != nil {
		return err
	}
	entries := l.Entries()

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		detail := e.Reason
		if e.AlreadyInstalled {
			detail = "already installed"
		}
		if e.Cause != "" {
			detail += ": " + e.Cause
		}
		duration := ""
		if d := e.Duration(); d > 0 {
			duration = d.Round(time.Millisecond).String()
		}
		rows = append(rows, []string{e.Name, e.Status.String(), duration, detail})
	}

	printKeyValue("Run", l.RunID())
	fmt.Fprintln(stdout, renderTable([]string{"Package", "Status", "Time", "Detail"}, rows, func(row int) lipgloss.Style {
		switch entries[row].Status {
		case ledger.Succeeded:
			return StyleSuccess
		case ledger.Failed:
			return StyleError
		case ledger.Skipped:
			return StyleWarning
		default:
			return StyleDim
		}
	}))
	printInfo("%s", l.Summary().String())
	return nil
}

// renderTable renders rows with the shared table look. rowStyle may be nil.
func renderTable(headers []string, rows [][]string, rowStyle func(row int) lipgloss.Style) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if rowStyle == nil || row < 0 || row >= len(rows) {
				return lipgloss.NewStyle()
			}
			return rowStyle(row)
		}).
		Render()
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

// uninstallCommand creates the uninstall command.
func (c *CLI) uninstallCommand() *cobra.Command {
	var keepFiles bool

	cmd := &cobra.Command{
		Use:   "uninstall NAME",
		Short: "Forget an installed package and remove its checkout",
		Long: `Uninstall deletes NAME's installed marker, so the next install rebuilds it,
and removes its checkout directory. Packages depending on NAME are left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUninstall(cmd.Context(), args[0], keepFiles)
		},
	}

	cmd.Flags().BoolVar(&keepFiles, "keep-files", false, "keep the checkout directory")
	c.addStoreFlags(cmd)

	return cmd
}

func (c *CLI) runUninstall(ctx context.Context, name string, keepFiles bool) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	m, err := st.Get(ctx, name)
	if err != nil {
		return err
	}
	if m == nil {
		printWarning("%s is not installed", name)
		return nil
	}

	if !keepFiles {
		dir := m.Dir
		if dir == "" {
			dir = filepath.Join(c.cfg.Root, name)
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove checkout: %w", err)
		}
		printDetail("Removed %s", dir)
	}
	if err := st.Delete(ctx, name); err != nil {
		return err
	}
	printSuccess("Uninstalled %s", name)
	return nil
}
