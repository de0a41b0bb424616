package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/beer/pkg/ledger"
)

// stdout receives all user-facing output. Logs go to stderr.
var stdout io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
	StyleError     = lipgloss.NewStyle().Foreground(colorRed)

	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
)

// status line prefixes
var (
	markSuccess = StyleSuccess.Render(iconSuccess)
	markError   = StyleError.Render(iconError)
	markWarning = StyleWarning.Render(iconWarning)
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
)

func writeLine(parts ...string) {
	fmt.Fprintln(stdout, strings.Join(parts, " "))
}

func printSuccess(format string, args ...any) {
	writeLine(markSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	writeLine(markError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	writeLine(markWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	writeLine(markInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	writeLine(" ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written file.
func printFile(path string) {
	writeLine(" ", StyleDim.Render("→"), StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	writeLine(styleKey.Render(key), StyleValue.Render(value))
}

// printNextStep suggests a command to run after this one.
func printNextStep(description, cmd string) {
	writeLine(StyleDim.Render(description+":"), styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(stdout) }

// printStats prints "N packages · E edges · G groups", omitting zero counts
// after the first.
func printStats(nodes, edges, groups int) {
	parts := []string{fmt.Sprintf("%d packages", nodes)}
	if edges > 0 {
		parts = append(parts, fmt.Sprintf("%d edges", edges))
	}
	if groups > 0 {
		parts = append(parts, fmt.Sprintf("%d groups", groups))
	}
	writeLine(" ", StyleDim.Render(strings.Join(parts, " · ")))
}

// printSummary reports every package that did not succeed, then one
// closing line for the run.
func printSummary(s *ledger.Summary) {
	for _, e := range s.Failed {
		printError("%s %s", StyleValue.Render(e.Name), StyleDim.Render(e.Reason))
		if e.Cause != "" {
			printDetail("%s", e.Cause)
		}
	}
	for _, e := range s.Skipped {
		why := e.Reason
		if e.Cause != "" {
			why += ": " + e.Cause
		}
		printWarning("%s skipped (%s)", e.Name, why)
	}

	fresh := len(s.Succeeded) - s.AlreadyInstalled()
	switch {
	case !s.OK():
		printError("%s", s.String())
	case fresh == 0:
		printSuccess("All %d packages already installed", len(s.Succeeded))
	default:
		printSuccess("Installed %d packages", fresh)
	}
}
