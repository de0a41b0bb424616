package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/beer/pkg/install"
	"github.com/matzehuels/beer/pkg/pipeline"
	"github.com/matzehuels/beer/pkg/plan"
)

// Progress styles
var (
	progressHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	progressDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// =============================================================================
// InstallModel - Live install progress
// =============================================================================

// packageState is the display state of one package.
type packageState int

const (
	statePending packageState = iota
	stateRunning
	stateDone
	stateAlready
	stateFailed
	stateSkipped
)

type (
	// eventMsg delivers an installer event to the model.
	eventMsg install.Event
	// finishedMsg tells the model the run has returned.
	finishedMsg struct{}
	// tickMsg advances the spinner.
	tickMsg time.Time
)

// InstallModel is the bubbletea model showing one row per planned package.
type InstallModel struct {
	Root    string
	Names   []string
	Groups  map[string]int
	States  map[string]packageState
	Details map[string]string
	Current string // Last command started

	frame       int
	done        bool
	interrupted bool
	cancel      context.CancelFunc
}

// NewInstallModel creates a progress model for p. cancel is called when the
// user interrupts the view.
func NewInstallModel(root string, p *plan.InstallPlan, cancel context.CancelFunc) InstallModel {
	m := InstallModel{
		Root:    root,
		Names:   p.Flatten(),
		Groups:  make(map[string]int),
		States:  make(map[string]packageState),
		Details: make(map[string]string),
		cancel:  cancel,
	}
	for i, group := range p.Groups {
		for _, name := range group {
			m.Groups[name] = i
		}
	}
	return m
}

func (m InstallModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m InstallModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.interrupted && m.cancel != nil {
				m.cancel()
			}
			m.interrupted = true
		}
	case eventMsg:
		m.apply(install.Event(msg))
	case finishedMsg:
		m.done = true
		return m, tea.Quit
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tick()
	}
	return m, nil
}

// apply records e. Maps are shared between model copies, which is fine since
// bubbletea calls Update from a single goroutine.
func (m *InstallModel) apply(e install.Event) {
	switch e.Kind {
	case install.PackageStarted:
		m.States[e.Package] = stateRunning
		if e.Err != nil {
			m.Details[e.Package] = "reinstalling: " + e.Err.Error()
		}
	case install.PackageFinished:
		if e.AlreadyInstalled {
			m.States[e.Package] = stateAlready
			m.Details[e.Package] = "already installed"
		} else {
			m.States[e.Package] = stateDone
			m.Details[e.Package] = ""
		}
	case install.PackageFailed:
		m.States[e.Package] = stateFailed
		m.Details[e.Package] = e.Reason
	case install.PackageSkipped:
		m.States[e.Package] = stateSkipped
		if e.Cause != "" {
			m.Details[e.Package] = e.Reason + ": " + e.Cause
		} else {
			m.Details[e.Package] = e.Reason
		}
	case install.CommandStarted:
		m.Current = e.Package + ": " + e.Command
		m.Details[e.Package] = e.Command
	case install.CommandFailed:
		m.Details[e.Package] = fmt.Sprintf("%s exited %d", e.Command, e.ExitCode)
	}
}

// Counts returns how many packages reached a terminal state and the total.
func (m InstallModel) Counts() (finished, total int) {
	for _, name := range m.Names {
		if m.States[name] >= stateDone {
			finished++
		}
	}
	return finished, len(m.Names)
}

func (m InstallModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Installing " + m.Root))
	b.WriteString("\n")
	finished, total := m.Counts()
	status := fmt.Sprintf("%d/%d done", finished, total)
	if m.interrupted && !m.done {
		status += "  cancelling, waiting for running steps"
	} else if !m.done {
		status += "  ctrl+c cancel"
	}
	b.WriteString(progressDimStyle.Render(status))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.Names))
	for _, name := range m.Names {
		rows = append(rows, []string{
			m.icon(m.States[name]),
			name,
			fmt.Sprintf("%d", m.Groups[name]),
			m.Details[name],
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Group", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return progressHeaderStyle
			}
			if row < 0 || row >= len(m.Names) {
				return lipgloss.NewStyle()
			}
			switch m.States[m.Names[row]] {
			case stateDone, stateAlready:
				return lipgloss.NewStyle().Foreground(colorGreen)
			case stateFailed:
				return lipgloss.NewStyle().Foreground(colorRed)
			case stateSkipped:
				return lipgloss.NewStyle().Foreground(colorYellow)
			case stateRunning:
				return lipgloss.NewStyle().Foreground(colorCyan)
			default:
				return progressDimStyle
			}
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.Current != "" && !m.done {
		b.WriteString(progressDimStyle.Render("  " + m.Current))
		b.WriteString("\n")
	}
	return b.String()
}

func (m InstallModel) icon(s packageState) string {
	switch s {
	case stateRunning:
		return spinnerFrames[m.frame%len(spinnerFrames)]
	case stateDone, stateAlready:
		return iconSuccess
	case stateFailed:
		return iconError
	case stateSkipped:
		return iconWarning
	default:
		return "·"
	}
}

// =============================================================================
// Runner glue
// =============================================================================

// executeWithProgress installs a planned result while rendering the
// progress view on w. The logger is silenced for the duration of the view.
func (c *CLI) executeWithProgress(ctx context.Context, runner *pipeline.Runner, res *pipeline.Result, opts pipeline.Options, w io.Writer) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewInstallModel(res.Graph.Root(), res.Plan, cancel)
	p := tea.NewProgram(model, tea.WithOutput(w))

	runner.Reporter = install.ReporterFunc(func(e install.Event) { p.Send(eventMsg(e)) })
	c.Logger.SetOutput(io.Discard)
	defer c.Logger.SetOutput(os.Stderr)

	errc := make(chan error, 1)
	go func() {
		errc <- runner.Execute(runCtx, res, opts)
		p.Send(finishedMsg{})
	}()

	_, uiErr := p.Run()
	if uiErr != nil {
		cancel()
	}
	err := <-errc
	if err == nil && uiErr != nil {
		return fmt.Errorf("progress view: %w", uiErr)
	}
	return err
}
