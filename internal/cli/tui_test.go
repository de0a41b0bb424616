package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/beer/pkg/install"
	"github.com/matzehuels/beer/pkg/plan"
)

func TestInstallModelTracksEvents(t *testing.T) {
	p := &plan.InstallPlan{Groups: [][]string{{"lib-a", "lib-b"}, {"web"}}}
	cancelled := false
	var m tea.Model = NewInstallModel("web", p, func() { cancelled = true })

	events := []install.Event{
		{Kind: install.PackageStarted, Package: "lib-a"},
		{Kind: install.CommandStarted, Package: "lib-a", Command: "make"},
		{Kind: install.PackageFinished, Package: "lib-a"},
		{Kind: install.PackageFinished, Package: "lib-b", AlreadyInstalled: true},
		{Kind: install.PackageStarted, Package: "web"},
		{Kind: install.CommandFailed, Package: "web", Command: "make", ExitCode: 2},
		{Kind: install.PackageFailed, Package: "web", Reason: "COMMAND_FAILED"},
	}
	for _, e := range events {
		m, _ = m.Update(eventMsg(e))
	}

	im := m.(InstallModel)
	if finished, total := im.Counts(); finished != 3 || total != 3 {
		t.Errorf("Counts() = %d/%d, want 3/3", finished, total)
	}
	tests := []struct {
		name string
		want packageState
	}{
		{"lib-a", stateDone},
		{"lib-b", stateAlready},
		{"web", stateFailed},
	}
	for _, tt := range tests {
		if got := im.States[tt.name]; got != tt.want {
			t.Errorf("state[%s] = %d, want %d", tt.name, got, tt.want)
		}
	}
	if im.Groups["web"] != 1 {
		t.Errorf("group of web = %d", im.Groups["web"])
	}

	view := im.View()
	for _, want := range []string{"lib-a", "lib-b", "web", "already installed", "COMMAND_FAILED"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !cancelled {
		t.Error("ctrl+c did not cancel the run")
	}
	if !strings.Contains(m.View(), "cancelling") {
		t.Error("view does not show cancellation")
	}

	_, cmd := m.Update(finishedMsg{})
	if cmd == nil {
		t.Fatal("finishedMsg should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("finishedMsg did not return tea.Quit")
	}
}

func TestInstallModelSkipDetail(t *testing.T) {
	p := &plan.InstallPlan{Groups: [][]string{{"lib"}, {"app"}}}
	m := NewInstallModel("app", p, nil)
	m.apply(install.Event{Kind: install.PackageSkipped, Package: "app", Reason: "failed_dependency", Cause: "lib"})

	if got := m.Details["app"]; got != "failed_dependency: lib" {
		t.Errorf("detail = %q", got)
	}
	if m.icon(m.States["app"]) != iconWarning {
		t.Error("skipped package should show a warning icon")
	}
}
