package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/beer/pkg/checkout"
	"github.com/matzehuels/beer/pkg/deps"
	beererrors "github.com/matzehuels/beer/pkg/errors"
	"github.com/matzehuels/beer/pkg/execx"
	"github.com/matzehuels/beer/pkg/formula"
	"github.com/matzehuels/beer/pkg/install"
	"github.com/matzehuels/beer/pkg/observability"
	"github.com/matzehuels/beer/pkg/plan"
	"github.com/matzehuels/beer/pkg/registry"
	"github.com/matzehuels/beer/pkg/store"
)

// Runner encapsulates pipeline execution.
//
// The Runner is stateless apart from its collaborators: it doesn't store
// pipeline results. Multiple goroutines can use the same Runner for
// different packages as long as they install into different roots.
type Runner struct {
	Source   registry.Source
	Decoder  formula.Decoder
	Store    store.Store
	Cloner   checkout.Cloner
	Exec     execx.Runner
	Reporter install.Reporter
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil store keeps markers in memory, a nil
// logger uses the default logger, and events are logged through it.
func NewRunner(src registry.Source, st store.Store, cloner checkout.Cloner, exec execx.Runner, logger *log.Logger) *Runner {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source:   src,
		Decoder:  formula.TOMLDecoder{},
		Store:    st,
		Cloner:   cloner,
		Exec:     exec,
		Reporter: install.LogReporter{Logger: logger},
		Logger:   logger,
	}
}

// Resolve builds the dependency graph of root.
func (r *Runner) Resolve(ctx context.Context, root string, opts Options) (*Result, error) {
	result := &Result{}
	start := time.Now()

	resolver := deps.NewResolver(r.Source, r.Decoder, deps.Options{
		Workers: opts.ResolveWorkers,
		Logger:  r.Logger.Debugf,
	})
	g, err := resolver.Resolve(ctx, root)
	if err != nil {
		return result, err
	}
	result.Graph = g
	result.Stats.ResolveTime = time.Since(start)
	result.Stats.NodeCount = g.Len()
	result.Stats.EdgeCount = g.DAG().EdgeCount()

	r.Logger.Info("resolved dependencies",
		"root", root,
		"packages", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.ResolveTime)
	return result, nil
}

// Plan resolves root and orders it into install groups.
func (r *Runner) Plan(ctx context.Context, root string, opts Options) (*Result, error) {
	result, err := r.Resolve(ctx, root, opts)
	if err != nil {
		return result, err
	}

	start := time.Now()
	p, err := plan.Plan(result.Graph)
	result.Stats.PlanTime = time.Since(start)
	groups := 0
	if p != nil {
		groups = len(p.Groups)
	}
	observability.Pipeline().OnPlanComplete(ctx, root, groups, result.Stats.PlanTime, err)
	if err != nil {
		return result, err
	}
	result.Plan = p
	result.Stats.GroupCount = len(p.Groups)

	r.Logger.Debug("planned install", "groups", result.Stats.GroupCount)
	return result, nil
}

// Install runs the complete resolve -> plan -> install pipeline. With
// DryRun set it stops after planning.
func (r *Runner) Install(ctx context.Context, root string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	result, err := r.Plan(ctx, root, opts)
	if err != nil || opts.DryRun {
		return result, err
	}
	return result, r.Execute(ctx, result, opts)
}

// Execute installs a result produced by Plan, filling in its Summary and
// Ledger.
func (r *Runner) Execute(ctx context.Context, result *Result, opts Options) error {
	if result == nil || result.Plan == nil {
		return beererrors.New(beererrors.ErrCodeInvalidInput, "nothing planned to install")
	}

	start := time.Now()
	installer := install.New(r.Cloner, r.Exec, r.Store, r.Reporter)
	l, err := installer.Run(ctx, result.Graph, result.Plan, opts.Install)
	result.Stats.InstallTime = time.Since(start)

	if l != nil {
		summary := l.Summary()
		result.Ledger = l
		result.Summary = summary
		r.Logger.Info("install finished",
			"succeeded", len(summary.Succeeded),
			"failed", len(summary.Failed),
			"skipped", len(summary.Skipped),
			"duration", result.Stats.InstallTime)
	}
	return err
}

// Close releases resources held by the runner (primarily the store).
func (r *Runner) Close() error {
	if r.Store != nil {
		return r.Store.Close()
	}
	return nil
}
