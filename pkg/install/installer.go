package install

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/beer/pkg/checkout"
	"github.com/matzehuels/beer/pkg/deps"
	"github.com/matzehuels/beer/pkg/errors"
	"github.com/matzehuels/beer/pkg/execx"
	"github.com/matzehuels/beer/pkg/ledger"
	"github.com/matzehuels/beer/pkg/observability"
	"github.com/matzehuels/beer/pkg/plan"
	"github.com/matzehuels/beer/pkg/store"
)

// Installer installs planned packages using its collaborators.
type Installer struct {
	Cloner   checkout.Cloner
	Runner   execx.Runner
	Store    store.Store // Installed markers; nil keeps markers in memory
	Reporter Reporter    // nil discards events
}

// New creates an Installer.
func New(cloner checkout.Cloner, runner execx.Runner, st store.Store, reporter Reporter) *Installer {
	return &Installer{Cloner: cloner, Runner: runner, Store: st, Reporter: reporter}
}

// run holds the state of one Install call.
type run struct {
	cloner   checkout.Cloner
	runner   execx.Runner
	store    store.Store
	reporter Reporter
	g        *deps.Graph
	ledger   *ledger.Ledger
	opts     Options
}

// Install executes p against g. The returned summary is always non-nil when
// installation started, including when ctx was cancelled. Package failures
// are reported in the summary, not as an error.
func (in *Installer) Install(ctx context.Context, g *deps.Graph, p *plan.InstallPlan, opts Options) (*ledger.Summary, error) {
	l, err := in.Run(ctx, g, p, opts)
	if l == nil {
		return nil, err
	}
	return l.Summary(), err
}

// Run is Install, returning the full ledger of the run instead of its
// summary.
func (in *Installer) Run(ctx context.Context, g *deps.Graph, p *plan.InstallPlan, opts Options) (*ledger.Ledger, error) {
	opts = opts.WithDefaults()
	if opts.Root == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "install root must not be empty")
	}
	if in.Cloner == nil || in.Runner == nil {
		return nil, errors.New(errors.ErrCodeInternal, "installer requires a cloner and a runner")
	}
	st, reporter := in.Store, in.Reporter
	if st == nil {
		st = store.NewMemoryStore()
	}
	if reporter == nil {
		reporter = NopReporter{}
	}

	lock, err := lockRoot(opts.Root)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock()

	r := &run{
		cloner:   in.Cloner,
		runner:   in.Runner,
		store:    st,
		reporter: reporter,
		g:        g,
		ledger:   ledger.New(opts.RunID),
		opts:     opts,
	}
	for _, name := range p.Flatten() {
		if !g.Has(name) {
			return nil, errors.New(errors.ErrCodeFatalPlanInvariant, "planned package %q is not in the graph", name)
		}
		if err := r.ledger.Add(name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFatalPlanInvariant, err, "build ledger")
		}
	}

	hooks := observability.Pipeline()
	hooks.OnInstallStart(ctx, g.Root(), p.Len())
	start := time.Now()

	for i, group := range p.Groups {
		if ctx.Err() != nil {
			break
		}
		r.report(Event{Kind: GroupStarted, Group: i})
		r.installGroup(ctx, i, group)
	}

	err = ctx.Err()
	if err != nil {
		for _, name := range r.ledger.SkipPending(ledger.ReasonCancelled) {
			r.report(Event{Kind: PackageSkipped, Package: name, Reason: ledger.ReasonCancelled})
		}
	}

	summary := r.ledger.Summary()
	hooks.OnInstallComplete(ctx, g.Root(), len(summary.Succeeded), len(summary.Failed), len(summary.Skipped), time.Since(start), err)
	return r.ledger, err
}

func (r *run) installGroup(ctx context.Context, index int, group []string) {
	var eg errgroup.Group
	eg.SetLimit(r.opts.Jobs)
	for _, name := range group {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			r.installOne(ctx, index, name)
			return nil
		})
	}
	_ = eg.Wait()
}

func (r *run) installOne(ctx context.Context, group int, name string) {
	if st, _ := r.ledger.Status(name); st != ledger.Pending {
		return
	}
	if ctx.Err() != nil {
		return
	}

	// Steps already started run to completion; cancellation is observed
	// between steps.
	stepCtx := context.WithoutCancel(ctx)

	pkg, _ := r.g.Package(name)
	fingerprint := r.g.Fingerprint(name)

	// An unreadable marker store means a reinstall; the lookup error rides
	// on the PackageStarted event.
	var lookupErr error
	if !r.opts.Force {
		m, err := r.store.Get(stepCtx, name)
		switch {
		case err != nil:
			lookupErr = fmt.Errorf("read marker: %w", err)
		case m != nil && m.Fingerprint == fingerprint:
			if r.ledger.Succeed(name, true) == nil {
				r.report(Event{Kind: PackageFinished, Group: group, Package: name, AlreadyInstalled: true})
			}
			return
		}
	}

	if err := r.ledger.Start(name); err != nil {
		return
	}
	r.report(Event{Kind: PackageStarted, Group: group, Package: name, Err: lookupErr})

	target := filepath.Join(r.opts.Root, name)
	if err := r.cloner.Clone(stepCtx, pkg.GitRepository, target); err != nil {
		r.fail(group, name, errors.ErrCodeCloneFailed, err)
		return
	}

	cmds, err := pkg.Formula.Commands()
	if err != nil {
		r.fail(group, name, errors.ErrCodeCommandFailed, err)
		return
	}

	var firstFailure error
	failed := 0
	for _, cmd := range cmds {
		if ctx.Err() != nil {
			r.fail(group, name, errors.ErrCodeCancelled, ctx.Err())
			return
		}
		r.report(Event{Kind: CommandStarted, Group: group, Package: name, Command: cmd.Raw})

		res, runErr := r.runner.Run(stepCtx, cmd, target, r.opts.CaptureOutput)
		cr := ledger.CommandResult{Command: cmd.Raw, ExitCode: res.ExitCode}
		if r.opts.CaptureOutput {
			cr.Output = string(res.Output)
		}
		if runErr != nil {
			cr.Err = runErr.Error()
		}
		_ = r.ledger.AddCommand(name, cr)

		if !cr.Failed() {
			continue
		}
		failed++
		if firstFailure == nil {
			firstFailure = commandError(cmd.Raw, res.ExitCode, runErr)
		}
		r.report(Event{
			Kind: CommandFailed, Group: group, Package: name, Command: cmd.Raw,
			ExitCode: res.ExitCode, Output: res.Output, Err: runErr,
		})
		if r.opts.CommandPolicy == PolicyAbort {
			break
		}
	}

	if failed > 0 {
		r.fail(group, name, errors.ErrCodeCommandFailed,
			fmt.Errorf("%d of %d commands failed: %w", failed, len(cmds), firstFailure))
		return
	}

	markerErr := r.store.Put(stepCtx, &store.Marker{
		Name:        name,
		Fingerprint: fingerprint,
		Source:      pkg.GitRepository,
		Dir:         target,
		InstalledAt: time.Now().UTC(),
		RunID:       r.ledger.RunID(),
	})
	if r.ledger.Succeed(name, false) == nil {
		r.report(Event{Kind: PackageFinished, Group: group, Package: name, Err: markerErr})
	}
}

// fail records name as failed and skips everything that depends on it.
// A cancelled package leaves its dependents to the final cancellation sweep.
func (r *run) fail(group int, name string, code errors.Code, cause error) {
	if err := r.ledger.Fail(name, string(code), cause); err != nil {
		return
	}
	r.report(Event{Kind: PackageFailed, Group: group, Package: name, Reason: string(code), Err: cause})
	if code == errors.ErrCodeCancelled {
		return
	}
	for _, dep := range r.ledger.SkipDependents(r.g, name) {
		r.report(Event{Kind: PackageSkipped, Package: dep, Reason: ledger.ReasonFailedDependency, Cause: name})
	}
}

func (r *run) report(e Event) {
	e.Time = time.Now()
	r.reporter.Report(e)
}

func commandError(raw string, code int, err error) error {
	if err != nil {
		return fmt.Errorf("%q: %w", raw, err)
	}
	return fmt.Errorf("%q exited with status %d", raw, code)
}
