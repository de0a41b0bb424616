// Package pipeline runs the resolve -> plan -> install pipeline for beer.
//
// This package wires the library packages together so the CLI (and any
// other front end) shares one implementation of a run.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Resolve: fetch manifests and build the dependency graph ([deps])
//  2. Plan: order the graph into install groups ([plan])
//  3. Install: clone and build each package in plan order ([install])
//
// Resolution errors abort the run before anything is installed. Install
// failures are localized to the failing package and its dependents and are
// reported in the summary.
//
// # Usage
//
//	runner := pipeline.NewRunner(src, st, checkout.NewGitCloner(""), &execx.ExecRunner{}, logger)
//	result, err := runner.Install(ctx, "web", pipeline.Options{
//	    Install: install.Options{Root: "/opt/beer"},
//	})
//	os.Exit(pipeline.ExitCode(result, err))
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/beer/pkg/deps"
	beererrors "github.com/matzehuels/beer/pkg/errors"
	"github.com/matzehuels/beer/pkg/install"
	"github.com/matzehuels/beer/pkg/ledger"
	"github.com/matzehuels/beer/pkg/plan"
)

// Exit codes returned by ExitCode.
const (
	ExitOK          = 0   // Every package succeeded
	ExitFailed      = 1   // One or more packages failed or were skipped
	ExitResolution  = 2   // Resolution aborted the run
	ExitInterrupted = 130 // The run was cancelled
)

// Options configures one pipeline run.
type Options struct {
	Install        install.Options
	ResolveWorkers int  // Concurrent manifest fetches (default: deps.DefaultWorkers)
	DryRun         bool // Resolve and plan, but install nothing
}

// Validate checks the options that the library packages cannot check on
// their own.
func (o Options) Validate() error {
	if !o.DryRun && o.Install.Root == "" {
		return beererrors.New(beererrors.ErrCodeInvalidInput, "install root must be set")
	}
	if o.Install.Jobs < 0 || o.ResolveWorkers < 0 {
		return beererrors.New(beererrors.ErrCodeInvalidInput, "concurrency limits must not be negative")
	}
	if _, err := install.ParsePolicy(string(o.Install.CommandPolicy)); err != nil {
		return beererrors.Wrap(beererrors.ErrCodeInvalidInput, err, "invalid options")
	}
	return nil
}

// Result holds everything a run produced. Fields are filled as far as the
// run got: a resolution failure leaves Plan and Summary nil.
type Result struct {
	Graph   *deps.Graph
	Plan    *plan.InstallPlan
	Summary *ledger.Summary
	Ledger  *ledger.Ledger
	Stats   Stats
}

// Stats contains timing and size information for a run.
type Stats struct {
	ResolveTime time.Duration
	PlanTime    time.Duration
	InstallTime time.Duration
	NodeCount   int
	EdgeCount   int
	GroupCount  int
}

// ExitCode maps the outcome of a run to a process exit status.
func ExitCode(res *Result, err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case beererrors.IsResolution(err):
		return ExitResolution
	case err != nil:
		return ExitFailed
	case res != nil && res.Summary != nil && !res.Summary.OK():
		return ExitFailed
	default:
		return ExitOK
	}
}

// Describe renders a one-line account of the outcome for logs.
func (r *Result) Describe() string {
	if r == nil || r.Graph == nil {
		return "nothing resolved"
	}
	if r.Summary == nil {
		return fmt.Sprintf("%d packages in %d groups", r.Stats.NodeCount, r.Stats.GroupCount)
	}
	return r.Summary.String()
}
