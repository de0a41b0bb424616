// Package install executes an install plan.
//
// [Installer.Install] walks the plan group by group. Groups are barriers: a
// group starts only after every package of the previous group has reached a
// final status. Packages of one group run concurrently, at most Jobs at a
// time.
//
// For each package the installer:
//
//  1. Skips it if a dependency already failed (the ledger says Skipped).
//  2. Reports it as already installed if the marker store holds a marker
//     with the same manifest fingerprint, unless Force is set.
//  3. Clones its repository into {Root}/{name}, replacing any stale
//     checkout.
//  4. Runs the formula commands in order inside the checkout.
//
// A package succeeds only if the clone succeeded and every command exited
// zero. A failed package moves all of its still-pending transitive
// dependents to Skipped before they can start, so no dependent is ever
// cloned after its dependency failed.
//
// # Cancellation
//
// When the context is cancelled no further package is started. A clone or
// command already running is allowed to finish; the package it belongs to
// stops at the next step boundary and fails with reason CANCELLED. Every
// package still pending is Skipped with reason "cancelled" and Install
// returns the context's error together with the summary.
package install
