package install

import (
	"fmt"
	"strings"
)

// DefaultJobs is the default number of packages installed concurrently.
const DefaultJobs = 4

// Policy decides what happens after a formula command fails.
type Policy string

const (
	// PolicyContinue runs the remaining commands of the package anyway.
	PolicyContinue Policy = "continue"
	// PolicyAbort stops the package at its first failing command.
	PolicyAbort Policy = "abort"
)

// ParsePolicy parses a policy name. The empty string means PolicyContinue.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "", PolicyContinue:
		return PolicyContinue, nil
	case PolicyAbort:
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("unknown command policy %q (want continue or abort)", s)
	}
}

// Options configures one install run.
type Options struct {
	Root          string // Directory checkouts are created in
	Jobs          int    // Concurrent packages per group (default: 4)
	Force         bool   // Reinstall packages that are already installed
	CommandPolicy Policy // Behavior after a failing command (default: continue)
	CaptureOutput bool   // Keep command output in the ledger instead of streaming it
	RunID         string // Identifier for the run; random when empty
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Jobs <= 0 {
		opts.Jobs = DefaultJobs
	}
	if opts.CommandPolicy == "" {
		opts.CommandPolicy = PolicyContinue
	}
	return opts
}
