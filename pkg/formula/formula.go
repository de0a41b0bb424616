package formula

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/shlex"

	"github.com/matzehuels/beer/pkg/cache"
	"github.com/matzehuels/beer/pkg/errors"
)

// ManifestFile is the canonical manifest filename inside a package
// directory or registry entry.
const ManifestFile = "beer_package.toml"

// Command is one install command split into program and arguments.
type Command struct {
	Program string
	Args    []string
	Raw     string // Original command line as written in the manifest
}

// String returns the command line as written in the manifest.
func (c Command) String() string { return c.Raw }

// ParseCommand splits a shell-style command line. Quotes and backslash
// escapes are honored; pipes, redirects and variable expansion are not.
func ParseCommand(raw string) (Command, error) {
	fields, err := shlex.Split(raw)
	if err != nil {
		return Command{}, fmt.Errorf("parse command %q: %w", raw, err)
	}
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	return Command{Program: fields[0], Args: fields[1:], Raw: strings.TrimSpace(raw)}, nil
}

// Formula is the ordered list of install commands of one package.
type Formula struct {
	InstallCmds []string `toml:"install_cmds"`
}

// Commands parses every install command, preserving order.
func (f Formula) Commands() ([]Command, error) {
	cmds := make([]Command, 0, len(f.InstallCmds))
	for i, raw := range f.InstallCmds {
		c, err := ParseCommand(raw)
		if err != nil {
			return nil, fmt.Errorf("install_cmds[%d]: %w", i, err)
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

// Package is a decoded manifest.
type Package struct {
	Name          string   `toml:"name"`
	GitRepository string   `toml:"git_repository"`
	Dependencies  []string `toml:"dependencies"`
	Formula       Formula  `toml:"formula"`
}

// Validate checks the manifest invariants and normalizes the dependency
// list: duplicates are dropped, keeping the first occurrence. A self
// dependency is left in place so the resolver can report it as a cycle.
func (p *Package) Validate() error {
	if err := errors.ValidatePackageName(p.Name); err != nil {
		return err
	}
	if strings.TrimSpace(p.GitRepository) == "" {
		return fmt.Errorf("git_repository must not be empty")
	}

	deps := make([]string, 0, len(p.Dependencies))
	for _, d := range p.Dependencies {
		if err := errors.ValidatePackageName(d); err != nil {
			return fmt.Errorf("dependency %q: %w", d, err)
		}
		if !slices.Contains(deps, d) {
			deps = append(deps, d)
		}
	}
	p.Dependencies = deps

	if _, err := p.Formula.Commands(); err != nil {
		return err
	}
	return nil
}

// DependsOnSelf reports whether the package lists itself as a dependency.
func (p *Package) DependsOnSelf() bool {
	return slices.Contains(p.Dependencies, p.Name)
}

// Fingerprint identifies a manifest revision by the SHA-256 of its raw bytes.
// An installed package whose manifest fingerprint changes is reinstalled.
func Fingerprint(raw []byte) string { return cache.Hash(raw) }
