package formula

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const scaffoldHeader = "# Beer Package Configuration\n"

// placeholderRepository is written into new manifests; it must be edited
// before the package can be published.
const placeholderRepository = "https://github.com/username/repo.git"

// Scaffold writes a starter manifest into dir, naming the package after the
// directory. It refuses to overwrite an existing manifest and returns the
// path written.
func Scaffold(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	name := filepath.Base(abs)
	if name == string(filepath.Separator) || name == "." {
		name = "unknown-package"
	}

	path := filepath.Join(abs, ManifestFile)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}

	data, err := Encode(&Package{
		Name:          name,
		GitRepository: placeholderRepository,
		Dependencies:  []string{},
		Formula:       Formula{InstallCmds: []string{}},
	})
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Encode renders a package as a manifest.
func Encode(p *Package) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(scaffoldHeader)
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}
