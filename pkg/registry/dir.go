package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/beer/pkg/errors"
	"github.com/matzehuels/beer/pkg/formula"
)

// DirSource reads manifests from a local directory. For a package "web" it
// looks for web/beer_package.toml first, then web.toml.
type DirSource struct {
	dir string
}

// NewDirSource creates a DirSource rooted at dir.
func NewDirSource(dir string) (*DirSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("registry dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("registry dir %s is not a directory", dir)
	}
	return &DirSource{dir: dir}, nil
}

// Name returns the directory path.
func (s *DirSource) Name() string { return s.dir }

// Fetch implements Source.
func (s *DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := errors.ValidatePackageName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	candidates := []string{
		filepath.Join(s.dir, name, formula.ManifestFile),
		filepath.Join(s.dir, name+".toml"),
	}
	for _, path := range candidates {
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		data, err := readManifest(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}
	return nil, notFound(name)
}

var _ Source = (*DirSource)(nil)
