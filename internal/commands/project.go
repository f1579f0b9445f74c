package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/cleared-dev/zenledger/internal/config"
	"github.com/cleared-dev/zenledger/internal/importer"
)

// project is a loaded zenledger.yaml plus the importers built from it.
type project struct {
	root     string
	cfg      *config.Config
	registry *importer.Registry
}

// loadProject reads the config named by --config. A missing file yields the
// defaults rooted at the config's directory.
func (a *app) loadProject() (*project, error) {
	path, err := filepath.Abs(a.v.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		a.log.Debug().Str("config", path).Msg("config file not found, using defaults")
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	reg := importer.NewRegistry()
	reg.Register(importer.NewZenMoney(cfg.ImporterOptions(&a.log)))

	return &project{root: filepath.Dir(path), cfg: cfg, registry: reg}, nil
}

// path resolves a configured path against the project root.
func (p *project) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.root, rel)
}

// identify returns the importer for path or an error naming the file.
func (p *project) identify(path string) (importer.Importer, error) {
	imp := p.registry.Identify(path)
	if imp == nil {
		return nil, fmt.Errorf("%s: no importer recognizes this file", path)
	}
	return imp, nil
}
