// Package appdir resolves the private application data directory that the
// persistence layer writes beneath.
package appdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"

	"github.com/user/eliteos/internal/types"
)

// ErrUnresolved is returned when no data directory can be determined.
var ErrUnresolved = errors.New("app data directory unresolved")

// Static is a DataDirProvider returning a fixed, configured directory.
type Static string

// AppDataDir returns the configured directory as an absolute path.
func (s Static) AppDataDir() (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: no directory configured", ErrUnresolved)
	}
	dir, err := homedir.Expand(string(s))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnresolved, err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnresolved, err)
	}
	return abs, nil
}

// Platform resolves the per-user data directory for an application
// identifier (e.g. "com.eliteos.app"):
//
//   - Linux:   $XDG_DATA_HOME/<id> or ~/.local/share/<id>
//   - macOS:   ~/Library/Application Support/<id>
//   - Windows: %APPDATA%\<id>
type Platform struct {
	Identifier string

	goos   string
	getenv func(string) string
	home   func() (string, error)
}

// NewPlatform returns a Platform provider for the running OS.
func NewPlatform(identifier string) *Platform {
	return &Platform{
		Identifier: identifier,
		goos:       runtime.GOOS,
		getenv:     os.Getenv,
		home:       homedir.Dir,
	}
}

// AppDataDir implements types.DataDirProvider.
func (p *Platform) AppDataDir() (string, error) {
	if p.Identifier == "" {
		return "", fmt.Errorf("%w: empty application identifier", ErrUnresolved)
	}
	root, err := p.dataRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, p.Identifier), nil
}

func (p *Platform) dataRoot() (string, error) {
	switch p.goos {
	case "windows":
		if v := p.getenv("APPDATA"); v != "" {
			return v, nil
		}
		home, err := p.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	case "darwin":
		home, err := p.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	default:
		if v := p.getenv("XDG_DATA_HOME"); v != "" && filepath.IsAbs(v) {
			return v, nil
		}
		home, err := p.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

func (p *Platform) homeDir() (string, error) {
	home, err := p.home()
	if err != nil {
		return "", fmt.Errorf("%w: resolve home directory: %v", ErrUnresolved, err)
	}
	if home == "" {
		return "", fmt.Errorf("%w: empty home directory", ErrUnresolved)
	}
	return home, nil
}

// Compile-time interface compliance checks.
var _ types.DataDirProvider = Static("")
var _ types.DataDirProvider = (*Platform)(nil)
