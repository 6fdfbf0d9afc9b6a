package runtime

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// Status is a point-in-time snapshot of what is installed. It is replaced
// wholesale on every detection pass, never mutated in place.
type Status struct {
	PlaywrightInstalled bool `json:"playwrightInstalled"`
	BrowserInstalled    bool `json:"browserInstalled"`
	NeedsInstall        bool `json:"needsInstall"`
}

// Installed reports whether both prerequisites are present.
func (s Status) Installed() bool {
	return !s.NeedsInstall
}

// Detector inspects the Playwright cache directories for the driver runtime
// and the browser binaries.
type Detector struct {
	fs       afero.Fs
	cacheDir string
	browser  string
}

func NewDetector(fs afero.Fs, browser string) *Detector {
	return &Detector{
		fs:       fs,
		cacheDir: defaultCacheDir(),
		browser:  browser,
	}
}

// NewDetectorAt pins the cache directory, used by tests and by the daemon's
// filesystem watcher.
func NewDetectorAt(fs afero.Fs, cacheDir, browser string) *Detector {
	return &Detector{
		fs:       fs,
		cacheDir: cacheDir,
		browser:  browser,
	}
}

func defaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Caches")
	}
	return filepath.Join(home, ".cache")
}

// DriverDir is where playwright-go unpacks the node driver.
func (d *Detector) DriverDir() string {
	return filepath.Join(d.cacheDir, "ms-playwright-go")
}

// BrowsersDir is where Playwright stores downloaded browser builds.
func (d *Detector) BrowsersDir() string {
	return filepath.Join(d.cacheDir, "ms-playwright")
}

// Detect returns a fresh status snapshot.
func (d *Detector) Detect() Status {
	status := Status{
		PlaywrightInstalled: d.driverPresent(),
		BrowserInstalled:    d.browserPresent(),
	}
	status.NeedsInstall = !status.PlaywrightInstalled || !status.BrowserInstalled
	return status
}

// driverPresent checks for an unpacked driver: a versioned directory under
// ms-playwright-go containing the Playwright CLI.
func (d *Detector) driverPresent() bool {
	entries, err := afero.ReadDir(d.fs, d.DriverDir())
	if err != nil {
		return false
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		cli := filepath.Join(d.DriverDir(), entry.Name(), "package", "cli.js")
		if exists, _ := afero.Exists(d.fs, cli); exists {
			return true
		}
	}
	return false
}

// browserPresent checks for a downloaded build of the configured browser.
// Builds land as <browser>-<revision> directories.
func (d *Detector) browserPresent() bool {
	entries, err := afero.ReadDir(d.fs, d.BrowsersDir())
	if err != nil {
		return false
	}

	prefix := d.browser + "-"
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			return true
		}
	}
	return false
}
