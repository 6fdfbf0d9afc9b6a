package runtime

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectNothingInstalled(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := NewDetectorAt(fs, "/cache", "chromium")

	status := d.Detect()
	assert.False(t, status.PlaywrightInstalled)
	assert.False(t, status.BrowserInstalled)
	assert.True(t, status.NeedsInstall)
	assert.False(t, status.Installed())
}

func TestDetectDriverOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cache/ms-playwright-go/1.52.0/package/cli.js", []byte("#!"), 0o755))

	d := NewDetectorAt(fs, "/cache", "chromium")
	status := d.Detect()

	assert.True(t, status.PlaywrightInstalled)
	assert.False(t, status.BrowserInstalled)
	assert.True(t, status.NeedsInstall)
}

func TestDetectBrowserOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/cache/ms-playwright/chromium-1181", 0o755))

	d := NewDetectorAt(fs, "/cache", "chromium")
	status := d.Detect()

	assert.False(t, status.PlaywrightInstalled)
	assert.True(t, status.BrowserInstalled)
	assert.True(t, status.NeedsInstall)
}

func TestDetectEverythingInstalled(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cache/ms-playwright-go/1.52.0/package/cli.js", []byte("#!"), 0o755))
	require.NoError(t, fs.MkdirAll("/cache/ms-playwright/chromium-1181", 0o755))

	d := NewDetectorAt(fs, "/cache", "chromium")
	status := d.Detect()

	assert.True(t, status.PlaywrightInstalled)
	assert.True(t, status.BrowserInstalled)
	assert.False(t, status.NeedsInstall)
	assert.True(t, status.Installed())
}

func TestDetectWrongBrowser(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/cache/ms-playwright/firefox-1490", 0o755))

	d := NewDetectorAt(fs, "/cache", "chromium")
	status := d.Detect()

	assert.False(t, status.BrowserInstalled)
}

func TestDetectDriverWithoutCLI(t *testing.T) {
	// A version directory without the unpacked CLI is a partial install.
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/cache/ms-playwright-go/1.52.0", 0o755))

	d := NewDetectorAt(fs, "/cache", "chromium")
	status := d.Detect()

	assert.False(t, status.PlaywrightInstalled)
}
