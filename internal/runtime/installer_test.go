package runtime

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallStreamsDriverOutput(t *testing.T) {
	orig := installFunc
	defer func() { installFunc = orig }()

	installFunc = func(opts ...*playwright.RunOptions) error {
		require.Len(t, opts, 1)
		assert.Equal(t, []string{"chromium"}, opts[0].Browsers)
		fmt.Fprintln(opts[0].Stdout, "Downloading Chromium 131.0.6778.33")
		fmt.Fprintln(opts[0].Stdout, "Chromium downloaded to /cache/ms-playwright/chromium-1181")
		return nil
	}

	progressChan := make(chan ProgressMsg, 32)
	err := NewInstaller("chromium").Install(context.Background(), progressChan)
	require.NoError(t, err)
	close(progressChan)

	var steps []string
	for msg := range progressChan {
		steps = append(steps, msg.Step)
	}

	assert.Equal(t, "preparing", steps[0])
	assert.Contains(t, steps, "Downloading Chromium 131.0.6778.33")
	assert.Equal(t, "install complete", steps[len(steps)-1])
}

func TestInstallFailure(t *testing.T) {
	orig := installFunc
	defer func() { installFunc = orig }()

	installFunc = func(opts ...*playwright.RunOptions) error {
		return errors.New("network timeout")
	}

	progressChan := make(chan ProgressMsg, 32)
	err := NewInstaller("chromium").Install(context.Background(), progressChan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network timeout")
}

func TestInstallNilProgressChannel(t *testing.T) {
	orig := installFunc
	defer func() { installFunc = orig }()

	installFunc = func(opts ...*playwright.RunOptions) error { return nil }

	err := NewInstaller("firefox").Install(context.Background(), nil)
	assert.NoError(t, err)
}
