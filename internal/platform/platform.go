package platform

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/webrig/webrig/internal/errdefs"
)

var SupportedOS = []string{
	"linux",
	"darwin",
}

var SupportedArchitectures = []string{
	"amd64",
	"arm64",
}

type Info struct {
	OS           string
	Architecture string
}

var getOsFunc = getGoos
var getArchFunc = getGoarch

func getGoos() string {
	return runtime.GOOS
}

func getGoarch() string {
	return runtime.GOARCH
}

// Check verifies the host can run the automation runtime and its browser
// binaries before anything tries to install them.
func Check() (*Info, error) {
	goos := getOsFunc()
	if !slices.Contains(SupportedOS, goos) {
		return nil, errdefs.NewCustomError(errdefs.ErrTypeUnsupportedPlatform, fmt.Sprintf("unsupported operating system: %s", goos))
	}

	goarch := getArchFunc()
	if !slices.Contains(SupportedArchitectures, goarch) {
		return nil, errdefs.NewCustomError(errdefs.ErrTypeUnsupportedPlatform, fmt.Sprintf("unsupported architecture: %s", goarch))
	}

	return &Info{OS: goos, Architecture: goarch}, nil
}
