package runtime

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// ProgressMsg is one line of human-readable install progress. No cadence or
// count is guaranteed; consumers keep only the latest message.
type ProgressMsg struct {
	Step       string
	IsComplete bool
	Error      error
}

// installFunc is swapped out in tests.
var installFunc = playwright.Install

// Installer drives the Playwright driver and browser download.
type Installer struct {
	browser string
}

func NewInstaller(browser string) *Installer {
	return &Installer{browser: browser}
}

// Install runs the full install, streaming the driver's output line by line
// into progressChan. The channel is not closed here; callers own it. A nil
// return means both the runtime and the browser are in place.
func (i *Installer) Install(ctx context.Context, progressChan chan<- ProgressMsg) error {
	i.progress(progressChan, "preparing")

	pr, pw := io.Pipe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		scanner := bufio.NewScanner(pr)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			i.progress(progressChan, line)
		}
	}()

	i.progress(progressChan, fmt.Sprintf("installing playwright runtime and %s", i.browser))

	err := installFunc(&playwright.RunOptions{
		Browsers: []string{i.browser},
		Verbose:  true,
		Stdout:   pw,
		Stderr:   pw,
	})

	pw.Close()
	<-done

	if err != nil {
		return fmt.Errorf("playwright install: %w", err)
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	i.progress(progressChan, "install complete")
	return nil
}

func (i *Installer) progress(ch chan<- ProgressMsg, step string) {
	if ch == nil {
		return
	}
	// Drop rather than block if the consumer is behind.
	select {
	case ch <- ProgressMsg{Step: step}:
	default:
	}
}
