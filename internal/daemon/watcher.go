package daemon

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/webrig/webrig/internal/log"
)

// startCacheWatcher watches the Playwright cache directories and broadcasts
// a fresh status snapshot when something changes out of band, e.g. the user
// ran "npx playwright install" themselves or deleted a browser build. Events
// are debounced; only meaningful status changes are broadcast.
func (srv *Server) startCacheWatcher() func() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warnf("daemon: cache watcher unavailable: %v", err)
		return func() {}
	}

	// The cache dirs may not exist yet; watch their parent so creation is
	// seen too.
	dirs := map[string]bool{
		filepath.Dir(srv.detector.DriverDir()): true,
		srv.detector.DriverDir():               true,
		srv.detector.BrowsersDir():             true,
	}
	watched := 0
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			log.Debugf("daemon: watch %s: %v", dir, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		watcher.Close()
		return func() {}
	}

	stop := make(chan struct{})
	var stopOnce sync.Once

	go func() {
		const quiet = 500 * time.Millisecond
		var timer *time.Timer
		last := srv.detector.Detect()
		var mu sync.Mutex

		recheck := func() {
			mu.Lock()
			defer mu.Unlock()
			status := srv.detector.Detect()
			if status == last {
				return
			}
			last = status
			log.Debugf("daemon: cache changed, broadcasting status (needsInstall=%v)", status.NeedsInstall)
			srv.broadcastStatus(status)
		}

		for {
			select {
			case <-stop:
				if timer != nil {
					timer.Stop()
				}
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(quiet, recheck)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debugf("daemon: watcher error: %v", err)
			}
		}
	}()

	return func() {
		stopOnce.Do(func() {
			close(stop)
			watcher.Close()
		})
	}
}
