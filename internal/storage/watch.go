package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the burst of events a single write produces.
const watchDebounce = 50 * time.Millisecond

// Watch reports keys whose files are created, written, renamed into place,
// or removed, by this or any other process. The watcher stops when ctx is
// done.
func (f *Files) Watch(ctx context.Context, fn func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", f.dir, err)
	}

	go f.processEvents(ctx, watcher, fn)

	f.log.Debug().Str("dir", f.dir).Msg("Watching data directory")
	return nil
}

func (f *Files) processEvents(ctx context.Context, watcher *fsnotify.Watcher, fn func(key string)) {
	defer watcher.Close()

	var (
		mu     sync.Mutex
		timers = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, t := range timers {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			key, ok := keyFromFile(filepath.Base(event.Name))
			if !ok {
				continue
			}
			f.log.Trace().Str("key", key).Str("op", event.Op.String()).Msg("Partition changed")

			mu.Lock()
			if t, exists := timers[key]; exists {
				t.Stop()
			}
			timers[key] = time.AfterFunc(watchDebounce, func() {
				if ctx.Err() != nil {
					return
				}
				fn(key)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			f.log.Warn().Err(err).Msg("Watcher error")
		}
	}
}
