package loader

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// watchDebounce coalesces the burst of events editors emit for a single save.
const watchDebounce = 50 * time.Millisecond

func (l *loader) Watch(ctx context.Context, path string, onChange func(*Asset, error)) error {
	if _, err := FormatFromPath(path); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}

	// Watch the directory: editors often replace the file instead of writing in place,
	// which drops a watch held on the file itself.
	dir := filepath.Dir(filepath.Clean(path))
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "failed to watch %s", dir)
	}

	go l.watchLoop(ctx, watcher, path, onChange)
	log.Printf("[Loader] watching %q for changes", path)
	return nil
}

// watchLoop reloads path after each settled burst of write/create events until ctx is done.
func (l *loader) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, onChange func(*Asset, error)) {
	defer watcher.Close()

	target := filepath.Clean(path)
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = time.After(watchDebounce)

		case <-pending:
			pending = nil
			asset, err := l.Reload(path)
			if err != nil {
				log.Printf("[Loader] reload of %q failed, keeping previous asset: %v", path, err)
			}
			if onChange != nil {
				onChange(asset, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[Loader] watcher error: %v", err)
		}
	}
}
