package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/infraflow-ai/infraflow/pkg/logging"
)

// reloadDelay is how long the file must stay quiet before it is re-read.
// Writers truncate before writing, so the first event often sees an empty file.
var reloadDelay = 200 * time.Millisecond

// Watch reloads the global configuration whenever the config file changes
// and passes the new value to onChange. It blocks until ctx is done.
//
// The directory is watched rather than the file, so editors that replace the
// file through a rename are still picked up. An empty file is ignored until
// it has content again.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	log := logging.Component("config")

	timer := time.NewTimer(reloadDelay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(reloadDelay)
		case <-timer.C:
			if info, err := os.Stat(path); err != nil || info.Size() == 0 {
				log.Debug().Str("file", path).Msg("config file empty or missing, waiting for content")
				continue
			}
			cfg, err := Reload()
			if err != nil {
				log.Error().Err(err).Str("file", path).Msg("config reload failed, keeping previous values")
				continue
			}
			log.Info().Str("file", path).Msg("config reloaded")
			if onChange != nil {
				onChange(cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("config watcher error")
		case <-ctx.Done():
			return nil
		}
	}
}
