package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"countdown/internal/core/model"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads configPath whenever it changes and passes the result to
// onChange until ctx is done. The parent directory is watched so that
// editors replacing the file are noticed. The directory is created when
// missing so a config written after startup is still picked up.
func Watch(ctx context.Context, configPath string, onChange func(model.Settings, error)) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}

	go func() {
		defer watcher.Close()
		target := filepath.Clean(configPath)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				onChange(LoadSettings(configPath))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				onChange(model.DefaultSettings(), fmt.Errorf("config watcher: %w", err))
			}
		}
	}()
	return nil
}
