package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

//reloadDebounce collapses the burst of events editors emit on save
const reloadDebounce = 200 * time.Millisecond

//Watch reloads path whenever it changes and delivers each successfully parsed
//configuration on the returned channel. A reload that fails to parse is logged
//and skipped. The channel holds only the newest configuration and closes when
//ctx is done.
func Watch(ctx context.Context, path string, logger *slog.Logger) (<-chan *Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	//watch the directory, editors replace files by renaming over them
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan *Config, 1)
	log := logger.With("config", abs)

	go func() {
		defer close(out)
		defer watcher.Close()

		debounce := time.NewTimer(reloadDebounce)
		if !debounce.Stop() {
			<-debounce.C
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs || !event.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				debounce.Reset(reloadDebounce)

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("watcher error", "err", err)

			case <-debounce.C:
				cfg, err := Load(abs)
				if err != nil {
					log.Warn("config reload failed", "err", err)
					continue
				}
				//replace an unread configuration with the newer one
				select {
				case <-out:
				default:
				}
				out <- cfg
				log.Info("config reloaded")

			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
