package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the config whenever the file changes on disk and delivers
// each successfully parsed version to onChange. Parse failures keep the last
// good config. Returns when ctx is done.
//
// Editors replace files rather than writing in place, so the watch is on the
// parent directory and filtered by name.
func Watch(ctx context.Context, path string, log *zap.Logger, onChange func(Config)) error {
	if log == nil {
		log = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	base := filepath.Base(path)

	// Rapid successive events (write + chmod + rename) collapse into one
	// reload per quiet period.
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(200 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", zap.Error(err))
		case <-pending:
			pending = nil
			cfg, err := Load(path)
			if err != nil {
				log.Warn("config reload failed, keeping previous", zap.Error(err))
				continue
			}
			log.Info("config reloaded", zap.String("path", path), zap.Int("tracked", len(cfg.Tracked)))
			onChange(cfg)
		}
	}
}
