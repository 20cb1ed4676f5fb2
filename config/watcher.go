// Copyright 2026 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period Watch waits for after the last change.
const DefaultDebounce = 100 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
	logger   *slog.Logger
	ready    chan<- struct{}
}

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithLogger sets the logger for reload diagnostics.
func WithLogger(logger *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithReady closes ch once the watch is established.
func WithReady(ch chan<- struct{}) WatchOption {
	return func(c *watchConfig) {
		c.ready = ch
	}
}

// Watch reloads the file at path whenever it changes and passes each valid
// configuration to onChange. Invalid files are logged and skipped so the
// previous configuration stays in effect. Watch blocks until ctx is done.
//
// The parent directory is watched so that editors that replace the file by
// rename are noticed. onChange runs on the watching goroutine.
func Watch(ctx context.Context, path string, onChange func(*Config), opts ...WatchOption) error {
	if onChange == nil {
		return errors.New("watch config: nil callback")
	}
	cfg := watchConfig{debounce: DefaultDebounce, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path %q: %w", path, err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %q: %w", filepath.Dir(abs), err)
	}
	cfg.logger.Debug("config watcher started", slog.String("path", abs))
	if cfg.ready != nil {
		close(cfg.ready)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("watch config: events channel closed")
			}
			if filepath.Clean(event.Name) != abs || event.Op == fsnotify.Chmod {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(cfg.debounce)
			} else {
				timer.Reset(cfg.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			next, err := Load(abs)
			if err != nil {
				cfg.logger.Error("config reload failed", slog.String("path", abs), slog.Any("error", err))
				continue
			}
			cfg.logger.Info("config reloaded", slog.String("path", abs))
			onChange(next)

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("watch config: errors channel closed")
			}
			cfg.logger.Warn("config watcher error", slog.Any("error", err))
		}
	}
}
