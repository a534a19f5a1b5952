package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce 重载去抖窗口。离线任务逐个落盘多份工件，
// 窗口内的连续写事件只触发一次重载，避免读到半套新半套旧的目录。
const DefaultDebounce = 2 * time.Second

// Watcher 监听模型目录的工件变更并热重载快照。
//
// 重载流程：构建全新 Snapshot（含一致性校验）→ 校验通过才 Swap。
// 构建失败时保留旧快照继续服务，只记日志，绝不让坏工件打断在线流量。
type Watcher struct {
	Loader      *Loader
	Recommender *Recommender
	// Debounce 去抖窗口，0 取 DefaultDebounce。
	Debounce time.Duration

	Log zerolog.Logger
}

// Run 阻塞监听直到 ctx 取消。通常放在独立 goroutine 里跑。
func (w *Watcher) Run(ctx context.Context) error {
	if w.Loader == nil || w.Recommender == nil {
		return fmt.Errorf("watcher: missing loader or recommender")
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.Loader.Dir); err != nil {
		return fmt.Errorf("watcher: watch %s: %w", w.Loader.Dir, err)
	}
	w.Log.Info().Str("dir", w.Loader.Dir).Msg("watching model artifacts")

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !interesting(ev) {
				continue
			}
			w.Log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("artifact change detected")
			if timer == nil {
				timer = time.NewTimer(debounce)
				pending = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}

		case <-pending:
			timer = nil
			pending = nil
			w.reload()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Log.Error().Err(err).Msg("watcher error")
		}
	}
}

// interesting 只关心工件文件的写入/创建/改名事件。
func interesting(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	switch filepath.Base(ev.Name) {
	case ALSFile, EmbeddingsFile, IndexFile, CatalogFile:
		return true
	}
	return false
}

func (w *Watcher) reload() {
	snap, err := w.Loader.Load()
	if err != nil {
		w.Log.Error().Err(err).Msg("reload failed, keeping current snapshot")
		return
	}
	w.Recommender.Swap(snap)
	w.Log.Info().Msg("model snapshot reloaded")
}
