package keywords

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher перечитывает реестр, когда файл ключевых слов меняют снаружи.
// Следим за каталогом: редакторы и наш Save заменяют файл через rename.
type Watcher struct {
	fw       *fsnotify.Watcher
	done     chan struct{}
	stopped  bool
	mu       sync.Mutex
	debounce time.Duration
}

func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:       fw,
		done:     make(chan struct{}),
		debounce: 200 * time.Millisecond,
	}, nil
}

// Watch: запускает наблюдение за path и вызывает reg.Reload после паузы в событиях.
func (w *Watcher) Watch(path string, reg *Registry, logger zerolog.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.fw.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	base := filepath.Base(abs)

	go func() {
		var timer *time.Timer
		fire := make(chan struct{}, 1)
		for {
			select {
			case ev, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})

			case <-fire:
				if err := reg.Reload(context.Background()); err != nil {
					logger.Warn().Err(err).Str("file", abs).Msg("keyword reload failed")
				}

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				logger.Warn().Err(err).Msg("keyword watcher")

			case <-w.done:
				if timer != nil {
					timer.Stop()
				}
				return
			}
		}
	}()
	return nil
}

// Stop: безопасно вызывать несколько раз.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}
