package analysis

import (
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/scribe/internal/core/suggest"
)

// BatchFileMsg is sent when the watched suggestion file changes. Err is set
// when the new contents could not be read or decoded.
type BatchFileMsg struct {
	Path        string
	Suggestions []suggest.Suggestion
	Err         error
}

// Watcher watches a suggestion file and emits BatchFileMsg via tea.Cmd.
// The parent directory is watched so editors that replace the file on save
// are still seen.
type Watcher struct {
	watcher     *fsnotify.Watcher
	path        string
	debounceDur time.Duration
	log         zerolog.Logger
}

// NewWatcher creates a watcher for path. Returns nil if fsnotify fails or
// the directory cannot be watched.
func NewWatcher(path string, log zerolog.Logger) *Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("analysis: failed to create fsnotify watcher")
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	w := &Watcher{
		watcher:     watcher,
		path:        filepath.Clean(abs),
		debounceDur: 100 * time.Millisecond,
		log:         log.With().Str("component", "batch-watcher").Logger(),
	}

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("cannot watch suggestion file")
		_ = watcher.Close()
		return nil
	}

	return w
}

// Start returns a tea.Cmd that blocks until the file changes, then returns
// a BatchFileMsg. The caller must re-invoke Start() after processing the
// message to continue watching.
func (w *Watcher) Start() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}
				if !w.relevant(event) {
					continue
				}

				w.log.Debug().
					Str("path", event.Name).
					Str("op", event.Op.String()).
					Msg("suggestion file event")

				// Debounce: editors often write in several steps.
				debounce := time.NewTimer(w.debounceDur)
			debounceLoop:
				for {
					select {
					case e, ok := <-w.watcher.Events:
						if !ok {
							return nil
						}
						if !w.relevant(e) {
							continue
						}
						if !debounce.Stop() {
							<-debounce.C
						}
						debounce.Reset(w.debounceDur)
					case <-debounce.C:
						break debounceLoop
					}
				}

				sugs, err := LoadFile(w.path)
				return BatchFileMsg{Path: w.path, Suggestions: sugs, Err: err}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				w.log.Error().Err(err).Msg("watcher error")
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}
