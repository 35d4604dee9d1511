package config

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before its change is
// reported.
const DefaultDebounce = 100 * time.Millisecond

var defaultWatchExtensions = []string{".yaml", ".yml", ".json", ".tengo"}

type watchSettings struct {
	debounce   time.Duration
	extensions map[string]bool
}

type WatchOption func(*watchSettings)

func WithDebounce(d time.Duration) WatchOption {
	return func(s *watchSettings) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithExtensions replaces the reported file extensions. Matching ignores case.
func WithExtensions(exts ...string) WatchOption {
	return func(s *watchSettings) {
		s.extensions = extensionSet(exts)
	}
}

// Watcher reports edits to files in the watched directories. A burst of
// events for one file is reported once, after the file has been quiet for the
// debounce window.
type Watcher struct {
	fs       *fsnotify.Watcher
	settings watchSettings

	Events chan string
	Errors chan error

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewWatcher(dirs []string, opts ...WatchOption) (*Watcher, error) {
	settings := watchSettings{
		debounce:   DefaultDebounce,
		extensions: extensionSet(defaultWatchExtensions),
	}
	for _, opt := range opts {
		opt(&settings)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:       fw,
		settings: settings,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and closes Events and Errors. It is safe to call
// more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Matches reports whether changes to path are reported.
func (w *Watcher) Matches(path string) bool {
	return w.settings.extensions[strings.ToLower(filepath.Ext(path))]
}

func (w *Watcher) run() {
	defer close(w.done)

	pending := map[string]time.Time{}
	flush := time.NewTicker(max(w.settings.debounce/4, 5*time.Millisecond))
	defer flush.Stop()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 || !w.Matches(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case now := <-flush.C:
			if !w.emitQuiet(pending, now) {
				return
			}
		case <-w.stop:
			return
		}
	}
}

// emitQuiet sends every pending file whose last event is older than the
// debounce window, in name order. It returns false if the watcher stopped.
func (w *Watcher) emitQuiet(pending map[string]time.Time, now time.Time) bool {
	var ready []string
	for name, at := range pending {
		if now.Sub(at) >= w.settings.debounce {
			ready = append(ready, name)
		}
	}
	slices.Sort(ready)
	for _, name := range ready {
		delete(pending, name)
		select {
		case w.Events <- name:
		case <-w.stop:
			return false
		}
	}
	return true
}

// IsWatchedFile reports whether a path is a settings, level or scenario file,
// the extensions a Watcher reports by default.
func IsWatchedFile(path string) bool {
	return slices.Contains(defaultWatchExtensions, strings.ToLower(filepath.Ext(path)))
}

func extensionSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}
