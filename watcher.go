package facetgo

import (
	"github.com/fsnotify/fsnotify"
)

// watcher invalidates the index when a watched directory changes.
type watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

func newWatcher(dirs []string, onChange func(name string), log *Logger) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &watcher{fsw: fsw, done: make(chan struct{})}
	go w.loop(onChange, log)
	return w, nil
}

func (w *watcher) loop(onChange func(name string), log *Logger) {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				onChange(ev.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn("filesystem watcher error", "error", err)
		}
	}
}

func (w *watcher) close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}
