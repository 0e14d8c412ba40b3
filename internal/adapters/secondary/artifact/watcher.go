package artifact

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watcher reloads the active model when a new version lands in the model
// directory. fsnotify is not recursive, so newly created version directories
// are added to the watch list as they appear.
type Watcher struct {
	dir      string
	onChange func()
	debounce time.Duration
}

func NewWatcher(dir string, onChange func()) *Watcher {
	return &Watcher{dir: dir, onChange: onChange, debounce: 500 * time.Millisecond}
}

// Run blocks until ctx is done. Events are debounced so a multi-file artifact
// copy triggers a single reload.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return err
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				// Best effort: the new entry may be a version directory.
				if err := fsw.Add(ev.Name); err != nil {
					log.WithError(err).WithField("path", ev.Name).Debug("watch new entry")
				}
			}
			if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Rename) {
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(w.debounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("model watcher error")
		case <-fire:
			log.WithField("dir", w.dir).Info("model directory changed, reloading")
			w.onChange()
		}
	}
}
