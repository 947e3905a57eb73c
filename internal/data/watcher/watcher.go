// Package watcher observes a session transcript file and reports
// change events, debounced so a burst of appends coalesces into one
// regeneration.
package watcher

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"claude-transcripts/internal/util"
)

// SessionWatcher monitors one transcript file for writes. The parent
// directory is watched rather than the file itself, so atomic
// rename-replace updates are still seen.
type SessionWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	events   chan struct{}
	done     chan struct{}
}

// New starts watching path. debounce bounds how often Events fires;
// zero means 500ms.
func New(path string, debounce time.Duration) (*SessionWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	sw := &SessionWatcher{
		watcher:  fsw,
		path:     abs,
		debounce: debounce,
		events:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go sw.processEvents()
	return sw, nil
}

func (sw *SessionWatcher) processEvents() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if event.Name != sw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(sw.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(sw.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case sw.events <- struct{}{}:
			default:
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("file monitoring error: " + err.Error())

		case <-sw.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Events fires once per debounced batch of changes to the watched file.
func (sw *SessionWatcher) Events() <-chan struct{} {
	return sw.events
}

func (sw *SessionWatcher) Close() error {
	close(sw.done)
	return sw.watcher.Close()
}
