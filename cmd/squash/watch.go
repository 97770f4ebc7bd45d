package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fsnotify/fsnotify"
)

// Watcher is a wrapper for watching file changes in directories. Writes that leave the content of a file unchanged are not reported.
type Watcher struct {
	watcher   *fsnotify.Watcher
	dirs      map[string]bool
	paths     map[string]bool
	recursive bool

	ignore chan string
	hashes map[string]uint64
}

// NewWatcher returns a new Watcher.
func NewWatcher(recursive bool) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:   watcher,
		dirs:      map[string]bool{},
		paths:     map[string]bool{},
		recursive: recursive,
		ignore:    make(chan string, 64),
		hashes:    map[string]uint64{},
	}, nil
}

// Close closes the watcher, which closes the channel returned by Run.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// IgnoreNext skips the next change of a file, used for files that are written by ourselves.
func (w *Watcher) IgnoreNext(filename string) {
	if filename == "" {
		return
	}
	select {
	case w.ignore <- filepath.Clean(filename):
	default:
	}
}

// AddPath adds a new path to watch.
func (w *Watcher) AddPath(root string) error {
	w.paths[filepath.Clean(root)] = true

	info, err := os.Lstat(root)
	if err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		root = filepath.Dir(root)
		if w.dirs[root] {
			return nil
		}
		if err := w.watcher.Add(root); err != nil {
			return err
		}
		w.dirs[root] = true
	} else if info.Mode().IsDir() && w.recursive {
		return filepath.WalkDir(filepath.Clean(root), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if w.dirs[path] {
					return fs.SkipDir
				}
				if err := w.watcher.Add(path); err != nil {
					return err
				}
				w.dirs[path] = true
			}
			return nil
		})
	}
	return nil
}

// watched returns true if the file is watched, either directly or through a directory.
func (w *Watcher) watched(filename string) bool {
	for path := range w.paths {
		if path == filename {
			return true
		} else if IsDir(path) {
			if rel, err := filepath.Rel(path, filename); err == nil && !strings.HasPrefix(rel, "..") {
				return true
			}
		}
	}
	return false
}

// changed returns true if the content of the file differs from when it was last seen.
func (w *Watcher) changed(filename string) bool {
	b, err := os.ReadFile(filename)
	if err != nil {
		return false
	}
	hash := xxhash.Sum64(b)
	if prev, ok := w.hashes[filename]; ok && prev == hash {
		return false
	}
	w.hashes[filename] = hash
	return true
}

// Run watches for file changes.
func (w *Watcher) Run() chan string {
	files := make(chan string, 10)
	go func() {
		ignored := map[string]bool{}
		changetimes := map[string]time.Time{}
		for w.watcher.Events != nil && w.watcher.Errors != nil {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					w.watcher.Events = nil
					break
				}
			Drain:
				for {
					select {
					case filename := <-w.ignore:
						ignored[filename] = true
					default:
						break Drain
					}
				}

				filename := filepath.Clean(event.Name)
				if !w.watched(filename) {
					break
				}

				if info, err := os.Lstat(filename); err == nil {
					if info.Mode().IsDir() && w.recursive {
						if event.Op&fsnotify.Create == fsnotify.Create {
							if err := w.AddPath(filename); err != nil {
								Error.Println(err)
							}
						}
					} else if info.Mode().IsRegular() {
						if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
							if t, ok := changetimes[filename]; !ok || 100*time.Millisecond < time.Since(t) {
								time.Sleep(100 * time.Millisecond) // wait to make sure write is finished
								changetimes[filename] = time.Now()
								if ignored[filename] {
									delete(ignored, filename)
									w.changed(filename)
								} else if w.changed(filename) {
									files <- filename
								}
							}
						}
					}
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					w.watcher.Errors = nil
					break
				}
				Error.Println(err)
			}
		}
		close(files)
	}()
	return files
}
