package heic2jpg

import (
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// Watch re-runs the batch whenever the input tree changes, so newly copied
// HEIC files are converted as they appear. Existing outputs are skipped on
// each pass, which keeps re-runs cheap. Blocks until the watcher fails or
// its event channel closes.
func Watch(c *Config, w io.Writer) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	defer fw.Close()

	// fsnotify is not recursive: register the root and every subdirectory.
	err = godirwalk.Walk(c.InDir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return fw.Add(path)
			}
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("register watches: %w", err)
	}

	klog.Infof("watching %s ...", c.InDir)

	for {
		select {
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}

			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) {
				continue
			}

			if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
				if err := fw.Add(ev.Name); err != nil {
					klog.Warningf("unable to watch %s: %v", ev.Name, err)
				}
			}

			s, err := Run(c, w)
			if err != nil {
				return err
			}
			klog.Infof("rescan: %d/%d converted, %d errors", s.Done, s.Total, s.Errors)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			klog.Errorf("watch error: %v", err)
		}
	}
}
