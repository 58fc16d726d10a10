package heic2jpg

import (
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// Find returns every HEIC/HEIF file underneath root, matched by extension
// regardless of case. godirwalk visits entries in sorted order, but callers
// must not depend on any particular ordering.
func Find(root string) ([]string, error) {
	found := []string{}

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				return nil
			}

			switch strings.ToLower(filepath.Ext(path)) {
			case ".heic", ".heif":
				klog.V(1).Infof("found %s", path)
				found = append(found, path)
			}

			return nil
		},
	})

	return found, err
}
