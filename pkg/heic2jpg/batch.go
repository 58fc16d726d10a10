package heic2jpg

import (
	"fmt"
	"io"
	"path/filepath"

	"k8s.io/klog/v2"
)

// Run converts every HEIC/HEIF file under c.InDir into a mirrored tree under
// c.OutDir, writing one status line per file to w. Per-file failures are
// counted and reported but never abort the batch; only a missing HEIF
// decoder stops a run before any file is touched.
func Run(c *Config, w io.Writer) (Summary, error) {
	if err := heifSupport(); err != nil {
		return Summary{}, fmt.Errorf("HEIC support not available: %w", err)
	}

	files, err := Find(c.InDir)
	if err != nil {
		return Summary{}, fmt.Errorf("find: %w", err)
	}

	klog.Infof("convert: %s -> %s (%d files)", c.InDir, c.OutDir, len(files))

	s := Summary{Total: len(files)}
	for _, src := range files {
		st, err := convertMapped(src, c)
		s.Done++

		name := filepath.Base(src)
		switch st {
		case StatusOK:
			fmt.Fprintf(w, "OK: %s\n", name)
		case StatusSkipped:
			fmt.Fprintf(w, "SKIP (exists): %s\n", name)
		case StatusFailed:
			s.Errors++
			fmt.Fprintf(w, "ERROR: %s (%v)\n", name, err)
		}
	}

	return s, nil
}

// convertMapped maps one source path and converts it. Path-mapping failures
// surface as an ordinary failed attempt rather than aborting the batch.
func convertMapped(src string, c *Config) (Status, error) {
	dest, err := OutputPath(src, c.InDir, c.OutDir)
	if err != nil {
		return StatusFailed, err
	}

	return ConvertOne(src, dest, ConvertOptions{
		Quality:        c.Quality,
		Overwrite:      c.Overwrite,
		FixOrientation: c.FixOrientation,
	})
}
