package heic2jpg

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputPath maps a source file to its mirrored destination: outRoot joined
// with src's path relative to inRoot, with the extension forced to .jpg.
// src must be a descendant of inRoot.
func OutputPath(src string, inRoot string, outRoot string) (string, error) {
	rel, err := filepath.Rel(inRoot, src)
	if err != nil {
		return "", fmt.Errorf("rel: %w", err)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q is not within %q", src, inRoot)
	}

	ext := filepath.Ext(rel)
	return filepath.Join(outRoot, strings.TrimSuffix(rel, ext)+".jpg"), nil
}
