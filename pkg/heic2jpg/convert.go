package heic2jpg

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/jdeng/goheif"
	"k8s.io/klog/v2"
)

// Status is the outcome of a single conversion attempt.
type Status int

const (
	StatusOK Status = iota
	StatusSkipped
	StatusFailed
)

// ConvertOptions control a single conversion.
type ConvertOptions struct {
	Quality        int
	Overwrite      bool
	FixOrientation bool
}

// ConvertOne converts one HEIC/HEIF file to a JPEG at dest, carrying the
// source's EXIF block across. The finished JPEG is assembled fully in memory
// and written with a single WriteFile, so a failed attempt leaves nothing on
// disk. A StatusFailed result comes with an error naming the cause.
func ConvertOne(src string, dest string, o ConvertOptions) (Status, error) {
	if _, err := os.Stat(dest); err == nil && !o.Overwrite {
		return StatusSkipped, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return StatusFailed, fmt.Errorf("mkdir: %w", err)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return StatusFailed, fmt.Errorf("read: %w", err)
	}

	rawExif, err := goheif.ExtractExif(bytes.NewReader(data))
	if err != nil {
		klog.V(1).Infof("no exif block in %s: %v", src, err)
		rawExif = nil
	}

	img, err := goheif.Decode(bytes.NewReader(data))
	if err != nil {
		return StatusFailed, fmt.Errorf("decode: %w", err)
	}

	if o.FixOrientation {
		img = transpose(img, Orientation(rawExif))
		rawExif = FixOrientation(rawExif)
	}

	buf := new(bytes.Buffer)
	enc := imgio.JPEGEncoder(o.Quality)
	if err := enc(buf, clone.AsRGBA(img)); err != nil {
		return StatusFailed, fmt.Errorf("encode: %w", err)
	}

	out := buf.Bytes()
	if len(rawExif) > 0 {
		withExif, err := attachExif(out, rawExif)
		if err != nil {
			klog.Warningf("writing %s without exif: %v", dest, err)
		} else {
			out = withExif
		}
	}

	if err := os.WriteFile(dest, out, 0o644); err != nil {
		return StatusFailed, fmt.Errorf("write: %w", err)
	}

	return StatusOK, nil
}

// transpose physically rotates/flips img so its pixels match what the EXIF
// orientation value implies. Orientation 1 (and anything out of range) is a
// no-op.
func transpose(img image.Image, orientation uint16) image.Image {
	opts := &transform.RotationOptions{ResizeBounds: true}

	switch orientation {
	case 2:
		return transform.FlipH(img)
	case 3:
		return transform.Rotate(img, 180, opts)
	case 4:
		return transform.FlipV(img)
	case 5:
		return transform.Rotate(transform.FlipH(img), 270, opts)
	case 6:
		return transform.Rotate(img, 90, opts)
	case 7:
		return transform.Rotate(transform.FlipH(img), 90, opts)
	case 8:
		return transform.Rotate(img, 270, opts)
	}

	return img
}
