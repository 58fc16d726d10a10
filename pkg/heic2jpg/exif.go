package heic2jpg

import (
	"bytes"
	"fmt"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"
	"k8s.io/klog/v2"
)

const orientationTag = "Orientation"

// Orientation returns the EXIF orientation stored in the root IFD of raw, or
// 1 ("normal") when the tag is absent or raw cannot be parsed.
func Orientation(raw []byte) uint16 {
	if len(raw) == 0 {
		return 1
	}

	seg, err := exif.SearchAndExtractExif(raw)
	if err != nil {
		return 1
	}

	tags, _, err := exif.GetFlatExifData(seg, nil)
	if err != nil {
		return 1
	}

	for _, t := range tags {
		if t.TagName != orientationTag || t.IfdPath != "IFD" {
			continue
		}
		if vs, ok := t.Value.([]uint16); ok && len(vs) > 0 {
			return vs[0]
		}
	}

	return 1
}

// FixOrientation resets the root-IFD orientation tag to 1 and re-serializes
// the EXIF block. Empty input is passed through, and any parse or serialize
// failure returns the original bytes untouched: a bad metadata block must
// never stop the JPEG from being written.
func FixOrientation(raw []byte) []byte {
	if len(raw) == 0 {
		return raw
	}

	fixed, err := rewriteOrientation(raw)
	if err != nil {
		klog.V(1).Infof("keeping original exif block: %v", err)
		return raw
	}

	return fixed
}

func rewriteOrientation(raw []byte) (fixed []byte, err error) {
	// The dsoprea parsers signal some malformed-input failures by panicking.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("exif rewrite panic: %v", r)
		}
	}()

	ib, root, err := exifBuilder(raw)
	if err != nil {
		return nil, err
	}

	if tags, ferr := root.FindTagWithName(orientationTag); ferr == nil && len(tags) > 0 {
		if err := ib.SetStandardWithName(orientationTag, []uint16{1}); err != nil {
			return nil, fmt.Errorf("set orientation: %w", err)
		}
	}

	ibe := exif.NewIfdByteEncoder()
	out, err := ibe.EncodeToExif(ib)
	if err != nil {
		return nil, fmt.Errorf("encode exif: %w", err)
	}

	return out, nil
}

// exifBuilder parses raw into an IFD builder plus the parsed root IFD.
func exifBuilder(raw []byte) (*exif.IfdBuilder, *exif.Ifd, error) {
	seg, err := exif.SearchAndExtractExif(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("extract exif: %w", err)
	}

	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, nil, fmt.Errorf("ifd mapping: %w", err)
	}

	ti := exif.NewTagIndex()
	_, index, err := exif.Collect(im, ti, seg)
	if err != nil {
		return nil, nil, fmt.Errorf("collect: %w", err)
	}

	return exif.NewIfdBuilderFromExistingChain(index.RootIfd), index.RootIfd, nil
}

// attachExif embeds raw as the EXIF block of an already-encoded JPEG.
func attachExif(jpg []byte, raw []byte) ([]byte, error) {
	ib, _, err := exifBuilder(raw)
	if err != nil {
		return nil, err
	}

	jmp := jpegstructure.NewJpegMediaParser()
	intfc, err := jmp.ParseBytes(jpg)
	if err != nil {
		return nil, fmt.Errorf("parse jpeg: %w", err)
	}

	sl, ok := intfc.(*jpegstructure.SegmentList)
	if !ok {
		return nil, fmt.Errorf("unexpected media context %T", intfc)
	}

	if err := sl.SetExif(ib); err != nil {
		return nil, fmt.Errorf("set exif: %w", err)
	}

	out := new(bytes.Buffer)
	if err := sl.Write(out); err != nil {
		return nil, fmt.Errorf("write segments: %w", err)
	}

	return out.Bytes(), nil
}
