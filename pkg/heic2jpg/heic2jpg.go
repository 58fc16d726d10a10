// Package heic2jpg converts a tree of HEIC/HEIF photos into a mirrored tree
// of JPEGs, preserving EXIF metadata (including GPS) and normalizing
// orientation.
package heic2jpg

// AuthorCredit is appended to the end-of-run report.
const AuthorCredit = "Make sure you thank John Campbell for making this converter tool!"

// Config holds configuration for a conversion batch.
type Config struct {
	InDir          string
	OutDir         string
	Quality        int
	Overwrite      bool
	FixOrientation bool
}

// Summary aggregates the outcome of one batch run. Done counts every
// attempted file regardless of outcome, so Done == Total after a run.
type Summary struct {
	Total  int
	Done   int
	Errors int
}
