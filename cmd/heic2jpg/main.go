// heic2jpg batch-converts a folder of HEIC/HEIF photos to JPEG. The only UI
// is two native folder pickers and a final summary dialog; everything else
// runs unattended.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	heic2jpg "github.com/campbelljohnt/heic2jpg/pkg/heic2jpg"
)

var (
	overwrite   = flag.Bool("overwrite", false, "Overwrite existing JPGs")
	quality     = flag.Int("quality", 95, "JPEG quality (1-100)")
	noOrientFix = flag.Bool("no-orient-fix", false, "Do not apply EXIF orientation fix")
	selftest    = flag.Bool("selftest", false, "Run built-in tests and exit")
	watchFlag   = flag.Bool("watch", false, "Keep watching the input folder and convert new files")
)

const dialogTitle = "HEIC → JPG"

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if *selftest {
		os.Exit(runSelfTest())
	}

	d := heic2jpg.NativeDialogs()

	inDir, outDir, ok, err := heic2jpg.PickFolders(d)
	if err != nil {
		klog.Exitf("folder picker failed: %v", err)
	}
	if !ok {
		fmt.Println("Cancelled.")
		return
	}

	c := &heic2jpg.Config{
		InDir:          inDir,
		OutDir:         outDir,
		Quality:        clamp(*quality, 1, 100),
		Overwrite:      *overwrite,
		FixOrientation: !*noOrientFix,
	}

	if err := run(c, d); err != nil {
		if derr := d.Error(dialogTitle+" - Error", err.Error()); derr != nil {
			klog.Errorf("error dialog failed: %v", derr)
		}
		klog.Exitf("%v", err)
	}
}

func run(c *heic2jpg.Config, d heic2jpg.Dialogs) error {
	fi, err := os.Stat(c.InDir)
	if err != nil {
		return fmt.Errorf("input directory not found: %s", c.InDir)
	}
	if !fi.IsDir() {
		return fmt.Errorf("input path is not a directory: %s", c.InDir)
	}

	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	s, err := heic2jpg.Run(c, os.Stdout)
	if err != nil {
		return err
	}

	report := fmt.Sprintf("Processed %d/%d. Errors: %d", s.Done, s.Total, s.Errors)
	fmt.Printf("%s\n%s\n", report, heic2jpg.AuthorCredit)

	if err := d.Info(dialogTitle, report+"\n\n"+heic2jpg.AuthorCredit); err != nil {
		klog.Errorf("info dialog failed: %v", err)
	}

	if *watchFlag {
		return heic2jpg.Watch(c, os.Stdout)
	}

	return nil
}

func clamp(v int, lo int, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// runSelfTest exercises path mapping and the orientation fixer without
// touching any UI, mirroring the package tests for environments where
// running them is inconvenient.
func runSelfTest() int {
	td, err := os.MkdirTemp("", "heic2jpg-selftest")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Self-test failed: tempdir: %v\n", err)
		return 1
	}
	defer os.RemoveAll(td)

	inRoot := filepath.Join(td, "in")
	dest, err := heic2jpg.OutputPath(filepath.Join(inRoot, "sub", "x.HEIC"), inRoot, filepath.Join(td, "out"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Self-test failed: map path: %v\n", err)
		return 1
	}
	if want := filepath.Join(td, "out", "sub", "x.jpg"); dest != want {
		fmt.Fprintf(os.Stderr, "Self-test failed: mapped %q, want %q\n", dest, want)
		return 1
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Self-test failed: mkdir: %v\n", err)
		return 1
	}

	if got := heic2jpg.FixOrientation(nil); got != nil {
		fmt.Fprintf(os.Stderr, "Self-test failed: FixOrientation(nil) = %v\n", got)
		return 1
	}

	fmt.Println("Self-test passed.")
	return 0
}
