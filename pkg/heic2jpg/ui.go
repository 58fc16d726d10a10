package heic2jpg

import (
	"errors"

	"github.com/ncruces/zenity"
)

// Dialogs abstracts the two native folder pickers and the end-of-run message
// boxes so the conversion pipeline can be driven headless in tests.
type Dialogs interface {
	// SelectDirectory shows a directory picker. ok is false when the dialog
	// is dismissed without a selection.
	SelectDirectory(title string) (dir string, ok bool, err error)
	Info(title string, message string) error
	Error(title string, message string) error
}

// PickFolders prompts for the input folder and then, only if one was chosen,
// the output folder. Dismissing either dialog yields ok=false; cancellation
// is not an error.
func PickFolders(d Dialogs) (inDir string, outDir string, ok bool, err error) {
	inDir, ok, err = d.SelectDirectory("Select input folder with HEIC files")
	if err != nil || !ok {
		return "", "", false, err
	}

	outDir, ok, err = d.SelectDirectory("Select output folder for JPG files")
	if err != nil || !ok {
		return "", "", false, err
	}

	return inDir, outDir, true, nil
}

type nativeDialogs struct{}

// NativeDialogs returns a Dialogs backed by the platform's own dialog
// facility.
func NativeDialogs() Dialogs { return nativeDialogs{} }

func (nativeDialogs) SelectDirectory(title string) (string, bool, error) {
	dir, err := zenity.SelectFile(zenity.Directory(), zenity.Title(title))
	if errors.Is(err, zenity.ErrCanceled) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return dir, true, nil
}

func (nativeDialogs) Info(title string, message string) error {
	return zenity.Info(message, zenity.Title(title))
}

func (nativeDialogs) Error(title string, message string) error {
	return zenity.Error(message, zenity.Title(title))
}
