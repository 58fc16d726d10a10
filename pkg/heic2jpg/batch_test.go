package heic2jpg

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/otiai10/copy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree creates an input tree with one bogus HEIC (decode will fail, the
// batch must carry on) and one file the discovery walk must ignore.
func writeTree(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b.HEIC"), []byte("bogus"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "c.jpg"), []byte("ignored"), 0o644))
}

func TestRunEmptyInput(t *testing.T) {
	td := t.TempDir()
	c := &Config{InDir: td, OutDir: filepath.Join(td, "out"), Quality: 95}

	var out bytes.Buffer
	s, err := Run(c, &out)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, s)
	assert.Empty(t, out.String())
}

func TestRunMixedTree(t *testing.T) {
	td := t.TempDir()
	in := filepath.Join(td, "in")
	writeTree(t, in)

	c := &Config{InDir: in, OutDir: filepath.Join(td, "out"), Quality: 95, FixOrientation: true}

	var out bytes.Buffer
	s, err := Run(c, &out)
	require.NoError(t, err)

	// only b.HEIC is discovered; its decode fails but the run completes
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, s.Total, s.Done)
	assert.Equal(t, 1, s.Errors)
	assert.Contains(t, out.String(), "ERROR: b.HEIC")
	assert.NotContains(t, out.String(), "c.jpg")

	// nothing was written for the failed file
	_, err = os.Stat(filepath.Join(td, "out", "a", "b.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunSkipsExistingOutput(t *testing.T) {
	td := t.TempDir()
	in := filepath.Join(td, "in")
	out := filepath.Join(td, "out")
	writeTree(t, in)

	require.NoError(t, os.MkdirAll(filepath.Join(out, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "a", "b.jpg"), []byte("already here"), 0o644))

	c := &Config{InDir: in, OutDir: out, Quality: 95}

	var log bytes.Buffer
	s, err := Run(c, &log)
	require.NoError(t, err)

	assert.Equal(t, Summary{Total: 1, Done: 1, Errors: 0}, s)
	assert.Contains(t, log.String(), "SKIP (exists): b.HEIC")

	got, err := os.ReadFile(filepath.Join(out, "a", "b.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte("already here"), got)
}

func TestRunOverwriteAttemptsExisting(t *testing.T) {
	td := t.TempDir()
	tmpl := filepath.Join(td, "tmpl")
	writeTree(t, tmpl)

	// identical trees, one run per overwrite setting
	for _, tt := range []struct {
		name      string
		overwrite bool
		want      string
	}{
		{name: "keep", overwrite: false, want: "SKIP (exists): b.HEIC"},
		{name: "overwrite", overwrite: true, want: "ERROR: b.HEIC"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			in := filepath.Join(td, tt.name)
			require.NoError(t, copy.Copy(tmpl, in))

			out := filepath.Join(td, tt.name+"-out")
			require.NoError(t, os.MkdirAll(filepath.Join(out, "a"), 0o755))
			require.NoError(t, os.WriteFile(filepath.Join(out, "a", "b.jpg"), []byte("existing"), 0o644))

			var log bytes.Buffer
			_, err := Run(&Config{InDir: in, OutDir: out, Quality: 95, Overwrite: tt.overwrite}, &log)
			require.NoError(t, err)
			assert.Contains(t, log.String(), tt.want)
		})
	}
}

func TestRunHEIFUnavailable(t *testing.T) {
	orig := heifSupport
	heifSupport = func() error { return errors.New("libde265 missing") }
	t.Cleanup(func() { heifSupport = orig })

	td := t.TempDir()
	writeTree(t, td)

	var log bytes.Buffer
	_, err := Run(&Config{InDir: td, OutDir: filepath.Join(td, "out"), Quality: 95}, &log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HEIC support not available")

	// fails before any file is touched
	assert.Empty(t, log.String())
	_, serr := os.Stat(filepath.Join(td, "out"))
	assert.True(t, os.IsNotExist(serr))
}

func TestFind(t *testing.T) {
	td := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(td, "deep", "deeper"), 0o755))

	for _, name := range []string{"one.heic", "two.HEIF", filepath.Join("deep", "three.Heic"), filepath.Join("deep", "deeper", "four.heif")} {
		require.NoError(t, os.WriteFile(filepath.Join(td, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(td, "skip.jpeg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(td, "noext"), []byte("x"), 0o644))

	files, err := Find(td)
	require.NoError(t, err)
	assert.Len(t, files, 4)
	for _, f := range files {
		assert.NotContains(t, f, "skip")
	}
}
