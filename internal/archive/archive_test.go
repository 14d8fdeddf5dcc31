package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "go-manga-reader/internal/errors"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "volume.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestExtractAndListImages(t *testing.T) {
	archivePath := writeZip(t, map[string]string{
		"page1.png":        "png-1",
		"page2.png":        "png-2",
		"page10.png":       "png-10",
		"extras/cover.jpg": "jpg-cover",
		"notes.txt":        "not an image",
	})

	root, cleanup, err := Extract(archivePath, t.TempDir())
	require.NoError(t, err)
	defer cleanup()

	files, err := ListImages(root)
	require.NoError(t, err)
	require.Len(t, files, 4)

	// Natural order: page2 sorts before page10, the text file is dropped.
	wantNames := []string{"cover.jpg", "page1.png", "page2.png", "page10.png"}
	for i, want := range wantNames {
		assert.Equal(t, want, files[i].Filename)
		assert.Equal(t, i+1, files[i].Index)
	}

	content, err := os.ReadFile(files[1].Path)
	require.NoError(t, err)
	assert.Equal(t, "png-1", string(content))
}

func TestExtract_CleanupRemovesDirectory(t *testing.T) {
	archivePath := writeZip(t, map[string]string{"page1.png": "x"})

	root, cleanup, err := Extract(archivePath, t.TempDir())
	require.NoError(t, err)

	cleanup()
	_, err = os.Stat(root)
	assert.True(t, os.IsNotExist(err))
}

func TestExtract_RejectsEscapingEntries(t *testing.T) {
	archivePath := writeZip(t, map[string]string{"../evil.png": "x"})

	_, _, err := Extract(archivePath, t.TempDir())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeArchive))
}

func TestExtract_MissingArchive(t *testing.T) {
	_, _, err := Extract(filepath.Join(t.TempDir(), "nope.zip"), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeArchive))
}

func TestListImages_NoImages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	_, err := ListImages(dir)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNoImages))
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"page.jpg", true},
		{"page.JPEG", true},
		{"page.png", true},
		{"page.webp", true},
		{"page.gif", false},
		{"notes.txt", false},
		{"noext", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsImageFile(tt.name), tt.name)
	}
}
