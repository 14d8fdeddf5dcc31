// Package archive extracts manga volume archives and enumerates their page
// images in natural filename order.
package archive

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/facette/natsort"
	"github.com/sirupsen/logrus"

	apperrors "go-manga-reader/internal/errors"
	"go-manga-reader/internal/logger"
)

// ImageFile is one page image found in an extracted archive. Index is the
// 1-based page number assigned after natural sorting.
type ImageFile struct {
	Path     string
	Filename string
	Index    int
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// IsImageFile reports whether the filename has a supported image extension
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Extract unpacks a zip archive into a fresh directory under tempDir and
// returns the extraction root together with a cleanup function. An empty
// tempDir falls back to the system temp directory.
func Extract(archivePath, tempDir string) (string, func(), error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", nil, apperrors.NewArchiveError("failed to open archive", err)
	}
	defer reader.Close()

	if tempDir == "" {
		tempDir = os.TempDir()
	}
	root, err := os.MkdirTemp(tempDir, "mangaread-*")
	if err != nil {
		return "", nil, apperrors.NewArchiveError("failed to create extraction directory", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(root); err != nil {
			logger.WithError(err).WithField("dir", root).Warn("Failed to remove extraction directory")
		}
	}

	for _, file := range reader.File {
		if err := extractFile(file, root); err != nil {
			cleanup()
			return "", nil, err
		}
	}

	logger.WithFields(logrus.Fields{
		"archive": archivePath,
		"entries": len(reader.File),
	}).Debug("Archive extracted")
	return root, cleanup, nil
}

func extractFile(file *zip.File, root string) error {
	dest := filepath.Join(root, file.Name)

	// Reject entries that escape the extraction root
	if !strings.HasPrefix(dest, filepath.Clean(root)+string(os.PathSeparator)) {
		return apperrors.NewArchiveError("archive entry path escapes extraction directory: "+file.Name, nil)
	}

	if file.FileInfo().IsDir() {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return apperrors.NewArchiveError("failed to create directory", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return apperrors.NewArchiveError("failed to create directory", err)
	}

	src, err := file.Open()
	if err != nil {
		return apperrors.NewArchiveError("failed to read archive entry", err)
	}
	defer src.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return apperrors.NewArchiveError("failed to create extracted file", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return apperrors.NewArchiveError("failed to extract file", err)
	}
	return nil
}

// ListImages walks dir and returns its page images sorted in natural filename
// order, with 1-based page indexes assigned. A directory with no images is an
// error because there is nothing to read.
func ListImages(dir string) ([]ImageFile, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsImageFile(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewArchiveError("failed to scan extracted archive", err)
	}
	if len(paths) == 0 {
		return nil, apperrors.NewNoImagesError("no page images found in archive", nil)
	}

	sort.Slice(paths, func(i, j int) bool {
		return natsort.Compare(paths[i], paths[j])
	})

	files := make([]ImageFile, len(paths))
	for i, path := range paths {
		files[i] = ImageFile{
			Path:     path,
			Filename: filepath.Base(path),
			Index:    i + 1,
		}
	}
	return files, nil
}
