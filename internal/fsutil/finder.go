// Package fsutil provides file system helpers for graph documents.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// FindFilesByExtension recursively searches root for files whose extension
// is one of exts, compared case-insensitively. Paths are returned sorted.
func FindFilesByExtension(root string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		panic("at least one extension is required")
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		if slices.Contains(exts, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

// BaseName returns the file name of path without its extension.
func BaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
