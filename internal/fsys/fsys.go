// Package fsys is the path metadata surface used by the walker and the scanners.
//
// Everything goes through the FS interface so the same traversal can run over the
// local disk or over a remote SFTP session.
package fsys

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrTooLarge is returned by ReadFile when a file meets or exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrNotFile is returned by ReadFile for paths that are not regular files.
	ErrNotFile = errors.New("not a regular file")
)

// FS is the minimal filesystem needed to walk a tree and read its files.
type FS interface {
	// ReadDir returns the names of the entries in dir.
	ReadDir(dir string) ([]string, error)
	// Stat follows symlinks.
	Stat(path string) (fs.FileInfo, error)
	// Lstat does not follow symlinks.
	Lstat(path string) (fs.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	Join(elem ...string) string
}

// Kind classifies a path after following symlinks.
type Kind int

const (
	KindOther Kind = iota
	KindFile
	KindDir
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "other"
	}
}

// SizeError reports a file rejected by the ReadFile size guard.
type SizeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("file too large: %s, len: %d, limit: %d", e.Path, e.Size, e.Limit)
}

func (e *SizeError) Unwrap() error { return ErrTooLarge }

// Local is the os-backed FS.
type Local struct{}

func (Local) ReadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}

func (Local) Stat(path string) (fs.FileInfo, error)  { return os.Stat(path) }
func (Local) Lstat(path string) (fs.FileInfo, error) { return os.Lstat(path) }

func (Local) Open(path string) (io.ReadCloser, error) { return os.Open(path) }

func (Local) Join(elem ...string) string { return filepath.Join(elem...) }

// Exists reports whether path resolves to anything.
func Exists(f FS, path string) bool {
	_, err := f.Stat(path)
	return err == nil
}

// IsFile reports whether path resolves to a regular file.
func IsFile(f FS, path string) bool {
	info, err := f.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDir reports whether path resolves to a directory.
func IsDir(f FS, path string) bool {
	info, err := f.Stat(path)
	return err == nil && info.IsDir()
}

// IsSymlink reports whether path itself is a symbolic link.
func IsSymlink(f FS, path string) bool {
	info, err := f.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

// Len returns the byte length of the file at path.
func Len(f FS, path string) (int64, error) {
	info, err := f.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Classify resolves path and reports whether it is a file or a directory.
// A dangling symlink is KindOther with a nil error.
func Classify(f FS, path string) (Kind, error) {
	info, err := f.Stat(path)
	if err != nil {
		if IsSymlink(f, path) {
			return KindOther, nil
		}
		return KindOther, err
	}
	switch {
	case info.Mode().IsRegular():
		return KindFile, nil
	case info.IsDir():
		return KindDir, nil
	default:
		return KindOther, nil
	}
}

// ReadFile reads the whole file at path. Files whose length is at or above limit
// are rejected with a *SizeError before being opened.
func ReadFile(f FS, path string, limit int64) ([]byte, error) {
	info, err := f.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFile)
	}
	if info.Size() >= limit {
		return nil, &SizeError{Path: path, Size: info.Size(), Limit: limit}
	}

	r, err := f.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	// The file may have grown since Stat.
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) >= limit {
		return nil, &SizeError{Path: path, Size: int64(len(data)), Limit: limit}
	}
	return data, nil
}
