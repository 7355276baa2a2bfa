package remote

import (
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/pkg/sftp"
)

// client is the subset of *sftp.Client used by FS.
type client interface {
	ReadDir(string) ([]os.FileInfo, error)
	Stat(string) (os.FileInfo, error)
	Lstat(string) (os.FileInfo, error)
	Open(string) (io.ReadCloser, error)
	RealPath(string) (string, error)
}

// sftpClient adapts *sftp.Client to client.
type sftpClient struct {
	*sftp.Client
}

func (c sftpClient) Open(p string) (io.ReadCloser, error) {
	f, err := c.Client.Open(p)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// FS is an fsys.FS backed by an SFTP session. Paths are POSIX paths on the
// remote host regardless of the local platform.
type FS struct {
	c      client
	closer io.Closer
}

func (f *FS) ReadDir(dir string) ([]string, error) {
	infos, err := f.c.ReadDir(dir)
	if err != nil {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: err}
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}

func (f *FS) Stat(p string) (fs.FileInfo, error) {
	info, err := f.c.Stat(p)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: p, Err: err}
	}
	return info, nil
}

func (f *FS) Lstat(p string) (fs.FileInfo, error) {
	info, err := f.c.Lstat(p)
	if err != nil {
		return nil, &fs.PathError{Op: "lstat", Path: p, Err: err}
	}
	return info, nil
}

func (f *FS) Open(p string) (io.ReadCloser, error) {
	r, err := f.c.Open(p)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: p, Err: err}
	}
	return r, nil
}

func (f *FS) Join(elem ...string) string { return path.Join(elem...) }

// Resolve turns p into an absolute remote path. An empty path or "." is the
// login directory.
func (f *FS) Resolve(p string) (string, error) {
	clean := cleanPath(p)
	resolved, err := f.c.RealPath(clean)
	if err != nil {
		return "", &fs.PathError{Op: "realpath", Path: clean, Err: err}
	}
	return cleanPath(resolved), nil
}

// Close ends the SFTP session and the SSH connection under it.
func (f *FS) Close() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

func cleanPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return "."
	}
	return path.Clean(p)
}
