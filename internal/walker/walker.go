// Package walker implements the depth-bounded recursive traversal shared by every scan mode.
package walker

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/maruel/natural"
	"github.com/sadopc/finding/internal/fsys"
)

// MaxDepth is the deepest directory level the walker descends into. The root is depth 0.
const MaxDepth = 100

// ErrDepthExceeded is wrapped by DepthError.
var ErrDepthExceeded = errors.New("depth exceeded")

// DepthError is reported for a directory nested deeper than MaxDepth.
type DepthError struct {
	Path  string
	Depth int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("depth exceeded, depth: %d, path: %s", e.Depth, e.Path)
}

func (e *DepthError) Unwrap() error { return ErrDepthExceeded }

// Visitor receives the walker's callbacks. Callbacks run synchronously, one at a time.
type Visitor interface {
	// OnError is called when a directory cannot be listed or an entry cannot be resolved.
	OnError(path string, err error)
	// OnFile is called once for every regular file.
	OnFile(path string)
	// OnDirEnter is called before descending into a directory; false prunes it.
	OnDirEnter(path string) bool
}

// Funcs adapts plain functions to Visitor. Nil fields are no-ops and a nil DirEnter admits
// every directory.
type Funcs struct {
	Error    func(path string, err error)
	File     func(path string)
	DirEnter func(path string) bool
}

func (f Funcs) OnError(path string, err error) {
	if f.Error != nil {
		f.Error(path, err)
	}
}

func (f Funcs) OnFile(path string) {
	if f.File != nil {
		f.File(path)
	}
}

func (f Funcs) OnDirEnter(path string) bool {
	if f.DirEnter == nil {
		return true
	}
	return f.DirEnter(path)
}

// Walker walks a tree on an fsys.FS.
type Walker struct {
	fs       fsys.FS
	maxDepth int
}

// New creates a walker over f.
func New(f fsys.FS) *Walker {
	return &Walker{fs: f, maxDepth: MaxDepth}
}

// Walk traverses root depth-first, pre-order. Listing and resolution failures go to
// v.OnError and never stop the walk. A subtree that goes past MaxDepth is reported to
// OnError by its parent and skipped. The only error returned is ctx.Err() when the
// context is cancelled mid-walk.
func (w *Walker) Walk(ctx context.Context, root string, v Visitor) error {
	return w.walk(ctx, root, 0, v)
}

func (w *Walker) walk(ctx context.Context, dir string, depth int, v Visitor) error {
	if depth > w.maxDepth {
		return &DepthError{Path: dir, Depth: depth}
	}

	names, err := w.fs.ReadDir(dir)
	if err != nil {
		v.OnError(dir, err)
		return nil
	}
	sort.Slice(names, func(i, j int) bool { return natural.Less(names[i], names[j]) })

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}

		path := w.fs.Join(dir, name)
		kind, err := fsys.Classify(w.fs, path)
		if err != nil {
			v.OnError(path, err)
			continue
		}

		switch kind {
		case fsys.KindFile:
			v.OnFile(path)
		case fsys.KindDir:
			if !v.OnDirEnter(path) {
				continue
			}
			if err := w.walk(ctx, path, depth+1, v); err != nil {
				var depthErr *DepthError
				if !errors.As(err, &depthErr) {
					return err
				}
				v.OnError(path, err)
			}
		}
	}
	return nil
}
