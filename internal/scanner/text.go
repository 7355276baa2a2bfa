package scanner

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/finding/internal/counter"
	"github.com/sadopc/finding/internal/fsys"
	"github.com/sadopc/finding/internal/walker"
)

// ErrEmptySearchText is returned by ScanText before any traversal when there is nothing to search for.
var ErrEmptySearchText = errors.New("search text is empty")

// textScan is the walker visitor for text mode.
type textScan struct {
	fs      fsys.FS
	search  string
	opts    Options
	exts    []string
	matcher *Matcher
	out     Output

	totalDirs    counter.Cell
	scannedDirs  counter.Cell
	totalFiles   counter.Cell
	scannedFiles counter.Cell
	matchedFiles counter.Cell
}

// ScanText searches every admitted file under root for the literal search text and
// prints the matching lines of each file.
func ScanText(ctx context.Context, f fsys.FS, root, search string, opts Options, out Output) (TextSummary, error) {
	if search == "" {
		return TextSummary{}, ErrEmptySearchText
	}

	start := time.Now()
	s := &textScan{
		fs:      f,
		search:  search,
		opts:    opts,
		exts:    normalizeExts(opts.FileExts),
		matcher: NewMatcher(search, opts),
		out:     out,
	}

	err := walker.New(f).Walk(ctx, root, s)
	out.Status("")

	return TextSummary{
		TotalDirs:    s.totalDirs.Get(),
		ScannedDirs:  s.scannedDirs.Get(),
		TotalFiles:   s.totalFiles.Get(),
		ScannedFiles: s.scannedFiles.Get(),
		MatchedFiles: s.matchedFiles.Get(),
		Duration:     time.Since(start),
	}, err
}

func (s *textScan) OnError(path string, err error) {
	diag(s.opts, s.out, "Error in path %s: %v", path, err)
}

func (s *textScan) OnDirEnter(p string) bool {
	s.totalDirs.Inc()

	base := path.Base(filepath.ToSlash(p))
	switch {
	case base == ".git" && !s.opts.ScanDotGit:
		diag(s.opts, s.out, "Skip .git dir: %s", p)
		return false
	case base == "target" && s.opts.SkipTargetDir:
		diag(s.opts, s.out, "Skip target dir: %s", p)
		return false
	case s.opts.SkipDotDir && hasDotComponent(p):
		diag(s.opts, s.out, "Skip dot dir: %s", p)
		return false
	case s.opts.SkipLinkDir && fsys.IsSymlink(s.fs, p):
		diag(s.opts, s.out, "Skip link dir: %s", p)
		return false
	}

	s.scannedDirs.Inc()
	s.out.Status("Scanning: " + p)
	return true
}

func (s *textScan) OnFile(p string) {
	s.totalFiles.Inc()

	if len(s.exts) > 0 && !hasAnySuffix(strings.ToLower(p), s.exts) {
		return
	}
	if s.opts.FilterFileName != "" && !strings.Contains(p, s.opts.FilterFileName) {
		return
	}

	content, err := fsys.ReadFile(s.fs, p, s.opts.LargeTextFileSize)
	if err != nil {
		if errors.Is(err, fsys.ErrTooLarge) {
			diag(s.opts, s.out, "Skip large file: %v", err)
		} else {
			diag(s.opts, s.out, "Read file %s failed: %v", p, err)
		}
		return
	}
	s.scannedFiles.Inc()

	matches := s.matcher.Lines(content, func(number, size int) {
		diag(s.opts, s.out, "Skip large line: %s:%d, len: %d", p, number+1, size)
	})
	if len(matches) == 0 {
		return
	}

	s.matchedFiles.Inc()
	s.report(p, matches)
}

func (s *textScan) report(p string, matches []MatchLine) {
	s.out.Println(fmt.Sprintf("File: %s, matched lines: %d", p, len(matches)))
	for _, m := range matches {
		line := RenderLine(m.Text, s.search, s.opts.IgnoreCase, s.out.Highlight)
		s.out.Println(fmt.Sprintf("%d: %s", m.Number+1, line))
	}
	s.out.Println("")
}

// hasDotComponent reports whether any element of p starts with a dot.
func hasDotComponent(p string) bool {
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
