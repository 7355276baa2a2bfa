// Package scanner implements the two scan modes on top of the walker: huge-file
// detection and literal text search.
package scanner

import (
	"strings"

	"github.com/mordilloSan/go-logger/logger"
)

const (
	// DefaultHugeFileSize is the huge mode threshold.
	DefaultHugeFileSize int64 = 100 << 20
	// DefaultLargeTextFileSize is the largest file text mode will read.
	DefaultLargeTextFileSize int64 = 10 << 20
	// DefaultLargeLineSize is the line length cut-off used with FilterLargeLine.
	DefaultLargeLineSize int64 = 10 << 10
)

// Options configures both scan modes. Fields that only apply to text mode are
// ignored by huge mode.
type Options struct {
	// SkipLinkDir prunes directories that are symlinks.
	SkipLinkDir bool
	// Verbose logs skipped entries and recoverable errors.
	Verbose bool

	// FileExts restricts text mode to these extensions ("rs" or ".rs", case-insensitive).
	FileExts []string
	// IgnoreCase matches case-insensitively and disables highlighting.
	IgnoreCase bool
	// FilterLargeLine skips lines of LargeLineSize bytes or more.
	FilterLargeLine bool
	LargeLineSize   int64
	// LargeTextFileSize is the size at which files are skipped instead of read.
	LargeTextFileSize int64
	// FilterFileName requires the file path to contain this substring.
	FilterFileName string
	// FilterLineContent requires a matching line to also contain this substring.
	FilterLineContent string
	// ScanDotGit descends into .git directories.
	ScanDotGit bool
	// SkipTargetDir prunes directories named target.
	SkipTargetDir bool
	// SkipDotDir prunes directories with a path component starting with a dot.
	SkipDotDir bool
}

// DefaultOptions returns the command-line defaults.
func DefaultOptions() Options {
	return Options{
		LargeLineSize:     DefaultLargeLineSize,
		LargeTextFileSize: DefaultLargeTextFileSize,
	}
}

// Output receives everything a scan prints.
type Output interface {
	// Status replaces the live progress line.
	Status(msg string)
	// Println prints a result line, clearing the progress line first.
	Println(msg string)
	// Highlight renders a matched span.
	Highlight(text string) string
}

// normalizeExts lower-cases extensions and gives them a leading dot.
func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

// diag logs a verbose diagnostic after clearing the progress line.
func diag(opts Options, out Output, format string, args ...any) {
	if !opts.Verbose {
		return
	}
	out.Status("")
	logger.Debugf(format, args...)
}
