package util

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

// FormatSize returns a compact binary size such as "1.5M" or "512B". ParseSize
// accepts everything it returns.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	s := strings.Replace(humanize.IBytes(uint64(bytes)), " ", "", 1)
	return strings.TrimSuffix(s, "iB")
}

// ParseSize parses sizes like "100M", "10KB", "1.5g" or "512". Unit letters are
// binary multiples (K = 1024) and a trailing "B" is optional.
func ParseSize(s string) (int64, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if norm == "" {
		return 0, fmt.Errorf("parse size %q: empty size", s)
	}
	norm = strings.TrimSuffix(norm, "b")
	if strings.HasSuffix(norm, "i") {
		norm = strings.TrimSuffix(norm, "i")
	}
	if norm != "" && strings.ContainsRune("kmgtpe", rune(norm[len(norm)-1])) {
		norm += "ib"
	}

	n, err := humanize.ParseBytes(norm)
	if err != nil {
		return 0, fmt.Errorf("parse size %q: %w", s, err)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("parse size %q: too large", s)
	}
	return int64(n), nil
}

// SplitComma splits a comma-separated list, trimming items and dropping empty ones.
func SplitComma(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

const (
	fitTailCells = 10
	fitEllipsis  = "[...]"
)

// FitWidth shortens msg to fit a terminal of the given width, keeping the head and the
// last few cells around a "[...]" marker. reserved cells are kept free for a prefix.
// width <= 0 means unknown and leaves msg untouched.
func FitWidth(msg string, width, reserved int) string {
	if width <= 0 {
		return msg
	}
	total := ansi.StringWidth(msg)
	if total+reserved < width {
		return msg
	}

	head := width - reserved - fitTailCells - len(fitEllipsis) - 1
	if head <= 0 || total <= fitTailCells {
		return ansi.Truncate(msg, max(width-reserved-1, 0), "")
	}
	return ansi.Truncate(msg, head, "") + fitEllipsis + ansi.TruncateLeft(msg, total-fitTailCells, "")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
