package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0B"},
		{500, "500B"},
		{1023, "1023B"},
		{1024, "1.0K"},
		{1536, "1.5K"},
		{15 << 20, "15M"},
		{1048576, "1.0M"},
		{1572864, "1.5M"},
		{1073741824, "1.0G"},
		{1099511627776, "1.0T"},
		{-1, "0B"},
		{-100, "0B"},
	}

	for _, tt := range tests {
		got := FormatSize(tt.bytes)
		if got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestFormatSize_ParsesBack(t *testing.T) {
	for _, n := range []int64{0, 512, 1024, 1572864, 15 << 20, 1 << 30} {
		got, err := ParseSize(FormatSize(n))
		if err != nil {
			t.Fatalf("ParseSize(FormatSize(%d)): %v", n, err)
		}
		if got != n {
			t.Errorf("ParseSize(%q) = %d, want %d", FormatSize(n), got, n)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"512", 512},
		{"512B", 512},
		{"10K", 10 * 1024},
		{"10KB", 10 * 1024},
		{"10kb", 10 * 1024},
		{"100M", 100 * 1024 * 1024},
		{"10MiB", 10 * 1024 * 1024},
		{"1.5M", 1572864},
		{"2G", 2 * 1024 * 1024 * 1024},
		{" 1 T ", 1024 * 1024 * 1024 * 1024},
	}

	for _, tt := range tests {
		got, err := ParseSize(tt.in)
		if err != nil {
			t.Errorf("ParseSize(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseSize_Malformed(t *testing.T) {
	for _, in := range []string{"", "abc", "10X", "M", "-5M", "1..2M"} {
		if _, err := ParseSize(in); err == nil {
			t.Errorf("ParseSize(%q) expected error", in)
		}
	}
}

func TestSplitComma(t *testing.T) {
	got := SplitComma(" rs, go ,,txt,")
	want := []string{"rs", "go", "txt"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("SplitComma = %v, want %v", got, want)
	}
	if SplitComma("") != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestFitWidth(t *testing.T) {
	short := "Scanning: /tmp"
	if got := FitWidth(short, 80, 0); got != short {
		t.Fatalf("short message changed: %q", got)
	}
	if got := FitWidth(short, 0, 0); got != short {
		t.Fatalf("unknown width must not truncate: %q", got)
	}

	long := "Scanning: /very/long/path/" + strings.Repeat("segment/", 20) + "0123456789"
	got := FitWidth(long, 60, 2)
	if !strings.Contains(got, "[...]") {
		t.Fatalf("expected ellipsis marker in %q", got)
	}
	if !strings.HasSuffix(got, "0123456789") {
		t.Fatalf("expected tail to be kept in %q", got)
	}
	if !strings.HasPrefix(got, "Scanning: ") {
		t.Fatalf("expected head to be kept in %q", got)
	}
	if w := ansi.StringWidth(got); w >= 60-2 {
		t.Fatalf("expected width < 58, got %d", w)
	}
}

func TestFitWidth_MultibyteSafe(t *testing.T) {
	msg := strings.Repeat("こんにちは", 20)
	got := FitWidth(msg, 40, 0)
	if !strings.Contains(got, "[...]") {
		t.Fatalf("expected truncation, got %q", got)
	}
	for _, r := range got {
		if r == '�' {
			t.Fatalf("truncation split a character: %q", got)
		}
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/projects", filepath.Join(home, "projects")},
		{"/abs/path", "/abs/path"},
		{"rel/~", "rel/~"},
		{"~other", "~other"},
	}
	for _, tt := range tests {
		got, err := ExpandHome(tt.in)
		if err != nil {
			t.Fatalf("ExpandHome(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
