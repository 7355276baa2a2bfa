package scanner

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMatcher_CaseSensitivity(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		ignoreCase bool
		want       bool
	}{
		{"exact case present", "foo bar Foo", false, true},
		{"exact case present ignore case", "foo bar Foo", true, true},
		{"only lower case, case-sensitive", "foo bar", false, false},
		{"only lower case, ignore case", "foo bar", true, true},
		{"absent", "nothing here", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.IgnoreCase = tt.ignoreCase
			if got := NewMatcher("Foo", opts).Match(tt.line); got != tt.want {
				t.Fatalf("Match(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestMatcher_LineContentFilter(t *testing.T) {
	opts := DefaultOptions()
	opts.FilterLineContent = "TODO"
	m := NewMatcher("fix", opts)

	if !m.Match("fix this TODO") {
		t.Fatal("expected line with both terms to match")
	}
	if m.Match("fix this later") {
		t.Fatal("expected line without content filter term to be rejected")
	}
	if m.Match("TODO only") {
		t.Fatal("expected line without search term to be rejected")
	}
}

func TestMatcher_LinesNumberingAndLineEndings(t *testing.T) {
	m := NewMatcher("hit", DefaultOptions())
	content := []byte("miss\r\nhit one\r\nmiss\nhit two")

	got := m.Lines(content, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %v", got)
	}
	if got[0].Number != 1 || got[0].Text != "hit one" {
		t.Fatalf("first match = %+v", got[0])
	}
	if got[1].Number != 3 || got[1].Text != "hit two" {
		t.Fatalf("second match = %+v", got[1])
	}
}

func TestMatcher_LargeLineFilter(t *testing.T) {
	opts := DefaultOptions()
	opts.FilterLargeLine = true
	opts.LargeLineSize = 10
	m := NewMatcher("needle", opts)

	content := []byte("needle\n" + "long needle line\n" + "needle ok\n")
	var skipped []int
	got := m.Lines(content, func(number, size int) { skipped = append(skipped, number) })

	if len(got) != 2 || got[0].Number != 0 || got[1].Number != 2 {
		t.Fatalf("unexpected matches %v", got)
	}
	for _, ml := range got {
		if strings.Contains(ml.Text, "long") {
			t.Fatalf("over-long line leaked into matches: %v", got)
		}
	}
	if len(skipped) != 1 || skipped[0] != 1 {
		t.Fatalf("expected line 1 to be skipped, got %v", skipped)
	}

	// A line exactly at the limit is dropped too.
	exact := NewMatcher("x", opts).Lines([]byte(strings.Repeat("x", 10)), nil)
	if len(exact) != 0 {
		t.Fatalf("expected line of exactly LargeLineSize bytes to be skipped, got %v", exact)
	}
}

func TestMatcher_ZeroLineLimitDropsEveryLine(t *testing.T) {
	opts := DefaultOptions()
	opts.FilterLargeLine = true
	opts.LargeLineSize = 0

	var skipped []int
	got := NewMatcher("a", opts).Lines([]byte("a\n\nab\n"), func(number, size int) { skipped = append(skipped, number) })
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
	if len(skipped) != 3 {
		t.Fatalf("expected all 3 lines to be skipped, got %v", skipped)
	}
}

func TestMatcher_LinesSmallContent(t *testing.T) {
	m := NewMatcher("x", DefaultOptions())
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"single byte", "x", 1},
		{"no trailing newline", "a\nx", 1},
		{"just under buffer", strings.Repeat("x", 64*1024-1), 1},
		{"just over buffer", strings.Repeat("x", 64*1024+1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Lines([]byte(tt.content), nil)
			if len(got) != tt.want {
				t.Fatalf("got %d matches, want %d", len(got), tt.want)
			}
			if tt.want == 1 && !strings.HasSuffix(tt.content, got[0].Text) {
				t.Fatalf("matched line truncated: %d bytes", len(got[0].Text))
			}
		})
	}
}

func TestMatcher_LongLinesWithoutFilter(t *testing.T) {
	long := strings.Repeat("a", 200*1024) + "needle"
	got := NewMatcher("needle", DefaultOptions()).Lines([]byte(long+"\n"), nil)
	if len(got) != 1 || got[0].Text != long {
		t.Fatalf("expected the long line to match intact, got %d matches", len(got))
	}
}

func TestSplitMatches(t *testing.T) {
	tests := []struct {
		line   string
		search string
		want   []string
	}{
		{"aXbXc", "X", []string{"a", "b", "c"}},
		{"XaX", "X", []string{"", "a", ""}},
		{"aaaa", "aa", []string{"", "", ""}},
		{"日本語テキスト日本", "日本", []string{"", "語テキスト", ""}},
		{"héllo wörld", "ö", []string{"héllo w", "rld"}},
		{"naïve→café→end", "→", []string{"naïve", "café", "end"}},
	}

	for _, tt := range tests {
		got := SplitMatches(tt.line, tt.search)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
			t.Errorf("SplitMatches(%q, %q) = %q, want %q", tt.line, tt.search, got, tt.want)
		}
		if rebuilt := strings.Join(got, tt.search); rebuilt != tt.line {
			t.Errorf("rebuilt %q != input %q", rebuilt, tt.line)
		}
		for _, seg := range got {
			if !utf8.ValidString(seg) {
				t.Errorf("segment %q of %q is not valid UTF-8", seg, tt.line)
			}
		}
	}
}

func TestRenderLine(t *testing.T) {
	mark := func(s string) string { return "[" + s + "]" }

	if got := RenderLine("aXbXc", "X", false, mark); got != "a[X]b[X]c" {
		t.Fatalf("RenderLine = %q", got)
	}
	if got := RenderLine("über→straße", "→", false, mark); got != "über[→]straße" {
		t.Fatalf("RenderLine multibyte = %q", got)
	}
	if got := RenderLine("Foo foo", "foo", true, mark); got != "Foo foo" {
		t.Fatalf("ignore-case must print the raw line, got %q", got)
	}
}
