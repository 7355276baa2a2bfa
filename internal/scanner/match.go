package scanner

import (
	"bufio"
	"bytes"
	"strings"
)

// MatchLine is one line of a file that satisfied every active predicate.
type MatchLine struct {
	// Number is 0-based; reports show Number+1.
	Number int
	// Text is the line as it appears in the file.
	Text string
}

// Matcher decides which lines of a file match.
type Matcher struct {
	search      string
	lowerSearch string
	ignoreCase  bool

	lineContent     string
	filterLargeLine bool
	largeLineSize   int64
}

// NewMatcher builds a matcher for search using the line options in opts.
func NewMatcher(search string, opts Options) *Matcher {
	return &Matcher{
		search:          search,
		lowerSearch:     strings.ToLower(search),
		ignoreCase:      opts.IgnoreCase,
		lineContent:     opts.FilterLineContent,
		filterLargeLine: opts.FilterLargeLine,
		largeLineSize:   opts.LargeLineSize,
	}
}

// Match reports whether a single line matches.
func (m *Matcher) Match(line string) bool {
	var found bool
	if m.ignoreCase {
		found = strings.Contains(strings.ToLower(line), m.lowerSearch)
	} else {
		found = strings.Contains(line, m.search)
	}
	if !found {
		return false
	}
	return m.lineContent == "" || strings.Contains(line, m.lineContent)
}

// TooLong reports whether the large-line filter drops line.
func (m *Matcher) TooLong(line string) bool {
	return m.filterLargeLine && int64(len(line)) >= m.largeLineSize
}

// Lines returns the matching lines of content in order. skipped, if not nil, is
// called for every line dropped by the large-line filter.
func (m *Matcher) Lines(content []byte, skipped func(number int, size int)) []MatchLine {
	var matches []MatchLine

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, min(len(content)+1, 64*1024)), len(content)+1)

	number := 0
	for sc.Scan() {
		line := sc.Text()
		switch {
		case m.TooLong(line):
			if skipped != nil {
				skipped(number, len(line))
			}
		case m.Match(line):
			matches = append(matches, MatchLine{Number: number, Text: line})
		}
		number++
	}
	return matches
}

// SplitMatches splits line around every non-overlapping occurrence of search.
// Joining the result with search gives back line byte for byte.
func SplitMatches(line, search string) []string {
	return strings.Split(line, search)
}

// RenderLine formats a match for display. In case-insensitive mode the raw line is
// returned; otherwise every occurrence of search is passed through highlight.
func RenderLine(line, search string, ignoreCase bool, highlight func(string) string) string {
	if ignoreCase || search == "" {
		return line
	}
	return strings.Join(SplitMatches(line, search), highlight(search))
}
