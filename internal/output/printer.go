// Package output renders scan results and the live progress line.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sadopc/finding/internal/util"
	"golang.org/x/term"
)

// Kind selects the label printed in front of a message.
type Kind int

const (
	KindOK Kind = iota
	KindInfo
	KindWarn
	KindError
)

// Printer writes result lines and a single redrawable status line. It is not safe for
// concurrent use.
type Printer struct {
	w     io.Writer
	theme Theme

	tty bool
	fd  int

	frames      []string
	frame       int
	statusShown bool
}

// New creates a printer on w. The status line is only drawn when w is a terminal.
func New(w io.Writer) *Printer {
	p := &Printer{
		w:      w,
		theme:  NewTheme(lipgloss.NewRenderer(w)),
		frames: spinner.MiniDot.Frames,
	}
	if f, ok := w.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(f.Fd())) {
		p.tty = true
		p.fd = int(f.Fd())
	}
	return p
}

func (p *Printer) width() int {
	if !p.tty {
		return 0
	}
	w, _, err := term.GetSize(p.fd)
	if err != nil {
		return 0
	}
	return w
}

// Status replaces the current status line with msg. An empty msg clears it.
func (p *Printer) Status(msg string) {
	if !p.tty {
		return
	}
	if msg == "" {
		p.ClearStatus()
		return
	}

	frame := p.frames[p.frame%len(p.frames)]
	p.frame++
	line := util.FitWidth(msg, p.width(), ansi.StringWidth(frame)+1)
	fmt.Fprint(p.w, "\r"+ansi.EraseEntireLine+p.theme.Status.Render(frame+" "+line))
	p.statusShown = true
}

// ClearStatus erases the status line if one is showing.
func (p *Printer) ClearStatus() {
	if !p.statusShown {
		return
	}
	fmt.Fprint(p.w, "\r"+ansi.EraseEntireLine)
	p.statusShown = false
}

// Println clears the status line and writes msg on its own line.
func (p *Printer) Println(msg string) {
	p.ClearStatus()
	fmt.Fprintln(p.w, msg)
}

// Message prints msg behind a styled label for kind.
func (p *Printer) Message(kind Kind, msg string) {
	p.Println(p.label(kind) + " " + msg)
}

// Messagef is Message with formatting.
func (p *Printer) Messagef(kind Kind, format string, args ...any) {
	p.Message(kind, fmt.Sprintf(format, args...))
}

// Highlight renders a matched span.
func (p *Printer) Highlight(text string) string {
	return p.theme.Highlight.Render(text)
}

func (p *Printer) label(kind Kind) string {
	switch kind {
	case KindInfo:
		return p.theme.Info.Render("[INFO ]")
	case KindWarn:
		return p.theme.Warn.Render("[WARN ]")
	case KindError:
		return p.theme.Err.Render("[ERROR]")
	default:
		return p.theme.OK.Render("[OK   ]")
	}
}
