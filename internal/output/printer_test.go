package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestPrinter_PlainWriterHasNoStatusOrStyling(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	p.Status("Scanning: /tmp")
	p.Println("plain line")
	p.Message(KindOK, "/tmp/a.txt [1.0K]")
	p.Messagef(KindWarn, "skipped %d", 3)

	want := "plain line\n[OK   ] /tmp/a.txt [1.0K]\n[WARN ] skipped 3\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
	if got := p.Highlight("needle"); got != "needle" {
		t.Fatalf("Highlight on plain writer = %q", got)
	}
}

func TestPrinter_MessageLabels(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindOK, "[OK   ] done\n"},
		{KindInfo, "[INFO ] done\n"},
		{KindWarn, "[WARN ] done\n"},
		{KindError, "[ERROR] done\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		New(&buf).Message(tt.kind, "done")
		if buf.String() != tt.want {
			t.Errorf("Message(%d) = %q, want %q", tt.kind, buf.String(), tt.want)
		}
	}
}

func TestPrinter_StatusIsClearedBeforeResults(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.tty = true
	p.fd = -1

	p.Status("Scanning: /a")
	p.Status("Scanning: /b")
	p.Println("result")
	p.ClearStatus()

	out := buf.String()
	if strings.Count(out, "Scanning:") != 2 {
		t.Fatalf("expected two status redraws, got %q", out)
	}
	idx := strings.LastIndex(out, "Scanning: /b")
	rest := out[idx:]
	if !strings.Contains(rest, "\r"+ansi.EraseEntireLine+"result\n") {
		t.Fatalf("expected status to be erased before result, got %q", rest)
	}
	if strings.HasSuffix(out, ansi.EraseEntireLine) {
		t.Fatal("ClearStatus with no status showing must not write")
	}
}

func TestPrinter_EmptyStatusClears(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.tty = true
	p.fd = -1

	p.Status("working")
	p.Status("")
	if !strings.HasSuffix(buf.String(), "\r"+ansi.EraseEntireLine) {
		t.Fatalf("expected trailing erase, got %q", buf.String())
	}
	if p.statusShown {
		t.Fatal("expected status to be marked cleared")
	}
}

func TestTheme_Blend(t *testing.T) {
	theme := NewTheme(lipgloss.NewRenderer(&bytes.Buffer{}))
	if got := theme.blend("#000000", "#FFFFFF", 0); !strings.EqualFold(string(got), "#000000") {
		t.Fatalf("blend at 0 = %s", got)
	}
	if got := theme.blend("not-a-color", "#FFFFFF", 0.5); got != "not-a-color" {
		t.Fatalf("blend with bad input = %s", got)
	}
}
