package console

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func TestEnvFallbackWidth(t *testing.T) {
	t.Setenv("COLUMNS", "101")
	c := &Console{out: io.Discard}
	if c.Width() != 101 {
		t.Fatalf("want 101, got %d", c.Width())
	}
}

func TestDefaultWidth(t *testing.T) {
	t.Setenv("COLUMNS", "")
	c := Buffered(io.Discard, io.Discard)
	if c.Width() != 80 {
		t.Fatalf("want 80, got %d", c.Width())
	}
}

func TestNoColorOverrides(t *testing.T) {
	var buf bytes.Buffer
	if p := Buffered(&buf, &buf).Profile(&buf); p != termenv.Ascii {
		t.Fatalf("buffered console should be plain, got %v", p)
	}
	t.Setenv("NO_COLOR", "1")
	if p := Buffered(&buf, &buf).ForceColor().Profile(&buf); p != termenv.Ascii {
		t.Fatalf("NO_COLOR should win over ForceColor, got %v", p)
	}
	t.Setenv("NO_COLOR", "")
	if p := Buffered(&buf, &buf).ForceColor().NoColor().Profile(&buf); p != termenv.Ascii {
		t.Fatalf("NoColor should win, got %v", p)
	}
}

func TestForcedProfileFollowsEnvironment(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("GOOGLE_CLOUD_SHELL", "")
	var buf bytes.Buffer
	c := Buffered(&buf, &buf).ForceColor()

	t.Setenv("COLORTERM", "")
	t.Setenv("TERM", "xterm-256color")
	if p := c.Profile(&buf); p != termenv.ANSI256 {
		t.Fatalf("expected ANSI256 for 256color, got %v", p)
	}
	t.Setenv("COLORTERM", "truecolor")
	if p := c.Profile(&buf); p != termenv.TrueColor {
		t.Fatalf("expected TrueColor, got %v", p)
	}
	t.Setenv("COLORTERM", "")
	t.Setenv("TERM", "dumb")
	if p := c.Profile(&buf); p != termenv.ANSI {
		t.Fatalf("forced color should fall back to ANSI, got %v", p)
	}
}

func TestRedirectedStreamsHaveNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "")
	var errBuf bytes.Buffer
	c := &Console{out: os.Stdout, err: &errBuf}
	if !c.IsErrorRedirected() {
		t.Fatalf("buffer should count as redirected")
	}
	if p := c.ErrProfile(); p != termenv.Ascii {
		t.Fatalf("redirected stderr should be plain regardless of stdout, got %v", p)
	}
	if got := DefaultTheme().Error.Render(c.ErrProfile(), "boom"); got != "boom" {
		t.Fatalf("expected plain text, got %q", got)
	}

	c = &Console{out: &bytes.Buffer{}, err: os.Stderr}
	if !c.IsOutputRedirected() || c.OutProfile() != termenv.Ascii {
		t.Fatalf("redirected stdout should be plain")
	}
}

func TestStyles(t *testing.T) {
	out := NewStyle().Bold().Fg(termenv.ANSIBrightBlue).Render(termenv.TrueColor, "x")
	if out != "\x1b[1;94mx\x1b[0m" {
		t.Fatalf("unexpected ANSI: %q", out)
	}
	out = NewStyle().Fg(termenv.ANSI256Color(202)).Render(termenv.ANSI256, "x")
	if !strings.Contains(out, "38;5;202") {
		t.Fatalf("expected 256 code, got %q", out)
	}
	out = NewStyle().Fg(termenv.ANSI256Color(202)).Render(termenv.ANSI, "x")
	if strings.Contains(out, "38;5") || !strings.HasSuffix(out, "x\x1b[0m") {
		t.Fatalf("expected degraded 16 color code, got %q", out)
	}
	out = NewStyle().Fg(termenv.RGBColor("#ff0000")).Render(termenv.TrueColor, "x")
	if !strings.Contains(out, "38;2;255;0;0") {
		t.Fatalf("expected truecolor code, got %q", out)
	}
	if got := NewStyle().Bold().Render(termenv.Ascii, "x"); got != "x" {
		t.Fatalf("Ascii profile should render plain, got %q", got)
	}
}

func TestBufferedCapturesStreams(t *testing.T) {
	var out, errOut bytes.Buffer
	c := Buffered(&out, &errOut)
	io.WriteString(c.Out(), "hello")
	io.WriteString(c.Err(), "oops")
	if out.String() != "hello" || errOut.String() != "oops" {
		t.Fatalf("got %q / %q", out.String(), errOut.String())
	}
}
