// Package output provides terminal-aware rendering for CLI commands.
package output

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/leapstack-labs/normaudit/pkg/report"
)

// Renderer writes command output, styling it only when stdout is a terminal
// and color has not been disabled.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	color  bool
	styles *report.Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, noColor bool) *Renderer {
	return NewRendererWithTTY(out, errOut, IsTTY(out) && !noColor)
}

// NewRendererWithTTY creates a renderer with explicit color control.
func NewRendererWithTTY(out, errOut io.Writer, color bool) *Renderer {
	return &Renderer{
		out:    out,
		errOut: errOut,
		color:  color,
		styles: report.NewStyles(report.NewRenderer(out, color)),
	}
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int
}

// Color reports whether output is styled.
func (r *Renderer) Color() bool { return r.color }

// Styles returns the styles bound to this renderer.
func (r *Renderer) Styles() *report.Styles { return r.styles }

// Writer returns the standard output writer.
func (r *Renderer) Writer() io.Writer { return r.out }

// ErrWriter returns the error output writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errOut }

// Println writes s followed by a newline.
func (r *Renderer) Println(s string) {
	_, _ = fmt.Fprintln(r.out, s)
}

// Printf writes formatted output.
func (r *Renderer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

// Errorf writes a formatted message to the error output.
func (r *Renderer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.errOut, format, args...)
}
