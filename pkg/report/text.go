package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/normaudit/pkg/core"
)

// TextOptions configures WriteText.
type TextOptions struct {
	// Color enables ANSI styling. Disable it for pipes and files.
	Color bool
}

// WriteText writes a human-readable report of results to w.
func WriteText(w io.Writer, results []*core.AuditResult, opts TextOptions) error {
	styles := NewStyles(NewRenderer(w, opts.Color))
	tw := &textWriter{w: w, styles: styles, title: cases.Title(language.English)}

	for i, result := range results {
		if i > 0 {
			tw.println("")
		}
		tw.result(result)
	}
	return tw.err
}

// textWriter remembers the first write error.
type textWriter struct {
	w      io.Writer
	styles *Styles
	title  cases.Caser
	err    error
}

func (t *textWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) println(s string) {
	t.printf("%s\n", s)
}

func (t *textWriter) result(r *core.AuditResult) {
	s := t.styles

	t.println(s.Header.Render("Schema: " + r.Metadata.SchemaPath))
	if r.Metadata.Timestamp != nil {
		t.println(s.Muted.Render("Audited: " + *r.Metadata.Timestamp))
	}
	t.println(s.Muted.Render(fmt.Sprintf("Models: %d", r.Metadata.ModelCount)))
	t.println("")

	if len(r.Findings) == 0 {
		t.println(s.Success.Render("No findings."))
		return
	}

	model := ""
	for i, f := range r.Findings {
		if i == 0 || f.Model != model {
			if i > 0 {
				t.println("")
			}
			model = f.Model
			t.println(s.Bold.Render(model))
		}
		t.finding(f)
	}

	t.println("")
	t.println(t.summary(r))
}

func (t *textWriter) finding(f core.Finding) {
	s := t.styles

	var target string
	if f.Field != nil {
		target = " " + s.Code.Render(*f.Field) + ":"
	}
	t.printf("  %s %s %s%s %s\n",
		s.Severity(f.Severity).Render(f.Severity.String()),
		string(f.Rule),
		s.Muted.Render("["+string(f.NormalForm)+"]"),
		target,
		f.Message,
	)
	if f.Fix != nil {
		t.printf("    %s %s\n", s.Muted.Render("fix:"), *f.Fix)
	}
}

func (t *textWriter) summary(r *core.AuditResult) string {
	counts := r.CountBySeverity()
	sevs := core.Severities()

	parts := make([]string, 0, len(sevs))
	for i := len(sevs) - 1; i >= 0; i-- {
		parts = append(parts, fmt.Sprintf("%s: %d", t.title.String(sevs[i].String()), counts[sevs[i]]))
	}

	noun := "findings"
	if len(r.Findings) == 1 {
		noun = "finding"
	}
	return t.styles.Bold.Render(fmt.Sprintf("%d %s", len(r.Findings), noun)) + " (" + strings.Join(parts, ", ") + ")"
}
