// Package help renders usage text for a command tree.
package help

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/dzonerzy/go-cmdline/cmdline"
	"github.com/dzonerzy/go-cmdline/console"
	"github.com/dzonerzy/go-cmdline/internal/pool"
)

const (
	indent   = 2
	gutter   = 2
	minWrap  = 20
	maxWidth = 120
)

// Renderer writes help in sections: description, usage, arguments,
// options and commands. Hidden symbols are omitted.
type Renderer struct {
	console *console.Console
	theme   console.Theme
	width   int
}

var _ cmdline.HelpRenderer = (*Renderer)(nil)

// New returns a renderer styling headings for con. A nil console renders
// plain text at 80 columns.
func New(con *console.Console) *Renderer {
	if con == nil {
		con = console.Buffered(io.Discard, io.Discard)
	}
	return &Renderer{console: con, theme: console.DefaultTheme()}
}

// WithTheme replaces the heading styles.
func (r *Renderer) WithTheme(t console.Theme) *Renderer {
	r.theme = t
	return r
}

// WithWidth fixes the wrap width instead of asking the console.
func (r *Renderer) WithWidth(width int) *Renderer {
	r.width = width
	return r
}

// Render writes help for cmd to w.
func (r *Renderer) Render(w io.Writer, cmd *cmdline.Command) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)
	profile := r.console.Profile(w)

	if d := cmd.Description(); d != "" {
		r.heading(buf, profile, "Description:")
		for _, line := range wrap(d, r.lineWidth()-indent) {
			fmt.Fprintf(buf, "%*s%s\n", indent, "", line)
		}
		buf.WriteByte('\n')
	}

	r.heading(buf, profile, "Usage:")
	fmt.Fprintf(buf, "%*s%s\n", indent, "", usage(cmd))

	if rows := argumentRows(cmd); len(rows) > 0 {
		buf.WriteByte('\n')
		r.heading(buf, profile, "Arguments:")
		r.columns(buf, rows)
	}
	if rows := optionRows(cmd); len(rows) > 0 {
		buf.WriteByte('\n')
		r.heading(buf, profile, "Options:")
		r.columns(buf, rows)
	}
	if rows := commandRows(cmd); len(rows) > 0 {
		buf.WriteByte('\n')
		r.heading(buf, profile, "Commands:")
		r.columns(buf, rows)
	}
	buf.WriteByte('\n')

	_, _ = w.Write(buf.Bytes())
}

func (r *Renderer) heading(buf io.Writer, profile termenv.Profile, text string) {
	fmt.Fprintln(buf, r.theme.Heading.Render(profile, text))
}

func (r *Renderer) lineWidth() int {
	if r.width > 0 {
		return r.width
	}
	return min(r.console.Width(), maxWidth)
}

type row struct {
	label string
	desc  string
}

// columns writes rows as two aligned columns, wrapping descriptions.
func (r *Renderer) columns(w io.Writer, rows []row) {
	first := 0
	for _, rw := range rows {
		first = max(first, runewidth.StringWidth(rw.label))
	}
	descWidth := max(r.lineWidth()-indent-first-gutter, minWrap)
	hang := strings.Repeat(" ", indent+first+gutter)
	for _, rw := range rows {
		lines := wrap(rw.desc, descWidth)
		if len(lines) == 0 {
			fmt.Fprintf(w, "%*s%s\n", indent, "", rw.label)
			continue
		}
		fmt.Fprintf(w, "%*s%s%*s%s\n", indent, "", runewidth.FillRight(rw.label, first), gutter, "", lines[0])
		for _, l := range lines[1:] {
			fmt.Fprintf(w, "%s%s\n", hang, l)
		}
	}
}

func usage(cmd *cmdline.Command) string {
	parts := []string{strings.Join(cmd.Path(), " ")}
	for _, a := range cmd.Arguments() {
		if !a.IsHidden() {
			parts = append(parts, argumentUsage(a))
		}
	}
	if len(visibleOptions(cmd)) > 0 {
		parts = append(parts, "[options]")
	}
	if len(visibleCommands(cmd)) > 0 {
		if cmd.Handler() == nil {
			parts = append(parts, "command")
		} else {
			parts = append(parts, "[command]")
		}
	}
	return strings.Join(parts, " ")
}

func argumentUsage(a *cmdline.Argument) string {
	label := argumentLabel(a)
	arity := a.Arity()
	if arity.Max > 1 {
		label += "..."
	}
	if arity.Min == 0 {
		return "[" + label + "]"
	}
	return label
}

// argumentLabel returns "<name>", or the allowed values joined by "|".
func argumentLabel(a *cmdline.Argument) string {
	if allowed := a.AllowedValues(); len(allowed) > 0 {
		return "<" + strings.Join(allowed, "|") + ">"
	}
	return "<" + a.Name() + ">"
}

func argumentRows(cmd *cmdline.Command) []row {
	var rows []row
	for _, a := range cmd.Arguments() {
		if a.IsHidden() {
			continue
		}
		rows = append(rows, row{label: argumentLabel(a), desc: withDefault(a.Description(), a)})
	}
	return rows
}

func optionRows(cmd *cmdline.Command) []row {
	var rows []row
	for _, o := range visibleOptions(cmd) {
		aliases := slices.Clone(o.Aliases())
		slices.SortStableFunc(aliases, func(a, b string) int { return len(a) - len(b) })
		label := strings.Join(aliases, ", ")
		if arg := o.Argument(); o.TakesValue() && arg.Arity().Min > 0 {
			label += " " + argumentLabel(arg)
		}
		desc := withDefault(o.Description(), o.Argument())
		if vars := o.EnvVars(); len(vars) > 0 {
			desc = strings.TrimSpace(desc + " [env: " + strings.Join(vars, ", ") + "]")
		}
		if o.IsRequired() {
			desc = strings.TrimSpace(desc + " (REQUIRED)")
		}
		rows = append(rows, row{label: label, desc: desc})
	}
	return rows
}

func commandRows(cmd *cmdline.Command) []row {
	var rows []row
	for _, sub := range visibleCommands(cmd) {
		label := sub.Name()
		if args := sub.Arguments(); len(args) > 0 {
			for _, a := range args {
				if !a.IsHidden() {
					label += " " + argumentUsage(a)
				}
			}
		}
		rows = append(rows, row{label: label, desc: sub.Description()})
	}
	return rows
}

func withDefault(desc string, a *cmdline.Argument) string {
	if !a.HasDefault() || a.IsNone() {
		return desc
	}
	v, err := a.DefaultValue()
	if err != nil || v == nil {
		return desc
	}
	return strings.TrimSpace(fmt.Sprintf("%s [default: %v]", desc, v))
}

// visibleOptions returns the command's options followed by global options
// inherited from ancestors, skipping hidden ones.
func visibleOptions(cmd *cmdline.Command) []*cmdline.Option {
	var out []*cmdline.Option
	add := func(o *cmdline.Option) {
		if !o.IsHidden() && !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	for _, o := range cmd.Options() {
		add(o)
	}
	for p := parentCommand(cmd); p != nil; p = parentCommand(p) {
		for _, g := range p.GlobalOptions() {
			if !shadowed(cmd, g) {
				add(g)
			}
		}
	}
	return out
}

func shadowed(cmd *cmdline.Command, g *cmdline.Option) bool {
	for _, alias := range g.Aliases() {
		if o, ok := cmd.Option(alias); ok && o != g {
			return true
		}
	}
	return false
}

func visibleCommands(cmd *cmdline.Command) []*cmdline.Command {
	var out []*cmdline.Command
	for _, sub := range cmd.Subcommands() {
		if !sub.IsHidden() {
			out = append(out, sub)
		}
	}
	return out
}

func parentCommand(cmd *cmdline.Command) *cmdline.Command {
	for _, p := range cmd.Parents() {
		if c, ok := p.(*cmdline.Command); ok {
			return c
		}
	}
	return nil
}

// wrap breaks text into lines no wider than width display columns.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	lineWidth := runewidth.StringWidth(line)
	for _, word := range words[1:] {
		ww := runewidth.StringWidth(word)
		if lineWidth+1+ww > width {
			lines = append(lines, line)
			line, lineWidth = word, ww
			continue
		}
		line += " " + word
		lineWidth += 1 + ww
	}
	return append(lines, line)
}
