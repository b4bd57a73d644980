package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaguanLabs/i18nsync/catalog"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var tagColors = map[string]color.Attribute{
	"NF":  color.FgYellow,
	"ADD": color.FgGreen,
	"SKP": color.FgHiBlack,
	"EXT": color.FgMagenta,
	"DEL": color.FgRed,
	"ERR": color.FgRed,
	"SUM": color.FgBlue,
	"FIL": color.FgCyan,
	"RUN": color.FgCyan,
	"TOT": color.FgCyan,
	"OK":  color.FgGreen,
}

// statusPrinter writes "[TAG] message" lines. Errors go to stderr.
type statusPrinter struct {
	stdout   io.Writer
	stderr   io.Writer
	colorOut bool
	colorErr bool
	cwd      string
	quiet    bool
}

func newStatusPrinter(stdout, stderr io.Writer, getenv func(string) string, cwd string) *statusPrinter {
	return &statusPrinter{
		stdout:   stdout,
		stderr:   stderr,
		colorOut: supportsColor(stdout, getenv),
		colorErr: supportsColor(stderr, getenv),
		cwd:      cwd,
	}
}

// supportsColor reports whether w is a terminal and colors are not
// disabled through NO_COLOR or TERM=dumb.
func supportsColor(w io.Writer, getenv func(string) string) bool {
	if getenv("NO_COLOR") != "" || strings.EqualFold(getenv("TERM"), "dumb") {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *statusPrinter) Print(tag, message string) {
	tag = strings.ToUpper(tag)
	w, colored := p.stdout, p.colorOut
	if tag == "ERR" {
		w, colored = p.stderr, p.colorErr
	} else if p.quiet {
		return
	}

	label := fmt.Sprintf("%3s", tag)
	if attr, ok := tagColors[tag]; ok && colored {
		c := color.New(attr)
		c.EnableColor()
		label = c.Sprint(label)
	}
	fmt.Fprintf(w, "[%s] %s\n", label, message)
}

func (p *statusPrinter) Printf(tag, format string, args ...any) {
	p.Print(tag, fmt.Sprintf(format, args...))
}

// Report prints a reconciliation event with its path relative to the
// working directory.
func (p *statusPrinter) Report(e catalog.Event) {
	e.Path = p.display(e.Path)
	p.Print(string(e.Kind), e.Message())
}

// display returns path relative to the working directory, prefixed with
// "./" unless it already starts with a dot.
func (p *statusPrinter) display(path string) string {
	if path == "" || p.cwd == "" {
		return filepath.ToSlash(path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(p.cwd, abs)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

var _ catalog.Reporter = (*statusPrinter)(nil)
