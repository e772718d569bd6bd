// Package output handles terminal output formatting with optional color.
package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/mgutz/ansi"
)

// Output writes results and warnings with optional color support. It is
// safe for concurrent use.
type Output struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer

	cyan   func(string) string
	white  func(string) string
	yellow func(string) string
}

// New creates a new Output over the given writers.
func New(stdout, stderr io.Writer, colorize bool) *Output {
	color := func(name string) func(string) string {
		if colorize {
			return ansi.ColorFunc(name)
		}
		return ansi.ColorFunc("")
	}

	return &Output{
		stdout: stdout,
		stderr: stderr,
		cyan:   color("cyan"),
		white:  color("white"),
		yellow: color("yellow"),
	}
}

// Result writes a labeled parse result in the format: expression: value.
func (o *Output) Result(expr, value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stdout, "%s: %s\n", o.cyan(expr), o.white(value))
}

// Plain writes a bare value line.
func (o *Output) Plain(value string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stdout, "%s\n", value)
}

// Warningf writes a formatted warning message to stderr.
func (o *Output) Warningf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stderr, o.yellow("Warning: ")+format+"\n", args...)
}
