package cli

import (
	"fmt"
	"io"
)

// IO wraps the stdout/stderr writers a command prints through, keeping
// command bodies free of direct os.Stdout/os.Stderr references so they
// stay testable against buffers.
type IO struct {
	Out    io.Writer
	ErrOut io.Writer
}

// NewIO constructs an IO from the given writers.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{Out: out, ErrOut: errOut}
}

// Println writes to stdout, like fmt.Fprintln.
func (o *IO) Println(a ...any) {
	_, _ = fmt.Fprintln(o.Out, a...)
}

// Printf writes formatted output to stdout, like fmt.Fprintf.
func (o *IO) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.Out, format, a...)
}

// ErrPrintln writes to stderr, like fmt.Fprintln.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.ErrOut, a...)
}
