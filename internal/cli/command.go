package cli

import (
	"errors"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command defines a single CLI subcommand with its own flag set.
type Command struct {
	// Name is the subcommand name, e.g. "info" or "create".
	Name string

	// Usage is the freeform usage string shown after "whisper <name>",
	// e.g. "<file> <spec>[,<spec>...]".
	Usage string

	// Short is a one-line description shown in the top-level help listing.
	Short string

	// Flags holds command-specific flags. May be nil for commands that
	// take none.
	Flags *flag.FlagSet

	// Exec runs the command with its parsed positional arguments.
	Exec func(io *IO, args []string) error
}

// Run parses flags out of args and executes the command, returning a
// process exit code. Errors are printed to io.ErrOut and mapped to an
// exit code via exitCodeFor.
func (c *Command) Run(io *IO, args []string) int {
	positional := args
	if c.Flags != nil {
		c.Flags.SetOutput(&strings.Builder{}) // discard pflag's own usage output
		if err := c.Flags.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				c.printHelp(io)
				return 0
			}
			io.ErrPrintln("error:", err)
			return exitCodeFor(err)
		}
		positional = c.Flags.Args()
	}

	if err := c.Exec(io, positional); err != nil {
		io.ErrPrintln("error:", err)
		return exitCodeFor(err)
	}

	return 0
}

func (c *Command) printHelp(io *IO) {
	io.Println("usage: whisper", c.Name, c.Usage)
	if c.Short != "" {
		io.Println(c.Short)
	}
	if c.Flags != nil && c.Flags.HasFlags() {
		io.Println()
		io.Println("flags:")
		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		io.Printf("%s", buf.String())
	}
}
