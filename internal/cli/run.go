package cli

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/blakesmith/whisperdb/pkg/clock"
)

// Run is the CLI entry point: it dispatches args[0] to the matching
// subcommand and returns a process exit code. args does not include the
// program name (i.e. it is os.Args[1:]).
func Run(args []string, out, errOut io.Writer, clk clock.Clock, log *zap.SugaredLogger) int {
	ioHandle := NewIO(out, errOut)
	commands := allCommands(clk, log)

	if len(args) == 0 {
		printUsage(ioHandle, commands)
		return 1
	}

	name := args[0]
	if name == "-h" || name == "--help" {
		printUsage(ioHandle, commands)
		return 0
	}

	cmd, ok := commands[name]
	if !ok {
		ioHandle.ErrPrintln(fmt.Sprintf("error: unknown command %q", name))
		printUsage(ioHandle, commands)
		return 1
	}

	return cmd.Run(ioHandle, args[1:])
}

func allCommands(clk clock.Clock, log *zap.SugaredLogger) map[string]*Command {
	cmds := []*Command{
		newCreateCommand(log),
		newInfoCommand(log),
		newDumpCommand(log),
		newUpdateCommand(clk, log),
		newMarkCommand(clk, log),
	}

	byName := make(map[string]*Command, len(cmds))
	for _, c := range cmds {
		byName[c.Name] = c
	}
	return byName
}

func printUsage(io *IO, commands map[string]*Command) {
	io.Println("usage: whisper <command> [args]")
	io.Println()
	io.Println("commands:")
	for _, name := range []string{"create", "info", "dump", "update", "mark"} {
		if c, ok := commands[name]; ok {
			io.Printf("  %-10s %s\n", c.Name, c.Short)
		}
	}
}
