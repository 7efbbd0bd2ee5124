// Command whisper is the CLI glue around the whisper file-format core:
// create, info, dump, update, and mark. The core package itself never
// logs or calls os.Exit; this binary is where those ambient concerns live.
package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/blakesmith/whisperdb/internal/cli"
	"github.com/blakesmith/whisperdb/pkg/clock"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	code := cli.Run(os.Args[1:], os.Stdout, os.Stderr, clock.System{}, logger.Sugar())
	os.Exit(code)
}
