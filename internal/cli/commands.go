package cli

import (
	"fmt"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/blakesmith/whisperdb/internal/config"
	"github.com/blakesmith/whisperdb/pkg/clock"
	"github.com/blakesmith/whisperdb/whisper"
)

// newCreateCommand builds the "create" subcommand: create a new whisper
// file from a retention schema given either as explicit specs or a named
// preset.
func newCreateCommand(log *zap.SugaredLogger) *Command {
	flags := flag.NewFlagSet("create", flag.ContinueOnError)
	xff := flags.Float32("xff", 0.5, "x-files-factor, in [0,1]")
	aggregation := flags.String("aggregation", "average", "aggregation method: average, sum, last, max, min")
	preset := flags.String("preset", "", "named retention preset instead of explicit specs")
	presetsFile := flags.String("presets-file", "", "load presets from this config file in addition to the built-ins")

	return &Command{
		Name:  "create",
		Usage: "<file> [<spec>[,<spec>...]]",
		Short: "create a new whisper database with the given retention schema",
		Flags: flags,
		Exec: func(io *IO, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("create requires a file path")
			}
			path := args[0]

			specStrings, err := resolveSpecStrings(*preset, *presetsFile, args[1:])
			if err != nil {
				return err
			}

			schema, err := whisper.ParseSchema(specStrings)
			if err != nil {
				return err
			}

			method, err := parseAggregationMethod(*aggregation)
			if err != nil {
				return err
			}

			f, err := whisper.Create(path, schema, *xff, method)
			if err != nil {
				return err
			}
			defer f.Close()

			log.Infow("created whisper file", "path", path, "archives", len(schema.Specs))
			io.Println("created", path)
			return nil
		},
	}
}

// resolveSpecStrings picks the retention specs to use: explicit specs (as
// a single comma-joined positional argument) take precedence over
// --preset, which in turn is looked up in --presets-file then the
// built-in defaults.
func resolveSpecStrings(preset, presetsFile string, positional []string) ([]string, error) {
	if len(positional) > 0 {
		return strings.Split(positional[0], ","), nil
	}
	if preset == "" {
		return nil, fmt.Errorf("either a retention spec or --preset is required")
	}

	if presetsFile != "" {
		loaded, err := config.LoadPresets(presetsFile)
		if err != nil {
			return nil, err
		}
		if p, ok := loaded[preset]; ok {
			return p.Retentions, nil
		}
	}

	p, ok := config.DefaultPresets[preset]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q", preset)
	}
	return p.Retentions, nil
}

func parseAggregationMethod(name string) (whisper.AggregationMethod, error) {
	switch strings.ToLower(name) {
	case "average", "avg":
		return whisper.Average, nil
	case "sum":
		return whisper.Sum, nil
	case "last":
		return whisper.Last, nil
	case "max":
		return whisper.Max, nil
	case "min":
		return whisper.Min, nil
	default:
		return 0, fmt.Errorf("unknown aggregation method %q", name)
	}
}

// newInfoCommand builds the "info" subcommand: print the header and
// archive descriptors of an existing file.
func newInfoCommand(log *zap.SugaredLogger) *Command {
	return &Command{
		Name:  "info",
		Usage: "<file>",
		Short: "print header and archive metadata for a whisper file",
		Exec: func(io *IO, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("info requires a file path")
			}
			f, err := whisper.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			log.Infow("read header", "path", args[0], "archives", len(f.Header().Archives))
			printInfo(io, f.Header())
			return nil
		},
	}
}

func printInfo(io *IO, header whisper.Header) {
	io.Printf("aggregation method: %s\n", header.Metadata.AggregationMethod)
	io.Printf("max retention: %d\n", header.Metadata.MaxRetention)
	io.Printf("x_files_factor: %g\n", header.Metadata.XFilesFactor)
	io.Printf("archive count: %d\n", header.Metadata.ArchiveCount)
	io.Println()

	for i, archive := range header.Archives {
		io.Printf("archive %d\n", i)
		io.Printf("  offset: %d\n", archive.Offset)
		io.Printf("  seconds per point: %d\n", archive.SecondsPerPoint)
		io.Printf("  points: %d\n", archive.Points)
		io.Printf("  retention: %d\n", archive.Retention())
	}
}

// newDumpCommand builds the "dump" subcommand: print every non-empty
// point of one archive.
func newDumpCommand(log *zap.SugaredLogger) *Command {
	flags := flag.NewFlagSet("dump", flag.ContinueOnError)
	archiveIndex := flags.Int("archive", 0, "index of the archive to dump, finest first")

	return &Command{
		Name:  "dump",
		Usage: "<file>",
		Short: "print every stored point in one archive",
		Flags: flags,
		Exec: func(io *IO, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("dump requires a file path")
			}
			f, err := whisper.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			points, err := f.DumpArchive(*archiveIndex)
			if err != nil {
				return err
			}
			log.Infow("dumped archive", "path", args[0], "archive", *archiveIndex, "points", len(points))
			for _, p := range points {
				io.Printf("%d %g\n", p.Timestamp, p.Value)
			}
			return nil
		},
	}
}

// newUpdateCommand builds the "update" subcommand: write one point at an
// explicit timestamp.
func newUpdateCommand(clk clock.Clock, log *zap.SugaredLogger) *Command {
	return &Command{
		Name:  "update",
		Usage: "<file> <timestamp> <value>",
		Short: "write a single point at the given timestamp",
		Exec: func(io *IO, args []string) error {
			if len(args) < 3 {
				return fmt.Errorf("update requires a file, timestamp, and value")
			}
			timestamp, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid timestamp %q: %w", args[1], err)
			}
			value, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[2], err)
			}

			return writePoint(clk, log, args[0], whisper.Point{Timestamp: uint32(timestamp), Value: value})
		},
	}
}

// newMarkCommand builds the "mark" subcommand: write one point at the
// process clock's current time.
func newMarkCommand(clk clock.Clock, log *zap.SugaredLogger) *Command {
	return &Command{
		Name:  "mark",
		Usage: "<file> <value>",
		Short: "write a single point at the current time",
		Exec: func(io *IO, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("mark requires a file and a value")
			}
			value, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[1], err)
			}

			return writePoint(clk, log, args[0], whisper.Point{Timestamp: clk.Now(), Value: value})
		},
	}
}

func writePoint(clk clock.Clock, log *zap.SugaredLogger, path string, point whisper.Point) error {
	f, err := whisper.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	currentTime := clk.Now()
	if err := f.Write(currentTime, point); err != nil {
		return err
	}

	log.Debugw("wrote point", "path", path, "timestamp", point.Timestamp, "value", point.Value)
	return nil
}
