// Package config loads named retention-schema presets from a flat text
// configuration file, sparing CLI callers from spelling out archive specs
// on every invocation. It is sugar over whisper.ParseSchema: it does not
// change the on-disk format or the schema parser's validation contract.
//
// The file format is a subset of the graphite storage-schemas.conf shape:
//
//	[standard]
//	retentions = 1m:1h, 1h:1d, 1d:1y
//
//	[high-res]
//	retentions = 10s:1d
//
// Blank lines and lines starting with # are ignored.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Preset is one named, ordered list of retention-spec strings, as read
// from a config file section.
type Preset struct {
	Name        string
	Retentions  []string
	sectionLine int
}

// DefaultPresets are built in so `whisper create --preset=standard` works
// with no config file at all.
var DefaultPresets = map[string]Preset{
	"standard": {Name: "standard", Retentions: []string{"1m:1h", "1h:1d", "1d:1y"}},
	"high-res": {Name: "high-res", Retentions: []string{"10s:1d", "1m:1w"}},
}

// LoadPresets parses a storage-schemas.conf-style file into a name→Preset
// map. Later sections with a duplicate name overwrite earlier ones,
// matching top-to-bottom file precedence.
func LoadPresets(path string) (map[string]Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: opening %s: %w", path, err)
	}
	defer f.Close()

	return parsePresets(f)
}

func parsePresets(r io.Reader) (map[string]Preset, error) {
	presets := make(map[string]Preset)

	var name string
	var retentions string
	lineNo := 0
	sectionLine := 0

	flush := func() error {
		if name == "" {
			return nil
		}
		if retentions == "" {
			return fmt.Errorf("config: section [%s] at line %d has no retentions", name, sectionLine)
		}
		specs := splitAndTrim(retentions, ",")
		presets[name] = Preset{Name: name, Retentions: specs, sectionLine: sectionLine}
		name, retentions = "", ""
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if err := flush(); err != nil {
				return nil, err
			}
			name = strings.TrimSpace(line[1 : len(line)-1])
			sectionLine = lineNo
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("config: malformed line %d: %q", lineNo, line)
		}
		if strings.TrimSpace(strings.ToLower(key)) == "retentions" {
			retentions = strings.TrimSpace(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: scanning: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return presets, nil
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
