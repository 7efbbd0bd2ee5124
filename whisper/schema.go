package whisper

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// unitSeconds maps the short retention-spec unit suffixes to their
// multiplier in seconds.
var unitSeconds = map[byte]uint32{
	's': 1,
	'm': 60,
	'h': 3600,
	'd': 86400,
	'w': 604800,
	'y': 31536000,
}

var specTermRegexp = regexp.MustCompile(`^([0-9]+)([smhdwy]?)$`)

// RetentionSpec is one precision:retention pair of a schema, already
// resolved to seconds.
type RetentionSpec struct {
	Precision uint32 // seconds per point
	Retention uint32 // total seconds retained
}

// Points is the number of slots an archive with this spec holds.
func (r RetentionSpec) Points() uint32 {
	return r.Retention / r.Precision
}

// parseSpecTerm parses one side of a "<n>{s|m|h|d|w|y}" term into seconds.
// A missing unit suffix means the number is already in seconds.
func parseSpecTerm(term string) (uint32, error) {
	m := specTermRegexp.FindStringSubmatch(term)
	if m == nil {
		return 0, fmt.Errorf("%w: invalid duration term %q", ErrSchemaInvalid, term)
	}

	n, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid duration term %q: %v", ErrSchemaInvalid, term, err)
	}

	if m[2] == "" {
		return uint32(n), nil
	}
	return uint32(n) * unitSeconds[m[2][0]], nil
}

// ParseRetentionSpec parses a single "<precision>:<retention>" string, e.g.
// "1m:1h" or "60:3600", into a RetentionSpec.
func ParseRetentionSpec(s string) (RetentionSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return RetentionSpec{}, fmt.Errorf("%w: could not parse retention spec %q", ErrSchemaInvalid, s)
	}

	precision, err := parseSpecTerm(strings.TrimSpace(parts[0]))
	if err != nil {
		return RetentionSpec{}, err
	}
	if precision == 0 {
		return RetentionSpec{}, fmt.Errorf("%w: precision must be non-zero in %q", ErrSchemaInvalid, s)
	}

	retention, err := parseSpecTerm(strings.TrimSpace(parts[1]))
	if err != nil {
		return RetentionSpec{}, err
	}

	if retention%precision != 0 {
		return RetentionSpec{}, fmt.Errorf("%w: retention %d is not a multiple of precision %d in %q",
			ErrSchemaInvalid, retention, precision, s)
	}

	return RetentionSpec{Precision: precision, Retention: retention}, nil
}

// Schema is an ordered, validated list of retention specs, increasing in
// precision (decreasing in resolution).
type Schema struct {
	Specs []RetentionSpec
}

// ParseSchema parses and validates a list of "<precision>:<retention>"
// strings into a Schema. The specs are sorted by precision ascending; the
// result is rejected unless, for every adjacent pair, the coarser
// precision is an integer multiple of the finer one and strictly greater
// than it.
func ParseSchema(specStrings []string) (Schema, error) {
	if len(specStrings) == 0 {
		return Schema{}, fmt.Errorf("%w: schema must have at least one retention spec", ErrSchemaInvalid)
	}

	specs := make([]RetentionSpec, len(specStrings))
	for i, s := range specStrings {
		spec, err := ParseRetentionSpec(s)
		if err != nil {
			return Schema{}, err
		}
		specs[i] = spec
	}

	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Precision < specs[j].Precision
	})

	for i := 0; i < len(specs)-1; i++ {
		fine, coarse := specs[i], specs[i+1]
		if fine.Precision == coarse.Precision {
			return Schema{}, fmt.Errorf("%w: duplicate precision %d", ErrSchemaInvalid, fine.Precision)
		}
		if coarse.Precision%fine.Precision != 0 {
			return Schema{}, fmt.Errorf("%w: precision %d does not evenly divide precision %d",
				ErrSchemaInvalid, fine.Precision, coarse.Precision)
		}
		if coarse.Retention <= fine.Retention {
			return Schema{}, fmt.Errorf("%w: retention must strictly increase with coarser precision (%d <= %d)",
				ErrSchemaInvalid, coarse.Retention, fine.Retention)
		}
		if needed := coarse.Precision / fine.Precision; fine.Points() < needed {
			return Schema{}, fmt.Errorf("%w: archive %d:%d has only %d points, needs at least %d to consolidate into %d:%d",
				ErrSchemaInvalid, fine.Precision, fine.Retention, fine.Points(), needed, coarse.Precision, coarse.Retention)
		}
	}

	return Schema{Specs: specs}, nil
}

// HeaderSizeOnDisk is the size, in bytes, of the metadata plus archive
// index for this schema.
func (s Schema) HeaderSizeOnDisk() uint32 {
	return HeaderSize(len(s.Specs))
}

// SizeOnDisk is the total file size this schema requires: the header plus
// every archive's data region.
func (s Schema) SizeOnDisk() uint32 {
	size := s.HeaderSizeOnDisk()
	for _, spec := range s.Specs {
		size += spec.Points() * pointSize
	}
	return size
}

// MaxRetention is the retention of the coarsest (last) archive.
func (s Schema) MaxRetention() uint32 {
	if len(s.Specs) == 0 {
		return 0
	}
	return s.Specs[len(s.Specs)-1].Retention
}

// ArchiveInfos lays the schema's specs out as ArchiveInfo descriptors,
// assigning each its absolute byte offset in declaration order.
func (s Schema) ArchiveInfos() []ArchiveInfo {
	archives := make([]ArchiveInfo, len(s.Specs))
	offset := s.HeaderSizeOnDisk()
	for i, spec := range s.Specs {
		archives[i] = ArchiveInfo{
			Offset:          offset,
			SecondsPerPoint: spec.Precision,
			Points:          spec.Points(),
		}
		offset += archives[i].SizeInBytes()
	}
	return archives
}
