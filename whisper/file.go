package whisper

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	natomic "github.com/natefinch/atomic"
)

// File is an open handle to a whisper database: an in-memory mirror of its
// header plus the backing file descriptor used for every read and write.
//
// File is single-threaded per handle: there is no internal locking, and
// callers sharing a handle across goroutines must serialize access
// themselves.
type File struct {
	header Header
	handle *os.File
}

// Header returns the file's metadata and archive descriptors.
func (f *File) Header() Header {
	return f.header
}

// Close releases the underlying file descriptor.
func (f *File) Close() error {
	if err := f.handle.Close(); err != nil {
		return fmt.Errorf("%w: closing file: %v", ErrIO, err)
	}
	return nil
}

// Create creates a new whisper database at path with the given retention
// schema, x-files-factor, and aggregation method. The file is staged in a
// temporary sibling file and published atomically, so a crash mid-creation
// never leaves a half-initialized file visible at path. It is an error
// for a file to already exist at path.
func Create(path string, schema Schema, xFilesFactor float32, aggregationMethod AggregationMethod) (*File, error) {
	if xFilesFactor < 0 || xFilesFactor > 1 {
		return nil, fmt.Errorf("%w: x_files_factor %f out of range [0,1]", ErrSchemaInvalid, xFilesFactor)
	}
	if len(schema.Specs) == 0 {
		return nil, fmt.Errorf("%w: schema has no archives", ErrSchemaInvalid)
	}

	if _, err := os.Lstat(path); err == nil {
		return nil, fmt.Errorf("%w: file already exists: %s", ErrIO, path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: checking for existing file: %v", ErrIO, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".whisper-create-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("%w: creating temp file: %v", ErrIO, err)
	}
	tmpPath := tmp.Name()
	// Clean up the staging file on any failure path below; once
	// ReplaceFile succeeds this is a no-op (the file is already gone).
	defer os.Remove(tmpPath)

	archives := schema.ArchiveInfos()
	metadata := Metadata{
		AggregationMethod: aggregationMethod,
		MaxRetention:      schema.MaxRetention(),
		XFilesFactor:      xFilesFactor,
		ArchiveCount:      uint32(len(archives)),
	}

	if err := stageWhisperFile(tmp, schema, metadata, archives); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing temp file: %v", ErrIO, err)
	}

	if err := natomic.ReplaceFile(tmpPath, path); err != nil {
		return nil, fmt.Errorf("%w: publishing %s: %v", ErrIO, path, err)
	}

	return Open(path)
}

// stageWhisperFile writes the header and truncates the temp file to its
// final, schema-declared size. Truncation beyond the header zero-fills the
// remainder (sparse on filesystems that support holes), which is exactly
// the "empty slot" sentinel the point codec expects.
func stageWhisperFile(tmp *os.File, schema Schema, metadata Metadata, archives []ArchiveInfo) error {
	if err := WriteHeader(tmp, metadata, archives); err != nil {
		return err
	}
	if err := tmp.Truncate(int64(schema.SizeOnDisk())); err != nil {
		return fmt.Errorf("%w: truncating to %d bytes: %v", ErrIO, schema.SizeOnDisk(), err)
	}
	return nil
}

// Open opens an existing whisper database, reading and validating its
// header.
func Open(path string) (*File, error) {
	handle, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrIO, path, err)
	}

	header, err := ReadHeader(handle)
	if err != nil {
		handle.Close()
		return nil, err
	}

	return &File{header: header, handle: handle}, nil
}

// Write updates the database with a single sample, cascading the write
// from the finest archive that still retains it through the coarser
// archives in order. The cascade stops at the first coarser archive whose
// downsample step is skipped for insufficient coverage; archives beyond it
// are not updated.
func (f *File) Write(currentTime uint32, point Point) error {
	if point.Timestamp > currentTime {
		return ErrPointInFuture
	}

	age := currentTime - point.Timestamp
	index, err := f.selectArchive(age)
	if err != nil {
		return err
	}

	finest := f.header.Archives[index]
	base, err := f.baseTimestamp(finest)
	if err != nil {
		return err
	}

	aligned := finest.IntervalCeiling(point.Timestamp)
	if err := f.writePointAt(finest, Point{Timestamp: aligned, Value: point.Value}, base); err != nil {
		return err
	}

	higher := finest
	for i := index + 1; i < len(f.header.Archives); i++ {
		coarse := f.header.Archives[i]
		applied, err := f.downsample(higher, coarse, point.Timestamp)
		if err != nil {
			return err
		}
		if !applied {
			break
		}
		higher = coarse
	}

	return nil
}

// WriteMany applies a batch of points through Write, in ascending
// timestamp order, skipping (rather than aborting the batch on) any point
// that falls outside retention or in the future.
func (f *File) WriteMany(currentTime uint32, points []Point) error {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	for _, p := range sorted {
		if err := f.Write(currentTime, p); err != nil {
			if errIsDomain(err) {
				continue
			}
			return err
		}
	}
	return nil
}

// errIsDomain reports whether err is one of the recoverable domain errors
// (as opposed to an I/O or corruption failure), which WriteMany tolerates
// on a per-point basis.
func errIsDomain(err error) bool {
	return err == ErrPointInFuture || err == ErrPointOutsideRetention
}

// DumpArchive decodes every slot of the archive at index, in ring order
// starting from its base timestamp (slot 0), skipping sentinel-empty
// slots. This is the minimal read the info/dump CLI glue needs; it is not
// a time-range query API.
func (f *File) DumpArchive(index int) ([]Point, error) {
	if index < 0 || index >= len(f.header.Archives) {
		return nil, fmt.Errorf("whisper: archive index %d out of range [0,%d)", index, len(f.header.Archives))
	}

	archive := f.header.Archives[index]
	all, err := f.readSlots(archive, 0, archive.Points)
	if err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(all))
	for _, p := range all {
		if !p.IsEmpty() {
			points = append(points, p)
		}
	}
	return points, nil
}

// selectArchive returns the index of the finest archive whose retention
// still covers a sample of the given age.
func (f *File) selectArchive(age uint32) (int, error) {
	for i, archive := range f.header.Archives {
		if archive.Retention() > age {
			return i, nil
		}
	}
	return 0, ErrPointOutsideRetention
}

// downsample propagates one write from the fine archive into the coarse
// archive's slot covering anchor. It returns false (without error) when
// the coverage of valid fine-archive samples falls below the
// x-files-factor, in which case the coarse archive, and the cascade, are
// left untouched.
func (f *File) downsample(fine, coarse ArchiveInfo, anchor uint32) (bool, error) {
	windowStart := coarse.IntervalCeiling(anchor)
	needed := coarse.SecondsPerPoint / fine.SecondsPerPoint

	fineBase, err := f.baseTimestamp(fine)
	if err != nil {
		return false, err
	}

	startSlot := uint32(0)
	if fineBase != 0 {
		timespan := int64(windowStart) - int64(fineBase)
		points := timespan / int64(fine.SecondsPerPoint)
		startSlot = uint32(euclideanModI64(points, int64(fine.Points)))
	}

	samples, err := f.readWindow(fine, startSlot, needed)
	if err != nil {
		return false, err
	}

	kept := make([]float64, 0, needed)
	expected := windowStart
	for _, sample := range samples {
		if sample.Timestamp == expected {
			kept = append(kept, sample.Value)
		}
		expected += fine.SecondsPerPoint
	}

	if len(kept) == 0 {
		return false, nil
	}

	coverage := float32(len(kept)) / float32(needed)
	if coverage < f.header.Metadata.XFilesFactor {
		return false, nil
	}

	value, err := aggregate(f.header.Metadata.AggregationMethod, kept)
	if err != nil {
		return false, fmt.Errorf("whisper: %v", err)
	}

	coarseBase, err := f.baseTimestamp(coarse)
	if err != nil {
		return false, err
	}

	if err := f.writePointAt(coarse, Point{Timestamp: windowStart, Value: value}, coarseBase); err != nil {
		return false, err
	}

	return true, nil
}

// readWindow reads count consecutive slots starting at startSlot from
// archive, handling the ring-boundary wraparound via WindowSlice.
func (f *File) readWindow(archive ArchiveInfo, startSlot, count uint32) ([]Point, error) {
	first, second := archive.WindowSlice(startSlot, count)

	points, err := f.readSlots(archive, first.Start, first.Count)
	if err != nil {
		return nil, err
	}
	if second != nil {
		rest, err := f.readSlots(archive, second.Start, second.Count)
		if err != nil {
			return nil, err
		}
		points = append(points, rest...)
	}
	return points, nil
}

// baseTimestamp returns the timestamp stored in archive's slot 0, or 0 if
// the archive has never been written.
func (f *File) baseTimestamp(archive ArchiveInfo) (uint32, error) {
	points, err := f.readSlots(archive, 0, 1)
	if err != nil {
		return 0, err
	}
	return points[0].Timestamp, nil
}

// readSlots reads count consecutive slots starting at slot startSlot
// within archive. It does not handle ring wraparound; callers crossing the
// boundary must issue two calls (see readWindow).
func (f *File) readSlots(archive ArchiveInfo, startSlot, count uint32) ([]Point, error) {
	if count == 0 {
		return nil, nil
	}

	offset := archive.Offset + startSlot*pointSize
	buf := make([]byte, count*pointSize)
	if _, err := f.handle.ReadAt(buf, int64(offset)); err != nil {
		return nil, fmt.Errorf("%w: reading %d points at offset %d: %v", ErrIO, count, offset, err)
	}

	points := make([]Point, count)
	for i := range points {
		p, err := DecodePoint(buf[i*pointSize : (i+1)*pointSize])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}
		points[i] = p
	}
	return points, nil
}

// writePointAt writes point into archive at the slot Seek resolves for
// its timestamp, given the archive's current base timestamp.
func (f *File) writePointAt(archive ArchiveInfo, point Point, base uint32) error {
	offset := archive.Seek(point.Timestamp, base)
	buf := EncodePoint(point.Timestamp, point.Value)
	if _, err := f.handle.WriteAt(buf[:], int64(offset)); err != nil {
		return fmt.Errorf("%w: writing point at offset %d: %v", ErrIO, offset, err)
	}
	return nil
}
