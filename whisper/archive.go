package whisper

// ArchiveInfo describes the geometry of one circular archive within a
// whisper file: where it starts, how coarse its samples are, and how many
// of them it holds.
type ArchiveInfo struct {
	Offset          uint32 // absolute byte offset of slot 0 within the file
	SecondsPerPoint uint32 // resolution: seconds represented by one slot
	Points          uint32 // number of slots in the ring
}

// archiveInfoSize is the fixed on-disk width of one ArchiveInfo record.
const archiveInfoSize = 12

// Retention is the total span of time this archive covers, in seconds.
func (a ArchiveInfo) Retention() uint32 {
	return a.SecondsPerPoint * a.Points
}

// SizeInBytes is the total size of this archive's data region.
func (a ArchiveInfo) SizeInBytes() uint32 {
	return a.Points * pointSize
}

// End is the byte offset one past the end of this archive's data region.
func (a ArchiveInfo) End() uint32 {
	return a.Offset + a.SizeInBytes()
}

// IntervalCeiling aligns t down to the nearest multiple of SecondsPerPoint,
// i.e. the start of the slot interval t falls within.
func (a ArchiveInfo) IntervalCeiling(t uint32) uint32 {
	return t - euclideanModU32(t, a.SecondsPerPoint)
}

// Seek computes the absolute byte offset at which point should be written,
// given the archive's current base timestamp (the timestamp stored in
// slot 0, or 0 if the archive has never been written).
//
// When baseTimestamp is zero the archive is empty and every write lands at
// slot 0. Otherwise the offset is derived from the Euclidean-modulo
// distance between the point's aligned timestamp and the base timestamp,
// which is the sole mechanism that places writes within the ring and is
// what allows the distance to be negative (a timestamp before the base)
// and still resolve to a valid slot.
func (a ArchiveInfo) Seek(timestamp uint32, baseTimestamp uint32) uint32 {
	if baseTimestamp == 0 {
		return a.Offset
	}

	timeDistance := int64(a.IntervalCeiling(timestamp)) - int64(baseTimestamp)
	pointDistance := timeDistance / int64(a.SecondsPerPoint)
	byteDistance := pointDistance * int64(pointSize)

	wrapped := euclideanModI64(byteDistance, int64(a.SizeInBytes()))
	return a.Offset + uint32(wrapped)
}

// SlotRange is a contiguous run of slot indices, [Start, Start+Count).
type SlotRange struct {
	Start uint32
	Count uint32
}

// WindowSlice splits a logical run of count slots starting at startIndex
// into one contiguous range, or two when the run crosses the ring
// boundary. The second range, when present, continues from slot 0.
func (a ArchiveInfo) WindowSlice(startIndex, count uint32) (first SlotRange, second *SlotRange) {
	if startIndex+count <= a.Points {
		return SlotRange{Start: startIndex, Count: count}, nil
	}

	firstCount := a.Points - startIndex
	secondCount := count - firstCount
	first = SlotRange{Start: startIndex, Count: firstCount}
	second = &SlotRange{Start: 0, Count: secondCount}
	return first, second
}

// euclideanModU32 returns t mod m, always in [0, m).
func euclideanModU32(t, m uint32) uint32 {
	return uint32(euclideanModI64(int64(t), int64(m)))
}

// euclideanModI64 is the Euclidean modulo of a and b (b > 0): the result
// is always non-negative, unlike Go's truncated-toward-zero %.
func euclideanModI64(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
