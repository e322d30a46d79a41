package oaf

import (
	"fmt"
	"math"
)

// Builder accumulates records and serializes them into one archive.
//
// Records appear in the finished archive in push order. A Builder is
// single-use: after [Builder.Finish] it must be discarded. Builders are not
// safe for concurrent use.
type Builder struct {
	names     []byte
	extraData []byte
	data      []byte
	entries   []tableEntry
	finished  bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Len returns the number of records pushed so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// PushEntry appends one record. The name, extra-data, and payload bytes are
// copied into the builder's segment buffers; the caller may reuse them.
//
// PushEntry returns ErrSizeOverflow when the record would exceed a wire
// field width: more than math.MaxUint32 records, or a segment growing past
// the 64-bit offset space. Nothing is appended on error.
func (b *Builder) PushEntry(sig Signature, name string, extraData, data []byte) error {
	if b.finished {
		return fmt.Errorf("%w: push on finished builder", ErrInternal)
	}
	if len(b.entries) >= math.MaxUint32 {
		return fmt.Errorf("%w: entry count exceeds uint32", ErrSizeOverflow)
	}

	nameOffset, err := segmentEnd(b.names, len(name))
	if err != nil {
		return err
	}
	extraDataOffset, err := segmentEnd(b.extraData, len(extraData))
	if err != nil {
		return err
	}
	dataOffset, err := segmentEnd(b.data, len(data))
	if err != nil {
		return err
	}

	b.names = append(b.names, name...)
	b.extraData = append(b.extraData, extraData...)
	b.data = append(b.data, data...)
	b.entries = append(b.entries, tableEntry{
		sig:             sig,
		nameOffset:      nameOffset,
		nameLen:         uint64(len(name)),
		extraDataOffset: extraDataOffset,
		extraDataLen:    uint64(len(extraData)),
		dataOffset:      dataOffset,
		dataLen:         uint64(len(data)),
	})
	return nil
}

// segmentEnd returns the pre-append offset for a segment and verifies the
// appended length still fits the 64-bit offset space.
func segmentEnd(segment []byte, add int) (uint64, error) {
	offset := uint64(len(segment))
	if uint64(add) > math.MaxUint64-offset {
		return 0, fmt.Errorf("%w: segment exceeds uint64 offset space", ErrSizeOverflow)
	}
	return offset, nil
}

// Finish serializes the accumulated records into one archive buffer:
// header, entry table, names segment, extra-data segment, payload segment,
// in that fixed order. The builder's state is consumed.
//
// An empty builder produces a valid archive with zero entries.
func (b *Builder) Finish() ([]byte, error) {
	if b.finished {
		return nil, fmt.Errorf("%w: builder already finished", ErrInternal)
	}
	b.finished = true

	tableSize := uint64(len(b.entries)) * tableEntrySize
	totalSize := headerSize + tableSize + uint64(len(b.names)) + uint64(len(b.extraData)) + uint64(len(b.data))

	h := header{
		version:       Version0010,
		entryCount:    uint32(len(b.entries)),
		namesSize:     uint64(len(b.names)),
		extraDataSize: uint64(len(b.extraData)),
		totalSize:     totalSize,
	}

	buf := make([]byte, 0, totalSize)
	buf = h.appendTo(buf)
	for _, e := range b.entries {
		buf = e.appendTo(buf)
	}
	buf = append(buf, b.names...)
	buf = append(buf, b.extraData...)
	buf = append(buf, b.data...)

	if uint64(len(buf)) != totalSize {
		return nil, fmt.Errorf("%w: serialized %d bytes, header declares %d", ErrInternal, len(buf), totalSize)
	}

	b.names, b.extraData, b.data, b.entries = nil, nil, nil, nil
	return buf, nil
}
