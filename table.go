package oaf

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// tableEntrySize is the fixed byte width of one table entry: a signature
// followed by six uint64 offset/length fields.
const tableEntrySize = signatureSize + 6*8

// tableEntry is the fixed-width per-record descriptor. Offsets and lengths
// are byte counts relative to the start of their segment, not absolute file
// offsets.
type tableEntry struct {
	sig             Signature
	nameOffset      uint64
	nameLen         uint64
	extraDataOffset uint64
	extraDataLen    uint64
	dataOffset      uint64
	dataLen         uint64
}

// decodeTableEntry decodes one table entry from buf, which must hold at
// least tableEntrySize bytes. An invalid signature discriminant folds into
// ErrInvalidEntryTable here; use decodeSignature to validate a lone
// signature.
func decodeTableEntry(buf []byte) (tableEntry, error) {
	if len(buf) < tableEntrySize {
		return tableEntry{}, fmt.Errorf("%w: truncated entry of %d bytes", ErrInvalidEntryTable, len(buf))
	}
	sig, err := decodeSignature(buf)
	if err != nil {
		return tableEntry{}, fmt.Errorf("%w: %v", ErrInvalidEntryTable, err)
	}
	return tableEntry{
		sig:             sig,
		nameOffset:      binary.LittleEndian.Uint64(buf[8:16]),
		nameLen:         binary.LittleEndian.Uint64(buf[16:24]),
		extraDataOffset: binary.LittleEndian.Uint64(buf[24:32]),
		extraDataLen:    binary.LittleEndian.Uint64(buf[32:40]),
		dataOffset:      binary.LittleEndian.Uint64(buf[40:48]),
		dataLen:         binary.LittleEndian.Uint64(buf[48:56]),
	}, nil
}

// appendTo serializes the table entry onto buf.
func (e tableEntry) appendTo(buf []byte) []byte {
	buf = e.sig.appendTo(buf)
	buf = binary.LittleEndian.AppendUint64(buf, e.nameOffset)
	buf = binary.LittleEndian.AppendUint64(buf, e.nameLen)
	buf = binary.LittleEndian.AppendUint64(buf, e.extraDataOffset)
	buf = binary.LittleEndian.AppendUint64(buf, e.extraDataLen)
	buf = binary.LittleEndian.AppendUint64(buf, e.dataOffset)
	buf = binary.LittleEndian.AppendUint64(buf, e.dataLen)
	return buf
}

// segmentSlice bounds-checks offset+length against a segment and returns
// the slice. Overflow of offset+length is treated the same as exceeding the
// segment.
func segmentSlice(segment []byte, offset, length uint64, what string) ([]byte, error) {
	size := uint64(len(segment))
	if offset > size || length > size-offset {
		return nil, fmt.Errorf("%w: %s [%d, %d+%d) exceeds segment of %d bytes",
			ErrInvalidEntryTable, what, offset, offset, length, size)
	}
	return segment[offset : offset+length], nil
}

// checkTableEntry verifies one entry's offset/length pairs against the
// three segments and its name bytes for UTF-8 validity. It is the single
// source of the per-entry well-formedness contract, shared by the eager
// parse and lazy materialization.
func checkTableEntry(e tableEntry, names, extraData, data []byte) error {
	name, err := segmentSlice(names, e.nameOffset, e.nameLen, "name")
	if err != nil {
		return err
	}
	if err := checkEntryName(name); err != nil {
		return err
	}
	if _, err := segmentSlice(extraData, e.extraDataOffset, e.extraDataLen, "extra data"); err != nil {
		return err
	}
	if _, err := segmentSlice(data, e.dataOffset, e.dataLen, "data"); err != nil {
		return err
	}
	return nil
}

// checkEntryName rejects non-UTF-8 name bytes as a decode error. The buffer
// is untrusted input; a bad name is corruption, not a program fault.
func checkEntryName(name []byte) error {
	if !utf8.Valid(name) {
		return fmt.Errorf("%w: name is not valid UTF-8", ErrInvalidEntryTable)
	}
	return nil
}
