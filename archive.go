package oaf

import (
	"fmt"
)

// Archive is a read-only view of a parsed archive buffer.
//
// An Archive and every [Entry] derived from it alias the buffer passed to
// [FromBytes]; they own nothing and must not outlive it. The buffer must not
// be modified while views are in use. Any number of goroutines may read an
// Archive concurrently.
type Archive struct {
	header    header
	table     []byte
	names     []byte
	extraData []byte
	data      []byte
}

// FromBytes parses and validates an archive from an untrusted buffer.
//
// The buffer is retained by the returned Archive; no bytes are copied.
// FromBytes validates the complete format contract up front: magic, version,
// segment sizes, every signature discriminant, every entry's offset/length
// bounds, every name's UTF-8 validity, and the header's total-size sum. A
// nil error therefore guarantees that entry materialization cannot fail.
//
// Malformed input yields a typed error: ErrIncompleteHeader,
// ErrInvalidMagic, ErrInvalidVersion, ErrIncompleteData,
// ErrInvalidEntryTable, or ErrInvalidSizeSum.
func FromBytes(data []byte) (*Archive, error) {
	h, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	rest := data[headerSize:]

	tableSize := uint64(h.entryCount) * tableEntrySize
	if tableSize > uint64(len(rest)) {
		return nil, fmt.Errorf("%w: entry table needs %d bytes, %d remain", ErrIncompleteData, tableSize, len(rest))
	}
	table := rest[:tableSize]
	rest = rest[tableSize:]

	// One pass over the table gates the signature discriminants before any
	// record-level bytes are trusted. No entry is independently
	// recoverable: a single bad discriminant fails the whole parse.
	for i := uint64(0); i < uint64(h.entryCount); i++ {
		if _, err := decodeTableEntry(table[i*tableEntrySize:]); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	if h.namesSize > uint64(len(rest)) {
		return nil, fmt.Errorf("%w: names segment needs %d bytes, %d remain", ErrIncompleteData, h.namesSize, len(rest))
	}
	names := rest[:h.namesSize]
	rest = rest[h.namesSize:]

	if h.extraDataSize > uint64(len(rest)) {
		return nil, fmt.Errorf("%w: extra-data segment needs %d bytes, %d remain", ErrIncompleteData, h.extraDataSize, len(rest))
	}
	extraData := rest[:h.extraDataSize]
	payload := rest[h.extraDataSize:]

	a := &Archive{
		header:    h,
		table:     table,
		names:     names,
		extraData: extraData,
		data:      payload,
	}

	// Hardened pass: with segment boundaries known, verify every entry's
	// slices up front so a parsed archive is fully well-formed.
	for i := 0; i < a.Len(); i++ {
		e, err := a.tableEntryAt(i)
		if err != nil {
			return nil, err
		}
		if err := checkTableEntry(e, names, extraData, payload); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	if h.totalSize != uint64(len(data)) {
		return nil, fmt.Errorf("%w: header declares %d bytes, buffer has %d", ErrInvalidSizeSum, h.totalSize, len(data))
	}
	return a, nil
}

// Version returns the archive's format version.
func (a *Archive) Version() uint32 { return a.header.version }

// EntryCount returns the number of records in the archive.
func (a *Archive) EntryCount() uint32 { return a.header.entryCount }

// NamesSize returns the byte length of the names segment.
func (a *Archive) NamesSize() uint64 { return a.header.namesSize }

// ExtraDataSize returns the byte length of the extra-data segment.
func (a *Archive) ExtraDataSize() uint64 { return a.header.extraDataSize }

// UncompressedSize returns the byte length of the entire serialized archive,
// header included.
func (a *Archive) UncompressedSize() uint64 { return a.header.totalSize }

// Len returns the number of records, as an int.
func (a *Archive) Len() int { return int(a.header.entryCount) }

// tableEntryAt decodes table entry i. The caller guarantees i is in range.
// The table was validated during parse, so a decode failure here means that
// validation was bypassed — a defect in this package, not bad input.
func (a *Archive) tableEntryAt(i int) (tableEntry, error) {
	e, err := decodeTableEntry(a.table[uint64(i)*tableEntrySize:])
	if err != nil {
		return tableEntry{}, fmt.Errorf("%w: entry %d escaped parse-time validation: %v", ErrInternal, i, err)
	}
	return e, nil
}

// Entry materializes record i as a zero-copy view.
//
// The per-entry bounds and UTF-8 checks run again here and surface typed
// errors, so Entry is safe even on an Archive constructed by other means
// inside this package. For archives returned by FromBytes they cannot fail.
func (a *Archive) Entry(i int) (Entry, error) {
	if i < 0 || i >= a.Len() {
		return Entry{}, fmt.Errorf("%w: entry %d of %d", ErrInvalidEntryTable, i, a.Len())
	}
	te, err := a.tableEntryAt(i)
	if err != nil {
		return Entry{}, err
	}
	return materializeEntry(te, a.names, a.extraData, a.data)
}

// Entry is a read-only view of one record. Its byte slices alias the
// archive buffer and must be treated as immutable.
type Entry struct {
	sig       Signature
	name      []byte
	extraData []byte
	data      []byte
}

// materializeEntry slices one record's name, extra data, and payload out of
// the shared segments, bounds-checking each slice.
func materializeEntry(te tableEntry, names, extraData, data []byte) (Entry, error) {
	name, err := segmentSlice(names, te.nameOffset, te.nameLen, "name")
	if err != nil {
		return Entry{}, err
	}
	extra, err := segmentSlice(extraData, te.extraDataOffset, te.extraDataLen, "extra data")
	if err != nil {
		return Entry{}, err
	}
	payload, err := segmentSlice(data, te.dataOffset, te.dataLen, "data")
	if err != nil {
		return Entry{}, err
	}
	if err := checkEntryName(name); err != nil {
		return Entry{}, err
	}
	return Entry{sig: te.sig, name: name, extraData: extra, data: payload}, nil
}

// Signature returns the record's signature.
func (e Entry) Signature() Signature { return e.sig }

// Name returns the record's name. The conversion copies; use NameBytes to
// alias the archive buffer.
func (e Entry) Name() string { return string(e.name) }

// NameBytes returns the record's name bytes, aliasing the archive buffer.
func (e Entry) NameBytes() []byte { return e.name }

// ExtraData returns the record's auxiliary bytes, aliasing the archive
// buffer. It is nil-length for records without extra data.
func (e Entry) ExtraData() []byte { return e.extraData }

// Data returns the record's payload bytes, aliasing the archive buffer.
func (e Entry) Data() []byte { return e.data }
