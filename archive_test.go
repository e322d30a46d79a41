package oaf

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTwoEntryArchive builds the canonical small archive used by the
// corruption tests: one file and one directory record.
func buildTwoEntryArchive(t *testing.T) []byte {
	t.Helper()
	b := NewBuilder()
	require.NoError(t, b.PushEntry(SignatureFile, "a.txt", nil, []byte("hi")))
	require.NoError(t, b.PushEntry(SignatureDirectory, "d", []byte{1, 2}, nil))
	data, err := b.Finish()
	require.NoError(t, err)
	return data
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	type record struct {
		sig   Signature
		name  string
		extra []byte
		data  []byte
	}
	records := []record{
		{SignatureFile, "a.txt", nil, []byte("hello world")},
		{SignatureDirectory, "dir", []byte{0xDE, 0xAD}, nil},
		{SignatureOS(42), "dir/special", []byte("meta"), []byte("payload bytes")},
		{SignatureFile, "empty", nil, nil},
		{SignatureFile, "uni/é世界.txt", []byte{1}, []byte{0, 1, 2, 3}},
	}

	b := NewBuilder()
	for _, r := range records {
		require.NoError(t, b.PushEntry(r.sig, r.name, r.extra, r.data))
	}
	buf, err := b.Finish()
	require.NoError(t, err)

	a, err := FromBytes(buf)
	require.NoError(t, err)
	require.Equal(t, len(records), a.Len())

	i := 0
	for e := range a.Entries() {
		assert.Equal(t, records[i].sig, e.Signature(), "entry %d", i)
		assert.Equal(t, records[i].name, e.Name(), "entry %d", i)
		// Content comparison: records pushed with nil extra/data decode
		// as empty views, which are byte-identical.
		assert.True(t, bytes.Equal(records[i].extra, e.ExtraData()), "entry %d extra data", i)
		assert.True(t, bytes.Equal(records[i].data, e.Data()), "entry %d data", i)
		i++
	}
	assert.Equal(t, len(records), i)
}

func TestConcreteScenario(t *testing.T) {
	t.Parallel()

	buf := buildTwoEntryArchive(t)
	a, err := FromBytes(buf)
	require.NoError(t, err)

	assert.Equal(t, uint32(2), a.EntryCount())
	assert.Equal(t, uint64(6), a.NamesSize()) // "a.txt" + "d"
	assert.Equal(t, uint64(2), a.ExtraDataSize())
	assert.Equal(t, uint64(len(buf)), a.UncompressedSize())
	assert.Equal(t, Version0010, a.Version())

	it := a.Iter()
	e, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, SignatureFile, e.Signature())
	assert.Equal(t, "a.txt", e.Name())
	assert.Empty(t, e.ExtraData())
	assert.Equal(t, []byte("hi"), e.Data())

	e, ok = it.Next()
	require.True(t, ok)
	assert.Equal(t, SignatureDirectory, e.Signature())
	assert.Equal(t, "d", e.Name())
	assert.Equal(t, []byte{1, 2}, e.ExtraData())
	assert.Empty(t, e.Data())

	_, ok = it.Next()
	assert.False(t, ok)
}

func TestEmptyArchive(t *testing.T) {
	t.Parallel()

	buf, err := NewBuilder().Finish()
	require.NoError(t, err)
	require.Len(t, buf, headerSize)

	a, err := FromBytes(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), a.EntryCount())
	assert.Equal(t, 0, a.Iter().Len())
	_, ok := a.Iter().Next()
	assert.False(t, ok)
	for range a.Entries() {
		t.Fatal("empty archive yielded an entry")
	}
}

func TestZeroCopyViews(t *testing.T) {
	t.Parallel()

	buf := buildTwoEntryArchive(t)
	a, err := FromBytes(buf)
	require.NoError(t, err)

	e, err := a.Entry(0)
	require.NoError(t, err)

	// The payload view aliases the archive buffer.
	data := e.Data()
	require.Equal(t, []byte("hi"), data)
	buf[len(buf)-2] = 'H' // payload segment runs to end of buffer
	assert.Equal(t, []byte("Hi"), data)
}

func TestFromBytesInvalidMagic(t *testing.T) {
	t.Parallel()

	buf := buildTwoEntryArchive(t)
	copy(buf[:8], "NOTMAGIC")
	_, err := FromBytes(buf)
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestFromBytesInvalidVersion(t *testing.T) {
	t.Parallel()

	buf := buildTwoEntryArchive(t)
	binary.LittleEndian.PutUint32(buf[8:12], 0xDEAD_BEEF)
	_, err := FromBytes(buf)
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestFromBytesIncompleteHeader(t *testing.T) {
	t.Parallel()

	buf := buildTwoEntryArchive(t)
	for _, n := range []int{0, 1, 8, headerSize - 1} {
		_, err := FromBytes(buf[:n])
		assert.ErrorIs(t, err, ErrIncompleteHeader, "length %d", n)
	}
}

func TestFromBytesTruncatedTable(t *testing.T) {
	t.Parallel()

	buf := buildTwoEntryArchive(t)
	_, err := FromBytes(buf[:headerSize+tableEntrySize-1])
	assert.ErrorIs(t, err, ErrIncompleteData)
}

func TestFromBytesTruncatedBetweenTableAndNames(t *testing.T) {
	t.Parallel()

	buf := buildTwoEntryArchive(t)
	// Keep the full table but only part of the names segment.
	_, err := FromBytes(buf[:headerSize+2*tableEntrySize+3])
	assert.ErrorIs(t, err, ErrIncompleteData)
}

func TestFromBytesTruncatedExtraData(t *testing.T) {
	t.Parallel()

	buf := buildTwoEntryArchive(t)
	// Full table and names, but the extra-data segment is cut short.
	_, err := FromBytes(buf[:headerSize+2*tableEntrySize+6+1])
	assert.ErrorIs(t, err, ErrIncompleteData)
}

func TestFromBytesInvalidSignatureDiscriminant(t *testing.T) {
	t.Parallel()

	for _, tag := range []uint32{2, 3, 0x7FFF_FFFF, 0xFFFF_FFFE} {
		buf := buildTwoEntryArchive(t)
		binary.LittleEndian.PutUint32(buf[headerSize:], tag)
		_, err := FromBytes(buf)
		assert.ErrorIs(t, err, ErrInvalidEntryTable, "tag 0x%08x", tag)
	}
}

func TestFromBytesOutOfBoundsEntry(t *testing.T) {
	t.Parallel()

	// Patch the second entry's data_len so offset+len exceeds the payload
	// segment. The hardened parse rejects the whole archive.
	buf := buildTwoEntryArchive(t)
	entry := headerSize + tableEntrySize
	binary.LittleEndian.PutUint64(buf[entry+48:entry+56], 1<<40)
	_, err := FromBytes(buf)
	assert.ErrorIs(t, err, ErrInvalidEntryTable)
}

func TestFromBytesOverflowingOffset(t *testing.T) {
	t.Parallel()

	// offset+len wrapping around uint64 must not pass the bounds check.
	buf := buildTwoEntryArchive(t)
	entry := headerSize
	binary.LittleEndian.PutUint64(buf[entry+40:entry+48], ^uint64(0)) // data_offset
	binary.LittleEndian.PutUint64(buf[entry+48:entry+56], 2)          // data_len
	_, err := FromBytes(buf)
	assert.ErrorIs(t, err, ErrInvalidEntryTable)
}

func TestFromBytesNonUTF8Name(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	require.NoError(t, b.PushEntry(SignatureFile, "\xff\xfe", nil, nil))
	buf, err := b.Finish()
	require.NoError(t, err)

	_, err = FromBytes(buf)
	assert.ErrorIs(t, err, ErrInvalidEntryTable)
}

func TestFromBytesSizeSumMismatch(t *testing.T) {
	t.Parallel()

	t.Run("trailing bytes", func(t *testing.T) {
		t.Parallel()
		buf := buildTwoEntryArchive(t)
		_, err := FromBytes(append(buf, 0))
		// The extra byte lands in the payload segment, so the declared
		// total no longer matches the buffer.
		assert.ErrorIs(t, err, ErrInvalidSizeSum)
	})

	t.Run("patched header", func(t *testing.T) {
		t.Parallel()
		buf := buildTwoEntryArchive(t)
		binary.LittleEndian.PutUint64(buf[32:40], uint64(len(buf))+7)
		_, err := FromBytes(buf)
		assert.ErrorIs(t, err, ErrInvalidSizeSum)
	})
}

// TestLazyMaterializationGuards exercises the per-entry checks directly,
// bypassing FromBytes, to pin the behavior of the lazy validation path.
func TestLazyMaterializationGuards(t *testing.T) {
	t.Parallel()

	names := []byte("a.txt")
	var table []byte
	table = tableEntry{
		sig:     SignatureFile,
		nameLen: uint64(len(names)),
		dataLen: 99, // exceeds the empty payload segment
	}.appendTo(table)

	a := &Archive{
		header: header{version: Version0010, entryCount: 1},
		table:  table,
		names:  names,
	}

	_, err := a.Entry(0)
	assert.ErrorIs(t, err, ErrInvalidEntryTable)

	_, err = a.Entry(1)
	assert.ErrorIs(t, err, ErrInvalidEntryTable)

	_, err = a.Entry(-1)
	assert.ErrorIs(t, err, ErrInvalidEntryTable)
}

// TestInternalErrorOnUnvalidatedTable pins the failure mode for table bytes
// that never went through parse-time validation: materialization reports
// ErrInternal, and the iterator treats it as a package defect.
func TestInternalErrorOnUnvalidatedTable(t *testing.T) {
	t.Parallel()

	// An entry with a discriminant outside the valid set; FromBytes would
	// have rejected it.
	var table []byte
	table = binary.LittleEndian.AppendUint32(table, 7)
	table = append(table, make([]byte, tableEntrySize-4)...)

	a := &Archive{
		header: header{version: Version0010, entryCount: 1},
		table:  table,
	}

	_, err := a.Entry(0)
	assert.ErrorIs(t, err, ErrInternal)

	assert.Panics(t, func() { a.Iter().Next() })
	assert.Panics(t, func() { a.Iter().NextBack() })
}

func TestCheckTableEntry(t *testing.T) {
	t.Parallel()

	names := []byte("ok")
	extra := []byte{1, 2, 3}
	data := []byte("payload")

	good := tableEntry{sig: SignatureFile, nameLen: 2, extraDataLen: 3, dataLen: 7}
	assert.NoError(t, checkTableEntry(good, names, extra, data))

	bad := good
	bad.extraDataOffset = 2
	assert.ErrorIs(t, checkTableEntry(bad, names, extra, data), ErrInvalidEntryTable)

	utf8bad := good
	assert.ErrorIs(t, checkTableEntry(utf8bad, []byte{0xFF, 0xFE}, extra, data), ErrInvalidEntryTable)
}
