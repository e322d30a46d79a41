package oaf

import (
	"encoding/binary"
	"io/fs"
	"time"
)

// fileMetaSize is the wire width of the extra-data metadata Create records
// for each entry: mode uint32 then modification time int64 (Unix
// nanoseconds), little-endian.
const fileMetaSize = 4 + 8

// fileMeta is the per-entry metadata Create stores in the extra-data
// segment. Archives built elsewhere may carry arbitrary extra data; readers
// fall back to defaults when the blob is not exactly fileMetaSize bytes.
type fileMeta struct {
	mode    fs.FileMode
	modTime time.Time
}

func encodeFileMeta(mode fs.FileMode, modTime time.Time) []byte {
	buf := make([]byte, 0, fileMetaSize)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(mode))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(modTime.UnixNano()))
	return buf
}

func decodeFileMeta(buf []byte) (fileMeta, bool) {
	if len(buf) != fileMetaSize {
		return fileMeta{}, false
	}
	mode := fs.FileMode(binary.LittleEndian.Uint32(buf[0:4]))
	ns := int64(binary.LittleEndian.Uint64(buf[4:12]))
	return fileMeta{mode: mode, modTime: time.Unix(0, ns)}, true
}
