package oaf

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"sort"
	"time"
)

// Interface compliance.
var (
	_ fs.FS         = (*archiveFS)(nil)
	_ fs.StatFS     = (*archiveFS)(nil)
	_ fs.ReadFileFS = (*archiveFS)(nil)
	_ fs.ReadDirFS  = (*archiveFS)(nil)
)

// FS returns a read-only fs.FS over the archive.
//
// File records back files, Directory records and name prefixes back
// directories. Records whose names are not valid fs-style paths, and
// OS-specific records, are not visible through the file system. Modes and
// modification times come from extra-data metadata when present (as written
// by [Create]) and fall back to 0o644/0o755 with a zero time otherwise.
//
// The returned file system aliases the archive buffer and is valid only
// while the buffer is.
func (a *Archive) FS() fs.FS {
	fsys := &archiveFS{
		a:     a,
		files: make(map[string]int),
		dirs:  make(map[string]int),
	}
	for i := 0; i < a.Len(); i++ {
		e, err := a.Entry(i)
		if err != nil {
			continue
		}
		name := e.Name()
		if !fs.ValidPath(name) || name == "." {
			continue
		}
		switch {
		case e.Signature().IsFile():
			fsys.files[name] = i
		case e.Signature().IsDirectory():
			fsys.dirs[name] = i
		default:
			continue
		}
		// Synthesize parents that have no Directory record of their own.
		for p := path.Dir(name); p != "."; p = path.Dir(p) {
			if _, ok := fsys.dirs[p]; !ok {
				fsys.dirs[p] = -1
			}
		}
	}
	return fsys
}

type archiveFS struct {
	a     *Archive
	files map[string]int
	dirs  map[string]int // -1 marks a synthesized directory
}

// Open implements fs.FS.
func (fsys *archiveFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if i, ok := fsys.files[name]; ok {
		info := fsys.entryInfo(i, path.Base(name), false)
		e, err := fsys.a.Entry(i)
		if err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
		return &archiveFile{Reader: bytes.NewReader(e.Data()), info: info}, nil
	}
	if fsys.isDir(name) {
		return &archiveDir{fsys: fsys, name: name, info: fsys.dirInfo(name)}, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Stat implements fs.StatFS.
func (fsys *archiveFS) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	if i, ok := fsys.files[name]; ok {
		return fsys.entryInfo(i, path.Base(name), false), nil
	}
	if fsys.isDir(name) {
		return fsys.dirInfo(name), nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// ReadFile implements fs.ReadFileFS. The returned bytes are a copy; the
// archive buffer is never handed out mutable.
func (fsys *archiveFS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	i, ok := fsys.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	e, err := fsys.a.Entry(i)
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: err}
	}
	return bytes.Clone(e.Data()), nil
}

// ReadDir implements fs.ReadDirFS, returning entries sorted by name.
func (fsys *archiveFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	if !fsys.isDir(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	return fsys.children(name), nil
}

func (fsys *archiveFS) isDir(name string) bool {
	if name == "." {
		return true
	}
	_, ok := fsys.dirs[name]
	return ok
}

// entryInfo builds file info for entry i, falling back to defaults when the
// entry carries no metadata.
func (fsys *archiveFS) entryInfo(i int, base string, dir bool) *fileInfo {
	info := &fileInfo{name: base, dir: dir}
	if dir {
		info.mode = fs.ModeDir | 0o755
	} else {
		info.mode = 0o644
	}
	e, err := fsys.a.Entry(i)
	if err != nil {
		return info
	}
	if !dir {
		info.size = int64(len(e.Data()))
	}
	if m, ok := decodeFileMeta(e.ExtraData()); ok {
		info.mode = m.mode.Perm()
		if dir {
			info.mode |= fs.ModeDir
		}
		info.modTime = m.modTime
	}
	return info
}

func (fsys *archiveFS) dirInfo(name string) *fileInfo {
	base := path.Base(name)
	if name == "." {
		base = "."
	}
	if i, ok := fsys.dirs[name]; ok && i >= 0 {
		return fsys.entryInfo(i, base, true)
	}
	return &fileInfo{name: base, mode: fs.ModeDir | 0o755, dir: true}
}

// children returns the immediate children of dir, sorted by name.
func (fsys *archiveFS) children(dir string) []fs.DirEntry {
	names := make([]string, 0)
	seen := make(map[string]bool)
	collect := func(p string) {
		if p == dir {
			return
		}
		if path.Dir(p) != dir {
			return
		}
		if !seen[p] {
			seen[p] = true
			names = append(names, p)
		}
	}
	for p := range fsys.files {
		collect(p)
	}
	for p := range fsys.dirs {
		collect(p)
	}
	sort.Strings(names)

	entries := make([]fs.DirEntry, 0, len(names))
	for _, p := range names {
		if i, ok := fsys.files[p]; ok {
			entries = append(entries, dirEntry{info: fsys.entryInfo(i, path.Base(p), false)})
			continue
		}
		entries = append(entries, dirEntry{info: fsys.dirInfo(p)})
	}
	return entries
}

// fileInfo implements fs.FileInfo.
type fileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	dir     bool
}

func (i *fileInfo) Name() string       { return i.name }
func (i *fileInfo) Size() int64        { return i.size }
func (i *fileInfo) Mode() fs.FileMode  { return i.mode }
func (i *fileInfo) ModTime() time.Time { return i.modTime }
func (i *fileInfo) IsDir() bool        { return i.dir }
func (i *fileInfo) Sys() any           { return nil }

// dirEntry implements fs.DirEntry.
type dirEntry struct {
	info *fileInfo
}

func (d dirEntry) Name() string               { return d.info.name }
func (d dirEntry) IsDir() bool                { return d.info.dir }
func (d dirEntry) Type() fs.FileMode          { return d.info.mode.Type() }
func (d dirEntry) Info() (fs.FileInfo, error) { return d.info, nil }

// archiveFile is an open file backed by an entry's payload slice.
type archiveFile struct {
	*bytes.Reader
	info *fileInfo
}

func (f *archiveFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *archiveFile) Close() error               { return nil }

// archiveDir is an open directory supporting ReadDir in batches.
type archiveDir struct {
	fsys    *archiveFS
	name    string
	info    *fileInfo
	entries []fs.DirEntry
	listed  bool
	pos     int
}

func (d *archiveDir) Read(_ []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *archiveDir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *archiveDir) Close() error               { return nil }

// ReadDir implements fs.ReadDirFile.
func (d *archiveDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if !d.listed {
		d.entries = d.fsys.children(d.name)
		d.listed = true
	}
	remaining := d.entries[d.pos:]
	if n <= 0 {
		d.pos = len(d.entries)
		return remaining, nil
	}
	if len(remaining) == 0 {
		return nil, io.EOF
	}
	if n > len(remaining) {
		n = len(remaining)
	}
	d.pos += n
	return remaining[:n], nil
}
