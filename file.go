// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
)

var _ Container = (*FileContainer)(nil)

// shiftBufferSize is the copy buffer used to slide the content region during
// Delete. Sized to keep a single delete of a large archive from allocating
// per-byte; mirrors WadFile.java's 65536-byte slide buffer.
const shiftBufferSize = 64 * 1024

// FileContainer is a Container backed by a single random-access file. Reads
// and writes go straight through to disk via ReadAt/WriteAt; there is no
// write-behind cache, so every mutating call that is not deferred by a
// BulkAdder leaves the file in a self-consistent, immediately reopenable
// state.
//
// FileContainer is not safe for concurrent use.
type FileContainer struct {
	f       *os.File
	header  header
	entries []EntryRecord
	index   *nameIndex

	// bulkDepth > 0 while a BulkAdder for this container is open. AddData
	// and AddDataAt skip their directory flush while it is nonzero.
	bulkDepth int
	closed    bool
}

// OpenFile opens an existing WAD archive at path for reading and mutation.
func OpenFile(path string) (*FileContainer, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, translateOpenError(path, err)
	}

	c, err := openFileContainer(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

// CreateFile creates a new, empty PWAD archive at path, truncating any
// existing file. The returned container has zero entries and a directory
// offset of headerSize.
func CreateFile(path string) (*FileContainer, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, translateOpenError(path, err)
	}

	c := &FileContainer{
		f: f,
		header: header{
			Magic:           MagicPWAD,
			EntryCount:      0,
			DirectoryOffset: minDirectoryOffset,
		},
		entries: nil,
		index:   newNameIndex(),
	}
	if err := c.flushDirectory(); err != nil {
		f.Close()
		return nil, err
	}
	return c, nil
}

func translateOpenError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s", ErrPermissionDenied, path)
	default:
		return fmt.Errorf("%w: open %s: %v", ErrIo, path, err)
	}
}

func openFileContainer(f *os.File) (*FileContainer, error) {
	h, err := readHeader(io.NewSectionReader(f, 0, headerSize))
	if err != nil {
		return nil, err
	}
	if h.DirectoryOffset < minDirectoryOffset {
		return nil, fmt.Errorf("%w: directory offset %d precedes header", ErrNotAWad, h.DirectoryOffset)
	}

	dirBytes := make([]byte, int(h.EntryCount)*recordSize)
	if len(dirBytes) > 0 {
		if _, err := f.ReadAt(dirBytes, int64(h.DirectoryOffset)); err != nil {
			return nil, fmt.Errorf("%w: read directory: %v", ErrIo, err)
		}
	}

	entries := make([]EntryRecord, 0, h.EntryCount)
	for i := 0; i < int(h.EntryCount); i++ {
		raw := dirBytes[i*recordSize : (i+1)*recordSize]
		e := readEntryRecord(raw)
		if isAllZeroTrailingRecord(e) {
			continue
		}
		entries = append(entries, e)
	}

	idx := newNameIndex()
	idx.rebuild(entries)

	return &FileContainer{
		f:       f,
		header:  h,
		entries: entries,
		index:   idx,
	}, nil
}

// Close flushes nothing further (every mutation already left the file
// consistent) and closes the underlying file handle. Close is idempotent.
func (c *FileContainer) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.f.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrIo, err)
	}
	return nil
}

// IsIWAD reports whether the archive's magic identifies it as an IWAD.
func (c *FileContainer) IsIWAD() bool { return c.header.Magic == MagicIWAD }

// IsPWAD reports whether the archive's magic identifies it as a PWAD.
func (c *FileContainer) IsPWAD() bool { return c.header.Magic == MagicPWAD }

func (c *FileContainer) EntryCount() int { return len(c.entries) }

func (c *FileContainer) Get(i int) EntryRecord { return c.entries[i] }

func (c *FileContainer) All() []EntryRecord {
	out := make([]EntryRecord, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *FileContainer) FindFirst(name string) (int, EntryRecord, bool) {
	return c.FindFirstFrom(name, 0)
}

func (c *FileContainer) FindFirstFrom(name string, start int) (int, EntryRecord, bool) {
	encoded, err := encodeName(name)
	if err != nil {
		return 0, EntryRecord{}, false
	}
	if start < 0 {
		start = 0
	}
	for i := start; i < len(c.entries); i++ {
		if c.entries[i].name == encoded {
			return i, c.entries[i], true
		}
	}
	return 0, EntryRecord{}, false
}

func (c *FileContainer) FindNth(name string, n int) (int, EntryRecord, bool) {
	encoded, err := encodeName(name)
	if err != nil || n < 0 {
		return 0, EntryRecord{}, false
	}
	if i, ok := c.index.nth(encoded, n); ok {
		return i, c.entries[i], true
	}
	return 0, EntryRecord{}, false
}

func (c *FileContainer) FindLast(name string) (int, EntryRecord, bool) {
	encoded, err := encodeName(name)
	if err != nil {
		return 0, EntryRecord{}, false
	}
	if i, ok := c.index.last(encoded); ok {
		return i, c.entries[i], true
	}
	return 0, EntryRecord{}, false
}

func (c *FileContainer) IndicesOf(name string) []int {
	encoded, err := encodeName(name)
	if err != nil {
		return nil
	}
	return c.index.indicesOf(encoded)
}

func (c *FileContainer) LastIndexOf(name string) int {
	encoded, err := encodeName(name)
	if err != nil {
		return -1
	}
	if i, ok := c.index.last(encoded); ok {
		return i
	}
	return -1
}

func (c *FileContainer) ReadPayload(entry EntryRecord) ([]byte, error) {
	if err := c.checkExtent(entry); err != nil {
		return nil, err
	}
	buf := make([]byte, entry.Size)
	if entry.Size > 0 {
		if _, err := c.f.ReadAt(buf, int64(entry.Offset)); err != nil {
			return nil, fmt.Errorf("%w: read payload %q: %v", ErrIo, entry.Name(), err)
		}
	}
	return buf, nil
}

func (c *FileContainer) ReadPayloadByIndex(i int) ([]byte, error) {
	if err := checkIndex(i, len(c.entries)); err != nil {
		return nil, err
	}
	return c.ReadPayload(c.entries[i])
}

func (c *FileContainer) ReadPayloadByName(name string) ([]byte, error) {
	_, entry, ok := c.FindFirst(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrIndexOutOfBounds, name)
	}
	return c.ReadPayload(entry)
}

func (c *FileContainer) OpenStream(entry EntryRecord) (io.Reader, error) {
	if err := c.checkExtent(entry); err != nil {
		return nil, err
	}
	return io.NewSectionReader(c.f, int64(entry.Offset), int64(entry.Size)), nil
}

func (c *FileContainer) checkExtent(entry EntryRecord) error {
	fi, err := c.f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat: %v", ErrIo, err)
	}
	if uint64(entry.Offset)+uint64(entry.Size) > uint64(fi.Size()) {
		return fmt.Errorf("%w: %q offset %d size %d, extent %d",
			ErrEntryOutOfExtent, entry.Name(), entry.Offset, entry.Size, fi.Size())
	}
	return nil
}

func (c *FileContainer) AddData(name string, data []byte) (EntryRecord, error) {
	return c.AddDataAt(len(c.entries), name, data)
}

func (c *FileContainer) AddDataAt(index int, name string, data []byte) (EntryRecord, error) {
	if err := checkInsertIndex(index, len(c.entries)); err != nil {
		return EntryRecord{}, err
	}
	encoded, err := encodeName(name)
	if err != nil {
		return EntryRecord{}, err
	}
	return c.addDataAt(index, encoded, data)
}

func (c *FileContainer) addDataAt(index int, encoded [nameFieldSize]byte, data []byte) (EntryRecord, error) {
	offset := c.header.DirectoryOffset
	newDirOffset, err := addUint32(offset, uint32(len(data)))
	if err != nil {
		return EntryRecord{}, err
	}

	if len(data) > 0 {
		if _, err := c.f.WriteAt(data, int64(offset)); err != nil {
			return EntryRecord{}, fmt.Errorf("%w: write payload: %v", ErrIo, err)
		}
	}

	return c.registerEntry(index, encoded, offset, uint32(len(data)), newDirOffset)
}

// registerEntry inserts a directory record for payload bytes that already
// live in the content region at offset..offset+size. It performs no I/O of
// its own; the caller is responsible for having already written the bytes.
// Grounded on WadFile.Adder.addEntry, which registers a directory record for
// data written by some other means than addDataAt itself.
func (c *FileContainer) registerEntry(index int, encoded [nameFieldSize]byte, offset, size, newDirOffset uint32) (EntryRecord, error) {
	entry := EntryRecord{Offset: offset, Size: size, name: encoded}
	c.entries = append(c.entries, EntryRecord{})
	copy(c.entries[index+1:], c.entries[index:])
	c.entries[index] = entry
	c.index.insert(encoded, index)
	c.header.DirectoryOffset = newDirOffset

	if c.bulkDepth == 0 {
		if err := c.flushDirectory(); err != nil {
			return EntryRecord{}, err
		}
	}
	return entry, nil
}

func (c *FileContainer) AddMarker(name string) (EntryRecord, error) {
	return c.AddData(name, nil)
}

func (c *FileContainer) AddMarkerAt(index int, name string) (EntryRecord, error) {
	return c.AddDataAt(index, name, nil)
}

func (c *FileContainer) Rename(index int, newName string) error {
	if err := checkIndex(index, len(c.entries)); err != nil {
		return err
	}
	encoded, err := encodeName(newName)
	if err != nil {
		return err
	}
	old := c.entries[index]
	if old.name == encoded {
		return nil
	}
	c.entries[index] = old.withName(encoded)
	c.index.rename(old.name, encoded, index)

	off := int64(c.header.DirectoryOffset) + int64(index)*recordSize + 8
	if _, err := c.f.WriteAt(encoded[:], off); err != nil {
		return fmt.Errorf("%w: rename: %v", ErrIo, err)
	}
	return nil
}

// Replace overwrites the entry at index with data, keeping its name. Same-size
// payloads are overwritten in place with no directory change. Different-size
// payloads fall back to a delete followed by an add at the same index, which
// reclaims the old payload's space and appends the new payload at the current
// end of the content region.
func (c *FileContainer) Replace(index int, data []byte) error {
	if err := checkIndex(index, len(c.entries)); err != nil {
		return err
	}
	old := c.entries[index]
	if uint32(len(data)) == old.Size {
		if len(data) > 0 {
			if _, err := c.f.WriteAt(data, int64(old.Offset)); err != nil {
				return fmt.Errorf("%w: replace: %v", ErrIo, err)
			}
		}
		return nil
	}

	name := old.name
	if _, err := c.Delete(index); err != nil {
		return err
	}
	if _, err := c.addDataAt(index, name, data); err != nil {
		return err
	}
	return nil
}

// Remove detaches the entry at index from the directory without reclaiming
// its payload bytes; the bytes remain in the content region, unreferenced.
func (c *FileContainer) Remove(index int) (EntryRecord, error) {
	if err := checkIndex(index, len(c.entries)); err != nil {
		return EntryRecord{}, err
	}
	removed := c.entries[index]
	c.entries = append(c.entries[:index:index], c.entries[index+1:]...)
	c.index.remove(removed.name, index)

	if err := c.flushDirectory(); err != nil {
		return EntryRecord{}, err
	}
	return removed, nil
}

// Delete removes the entry at index and slides the trailing content region
// down over its payload bytes, keeping the archive free of gaps.
func (c *FileContainer) Delete(index int) (EntryRecord, error) {
	if err := checkIndex(index, len(c.entries)); err != nil {
		return EntryRecord{}, err
	}
	removed := c.entries[index]

	if removed.Size > 0 {
		tailStart := int64(removed.Offset) + int64(removed.Size)
		tailLen := int64(c.header.DirectoryOffset) - tailStart
		if tailLen > 0 {
			if err := c.shiftContent(int64(removed.Offset), tailStart, tailLen); err != nil {
				return EntryRecord{}, err
			}
		}
		c.header.DirectoryOffset -= removed.Size
	}

	c.entries = append(c.entries[:index:index], c.entries[index+1:]...)
	c.index.remove(removed.name, index)

	for i := range c.entries {
		if c.entries[i].Offset > removed.Offset {
			c.entries[i] = c.entries[i].withOffset(c.entries[i].Offset - removed.Size)
		}
	}

	if err := c.flushDirectory(); err != nil {
		return EntryRecord{}, err
	}
	return removed, nil
}

// shiftContent copies length bytes from src to dst within the same file,
// working forward in fixed-size chunks. dst is always <= src for the
// delete-compaction use, so forward copying never overlaps unsafely.
func (c *FileContainer) shiftContent(dst, src, length int64) error {
	buf := make([]byte, shiftBufferSize)
	for length > 0 {
		n := int64(len(buf))
		if n > length {
			n = length
		}
		if _, err := c.f.ReadAt(buf[:n], src); err != nil {
			return fmt.Errorf("%w: shift read: %v", ErrIo, err)
		}
		if _, err := c.f.WriteAt(buf[:n], dst); err != nil {
			return fmt.Errorf("%w: shift write: %v", ErrIo, err)
		}
		dst += n
		src += n
		length -= n
	}
	return nil
}

func (c *FileContainer) SetEntries(entries []EntryRecord) error {
	c.entries = append([]EntryRecord(nil), entries...)
	c.index.rebuild(c.entries)
	return c.flushDirectory()
}

func (c *FileContainer) Splice(start int, entries []EntryRecord) error {
	if start < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeStart, start)
	}
	for i, e := range entries {
		at := start + i
		if at < len(c.entries) {
			old := c.entries[at]
			c.entries[at] = e
			c.index.rename(old.name, e.name, at)
		} else {
			c.entries = append(c.entries, e)
			c.index.insert(e.name, len(c.entries)-1)
		}
	}
	return c.flushDirectory()
}

func (c *FileContainer) MapEntries(start, maxLen int) ([]EntryRecord, error) {
	return clipMapEntries(c.entries, start, maxLen)
}

// flushDirectory rewrites the header and the full directory to disk and
// truncates the file to exactly the directory's end. It is the single place
// where the on-disk archive is brought back into sync with in-memory state.
func (c *FileContainer) flushDirectory() error {
	c.header.EntryCount = uint32(len(c.entries))

	dirEnd := uint64(c.header.DirectoryOffset) + uint64(len(c.entries))*recordSize
	if dirEnd > math.MaxUint32 {
		return fmt.Errorf("%w: directory would end at byte %d", ErrArchiveTooLarge, dirEnd)
	}

	var hdrBuf bytes.Buffer
	if err := writeHeader(&hdrBuf, c.header); err != nil {
		return err
	}
	if _, err := c.f.WriteAt(hdrBuf.Bytes(), 0); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrIo, err)
	}

	dirBuf := make([]byte, len(c.entries)*recordSize)
	for i, e := range c.entries {
		writeEntryRecord(dirBuf[i*recordSize:(i+1)*recordSize], e)
	}
	if len(dirBuf) > 0 {
		if _, err := c.f.WriteAt(dirBuf, int64(c.header.DirectoryOffset)); err != nil {
			return fmt.Errorf("%w: write directory: %v", ErrIo, err)
		}
	}

	end := int64(c.header.DirectoryOffset) + int64(len(dirBuf))
	if err := c.f.Truncate(end); err != nil {
		return fmt.Errorf("%w: truncate: %v", ErrIo, err)
	}
	return nil
}

// BulkAdder returns a scoped mutator that defers the directory flush until it
// is closed, batching many appends into a single write. Only one BulkAdder
// may be open on a FileContainer at a time.
func (c *FileContainer) BulkAdder() (*BulkAdder, error) {
	if c.bulkDepth > 0 {
		return nil, fmt.Errorf("%w: a BulkAdder is already open on this container", ErrUnsupported)
	}
	c.bulkDepth++
	return &BulkAdder{c: c}, nil
}

// addUint32 adds b to a, returning ErrArchiveTooLarge if the sum would exceed
// the 32-bit unsigned range that WAD offsets and sizes are addressed in.
func addUint32(a, b uint32) (uint32, error) {
	sum := uint64(a) + uint64(b)
	if sum > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %d + %d", ErrArchiveTooLarge, a, b)
	}
	return uint32(sum), nil
}
