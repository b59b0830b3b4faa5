// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import (
	"fmt"
	"io"
)

// Container is the abstract contract satisfied by FileContainer,
// BufferContainer, and DirectoryMap. It models a WAD archive as an ordered,
// duplicate-tolerant sequence of EntryRecord values plus the payload bytes
// they describe.
//
// Implementations that cannot mutate (DirectoryMap) return ErrUnsupported from
// every mutating method rather than panicking or silently no-opping.
//
// No implementation is safe for concurrent use; callers must serialize access
// to a single Container themselves.
type Container interface {
	// EntryCount returns the number of entries currently in the directory.
	EntryCount() int

	// Get returns the entry at index i. It panics if i is out of range,
	// matching the "panics on OOB" contract for the hot, index-checked path;
	// callers that want an error instead should bounds-check against
	// EntryCount first or use FindFirst/MapEntries.
	Get(i int) EntryRecord

	// All returns a snapshot slice of every entry, in directory order.
	All() []EntryRecord

	// FindFirst returns the first entry named name, scanning from index 0.
	FindFirst(name string) (index int, entry EntryRecord, ok bool)

	// FindFirstFrom returns the first entry named name at or after start.
	FindFirstFrom(name string, start int) (index int, entry EntryRecord, ok bool)

	// FindNth returns the n-th (0-indexed) entry named name, scanning from 0.
	FindNth(name string, n int) (index int, entry EntryRecord, ok bool)

	// FindLast returns the last entry named name: the same entry a forward
	// scan retaining the last match would find. This is a semantic
	// requirement (WAD load order means the last-loaded occurrence of a
	// resource wins), not just an implementation detail.
	FindLast(name string) (index int, entry EntryRecord, ok bool)

	// IndicesOf returns every index holding an entry named name, in order.
	IndicesOf(name string) []int

	// LastIndexOf returns the last index holding an entry named name, or -1.
	LastIndexOf(name string) int

	// ReadPayload reads the payload bytes described by entry.
	ReadPayload(entry EntryRecord) ([]byte, error)

	// ReadPayloadByIndex reads the payload bytes of the entry at index i.
	ReadPayloadByIndex(i int) ([]byte, error)

	// ReadPayloadByName reads the payload bytes of the first entry named name.
	ReadPayloadByName(name string) ([]byte, error)

	// OpenStream returns a byte source delivering exactly entry.Size bytes
	// starting at entry.Offset. The returned reader does not have to
	// outlive a subsequent mutation of the container.
	OpenStream(entry EntryRecord) (io.Reader, error)

	// AddData appends a new entry named name with the given payload.
	AddData(name string, data []byte) (EntryRecord, error)

	// AddDataAt inserts a new entry named name with the given payload at index.
	AddDataAt(index int, name string, data []byte) (EntryRecord, error)

	// AddMarker appends a zero-size marker entry named name.
	AddMarker(name string) (EntryRecord, error)

	// AddMarkerAt inserts a zero-size marker entry named name at index.
	AddMarkerAt(index int, name string) (EntryRecord, error)

	// Rename changes the name of the entry at index.
	Rename(index int, newName string) error

	// Replace overwrites the entry at index with new payload bytes. If the
	// new payload is the same size as the old, this is an in-place
	// overwrite; otherwise it is a delete followed by an add at the same
	// index (see FileContainer.Replace for the exact semantics).
	Replace(index int, data []byte) error

	// Remove detaches the entry at index from the directory without
	// reclaiming its payload bytes from the content region.
	Remove(index int) (EntryRecord, error)

	// Delete removes the entry at index and reclaims its payload bytes by
	// shifting the trailing content region down.
	Delete(index int) (EntryRecord, error)

	// SetEntries completely replaces the directory with entries. Existing
	// payload bytes referenced by kept offsets are unaffected; this is a
	// directory-only operation.
	SetEntries(entries []EntryRecord) error

	// Splice overwrites entries starting at start; any entries past the
	// current end of the directory are appended instead.
	Splice(start int, entries []EntryRecord) error

	// MapEntries returns up to maxLen entries starting at start, clipped to
	// the container's bounds. It never fails on overshoot; it fails only if
	// start < 0.
	MapEntries(start, maxLen int) ([]EntryRecord, error)
}

// clipMapEntries implements the clipping rule shared by every Container
// implementation's MapEntries: start < 0 is an error, start >= len returns
// empty, otherwise the slice is clamped to the container's length.
func clipMapEntries(all []EntryRecord, start, maxLen int) ([]EntryRecord, error) {
	if start < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeStart, start)
	}
	if start >= len(all) {
		return []EntryRecord{}, nil
	}
	end := start + maxLen
	if maxLen < 0 || end > len(all) {
		end = len(all)
	}
	out := make([]EntryRecord, end-start)
	copy(out, all[start:end])
	return out, nil
}

// checkIndex validates that i is within [0, count), returning
// ErrIndexOutOfBounds wrapped with the offending index otherwise.
func checkIndex(i, count int) error {
	if i < 0 || i >= count {
		return fmt.Errorf("%w: index %d, count %d", ErrIndexOutOfBounds, i, count)
	}
	return nil
}

// checkInsertIndex validates that i is a legal insertion point: [0, count].
func checkInsertIndex(i, count int) error {
	if i < 0 || i > count {
		return fmt.Errorf("%w: insertion index %d, count %d", ErrIndexOutOfBounds, i, count)
	}
	return nil
}
