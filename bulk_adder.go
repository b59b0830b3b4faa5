// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import "fmt"

// BulkAdder batches many appends against a FileContainer into a single
// directory flush, performed when Close is called. This avoids the O(N)
// header+directory rewrite that a naive loop of AddData calls would incur for
// every single entry.
//
// A BulkAdder must be closed exactly once, and Close must run even if the
// caller's add loop returns early on an error — a defer right after obtaining
// the adder is the expected pattern, mirroring how WadFile.java's inner Adder
// class is designed for try-with-resources.
//
// A BulkAdder is not safe for concurrent use, and only one may be open on a
// given FileContainer at a time.
type BulkAdder struct {
	c      *FileContainer
	closed bool
}

// AddData appends a new entry named name with the given payload.
func (a *BulkAdder) AddData(name string, data []byte) (EntryRecord, error) {
	if a.closed {
		return EntryRecord{}, fmt.Errorf("%w: BulkAdder is closed", ErrUnsupported)
	}
	return a.c.AddData(name, data)
}

// AddDataAt inserts a new entry named name with the given payload at index.
func (a *BulkAdder) AddDataAt(index int, name string, data []byte) (EntryRecord, error) {
	if a.closed {
		return EntryRecord{}, fmt.Errorf("%w: BulkAdder is closed", ErrUnsupported)
	}
	return a.c.AddDataAt(index, name, data)
}

// AddMarker appends a zero-size marker entry named name.
func (a *BulkAdder) AddMarker(name string) (EntryRecord, error) {
	return a.AddData(name, nil)
}

// AddMarkerAt inserts a zero-size marker entry named name at index.
func (a *BulkAdder) AddMarkerAt(index int, name string) (EntryRecord, error) {
	return a.AddDataAt(index, name, nil)
}

// addEntry registers a directory record for length bytes already sitting in
// the content region at offset, appending it to the end of the directory
// without writing any payload bytes itself. It is for callers that copy raw
// content into the archive by some means other than AddData/AddDataAt (a
// direct WriteAt, say) and then just need the directory to catch up.
//
// Unexported: this is not part of the public Container surface, which only
// exposes the add_* family for bulk appends. Grounded on
// WadFile.Adder.addEntry.
func (a *BulkAdder) addEntry(name string, offset, length uint32) (EntryRecord, error) {
	if a.closed {
		return EntryRecord{}, fmt.Errorf("%w: BulkAdder is closed", ErrUnsupported)
	}
	encoded, err := encodeName(name)
	if err != nil {
		return EntryRecord{}, err
	}
	newDirOffset, err := addUint32(offset, length)
	if err != nil {
		return EntryRecord{}, err
	}
	return a.c.registerEntry(len(a.c.entries), encoded, offset, length, newDirOffset)
}

// Close flushes the directory exactly once and releases the BulkAdder's hold
// on its FileContainer. Close is idempotent; calling it more than once after
// the first successful or failed call is a no-op returning nil.
func (a *BulkAdder) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.c.bulkDepth--
	return a.c.flushDirectory()
}
