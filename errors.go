// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import "errors"

// Sentinel errors for the WAD container engine. Callers should compare against
// these with errors.Is rather than string-matching returned errors.
var (
	// ErrNotAWad is returned when a file's magic bytes are neither IWAD nor PWAD.
	ErrNotAWad = errors.New("wad: not a WAD file")

	// ErrInvalidName is returned when a name is empty, exceeds 8 characters, or
	// contains a byte outside the allowed character set.
	ErrInvalidName = errors.New("wad: invalid entry name")

	// ErrIndexOutOfBounds is returned when a caller-supplied index is negative or
	// beyond the container's entry count, for operations that forbid append
	// semantics.
	ErrIndexOutOfBounds = errors.New("wad: index out of bounds")

	// ErrUnsupported is returned by mutation methods on containers that cannot
	// mutate, such as DirectoryMap.
	ErrUnsupported = errors.New("wad: operation not supported by this container")

	// ErrEntryOutOfExtent is returned when an entry's offset+size exceeds the
	// readable extent of the underlying data.
	ErrEntryOutOfExtent = errors.New("wad: entry data exceeds file extent")

	// ErrArchiveTooLarge is returned when a mutation would push the directory
	// offset or directory extent past the 32-bit unsigned range.
	ErrArchiveTooLarge = errors.New("wad: archive would exceed 4GiB addressable range")

	// ErrNegativeStart is returned by mapEntries when start < 0.
	ErrNegativeStart = errors.New("wad: start index must not be negative")

	// ErrFileNotFound is returned by OpenFile when the underlying path does not exist.
	ErrFileNotFound = errors.New("wad: file not found")

	// ErrPermissionDenied is returned by OpenFile/CreateFile when the OS denies access.
	ErrPermissionDenied = errors.New("wad: permission denied")

	// ErrIo wraps unexpected I/O failures from the underlying file or stream that
	// are not more specifically classified by one of the other sentinels.
	ErrIo = errors.New("wad: i/o error")

	// ErrOutOfRange reports a numeric value outside the range an operation can
	// accept. No function in this package returns it (MapEntries clamps maxLen
	// instead); it is exported for code built on top of this package.
	ErrOutOfRange = errors.New("wad: value out of range")
)
