// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

/*
Package wad provides pure Go support for reading, editing, and creating WAD
archives — the container format used by Doom-engine games (and Heretic, Hexen,
Strife, and the ZDoom-family ports) to package maps, textures, sounds, and other
named binary lumps.

A WAD file is a small fixed header, a packed region of variable-sized entry
payloads, and a trailing directory of fixed-width entry records. This package
treats every payload as opaque bytes; parsing map geometry, textures, or audio
lumps is left to other packages built on top of this one.

# Features

  - Pure Go implementation — no CGO or external dependencies for the codec itself
  - Three container implementations sharing one Container contract:
    FileContainer (in-place random-access editing), BufferContainer (in-memory,
    fast bulk mutation), and DirectoryMap (read-only, stream-built)
  - Insert, replace, rename, delete, and bulk-append without corrupting the
    directory or content region
  - A load-order aggregate (LoadOrder) for resolving lump names the way engines
    stack an IWAD with several patch WADs

# Basic Usage

Creating an archive:

	f, err := wad.CreateFile("mymap.wad")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	entry, err := f.AddData("MAP01", mapLumpBytes)
	if err != nil {
		log.Fatal(err)
	}

Reading an archive:

	f, err := wad.OpenFile("doom2.wad")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if idx, entry, ok := f.FindFirst("MAP01"); ok {
		data, err := f.ReadPayload(entry)
		_ = idx
	}

Bulk-adding thousands of entries without an O(N) directory flush per entry:

	adder, err := f.BulkAdder()
	if err != nil {
		log.Fatal(err)
	}
	defer adder.Close()

	for _, lump := range lumps {
		if _, err := adder.AddData(lump.Name, lump.Data); err != nil {
			log.Fatal(err)
		}
	}
	// the directory is flushed exactly once when adder.Close() runs.

# Name Rules

Logical names are 1-8 characters drawn from A-Z, 0-9, _, \, [, ], -. Lowercase
letters are uppercased on write; on read, bytes after the first null terminator
are dropped and the trimmed prefix becomes the name.

# Limitations

This package focuses on the container mechanics, not payload interpretation:

  - No parsing of map geometry, texture tables, MUS events, or patch/flat pixels
  - No compression — WAD payloads are always stored uncompressed
  - No concurrent mutation of a single container; external synchronization is the
    caller's responsibility
  - Best-effort crash safety only: there is no journaling and no fsync, so a
    crash in the middle of a mutation can leave a FileContainer's file
    inconsistent
*/
package wad
