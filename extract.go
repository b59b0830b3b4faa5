// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

// Extract builds a brand new FileContainer at target holding copies of the
// given entries' payloads read from source. The returned container's names
// match the source entries' names; offsets are recomputed from scratch since
// this is a fresh archive, not a byte-for-byte copy of source.
//
// On error, the partially written target file is closed before returning.
func Extract(target string, source Container, entries ...EntryRecord) (result *FileContainer, err error) {
	out, err := CreateFile(target)
	if err != nil {
		return nil, err
	}

	adder, err := out.BulkAdder()
	if err != nil {
		out.Close()
		return nil, err
	}
	defer func() {
		if cerr := adder.Close(); cerr != nil && err == nil {
			err = cerr
			out.Close()
			result = nil
		}
	}()

	for _, e := range entries {
		data, rerr := source.ReadPayload(e)
		if rerr != nil {
			out.Close()
			return nil, rerr
		}
		if _, aerr := adder.AddData(e.Name(), data); aerr != nil {
			out.Close()
			return nil, aerr
		}
	}

	return out, nil
}

// ExtractRange is Extract over the entries in [startIndex, startIndex+maxLength)
// of source, clipped the same way MapEntries clips.
func ExtractRange(target string, source Container, startIndex, maxLength int) (*FileContainer, error) {
	entries, err := source.MapEntries(startIndex, maxLength)
	if err != nil {
		return nil, err
	}
	return Extract(target, source, entries...)
}
