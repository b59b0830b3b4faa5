// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import (
	"sort"

	farm "github.com/dgryski/go-farm"
)

// nameIndex maintains a farm.Hash64-keyed multimap from canonical 8-byte name
// to the sorted list of directory indices holding that name. It accelerates
// IndicesOf/LastIndexOf/FindNth to O(1) average plus a short in-bucket scan.
//
// It intentionally does NOT change the semantics of FindFirst/FindFirstFrom,
// which spec.md requires to linear-scan from an arbitrary start position: the
// index only helps whole-directory queries, not start-relative ones.
//
// Grounded on bpowers-bit/datafile and bpowers-bit/indexfile, which use
// farm.Hash64/farm.Hash64WithSeed as the hash function backing their on-disk
// and in-memory indices.
type nameIndex struct {
	buckets map[uint64][]indexedName
}

type indexedName struct {
	name  [nameFieldSize]byte
	index int
}

func newNameIndex() *nameIndex {
	return &nameIndex{buckets: make(map[uint64][]indexedName)}
}

func hashName(name [nameFieldSize]byte) uint64 {
	return farm.Hash64(name[:])
}

// rebuild throws away the index and repopulates it from entries in order.
// Used when a container loads its directory and after SetEntries, where the
// whole directory is replaced at once; Splice, Delete and the other mutations
// update the index incrementally instead.
func (idx *nameIndex) rebuild(entries []EntryRecord) {
	idx.buckets = make(map[uint64][]indexedName, len(entries))
	for i, e := range entries {
		idx.insert(e.name, i)
	}
}

func (idx *nameIndex) insert(name [nameFieldSize]byte, at int) {
	h := hashName(name)
	bucket := idx.buckets[h]

	// shift every existing entry with index >= at up by one before inserting,
	// then insert in sorted position.
	for i := range bucket {
		if bucket[i].index >= at {
			bucket[i].index++
		}
	}
	pos := sort.Search(len(bucket), func(i int) bool { return bucket[i].index >= at })
	bucket = append(bucket, indexedName{})
	copy(bucket[pos+1:], bucket[pos:])
	bucket[pos] = indexedName{name: name, index: at}
	idx.buckets[h] = bucket

	idx.shiftOtherBuckets(h, at, 1)
}

// remove deletes the entry previously inserted at index `at` and shifts every
// index greater than `at` down by one across all buckets.
func (idx *nameIndex) remove(name [nameFieldSize]byte, at int) {
	h := hashName(name)
	bucket := idx.buckets[h]
	for i, e := range bucket {
		if e.index == at {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	for i := range bucket {
		if bucket[i].index > at {
			bucket[i].index--
		}
	}
	if len(bucket) == 0 {
		delete(idx.buckets, h)
	} else {
		idx.buckets[h] = bucket
	}

	idx.shiftOtherBuckets(h, at, -1)
}

// rename moves index `at` from oldName's bucket to newName's bucket.
func (idx *nameIndex) rename(oldName, newName [nameFieldSize]byte, at int) {
	if oldName == newName {
		return
	}
	oh := hashName(oldName)
	bucket := idx.buckets[oh]
	for i, e := range bucket {
		if e.index == at {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(idx.buckets, oh)
	} else {
		idx.buckets[oh] = bucket
	}

	nh := hashName(newName)
	nb := idx.buckets[nh]
	pos := sort.Search(len(nb), func(i int) bool { return nb[i].index >= at })
	nb = append(nb, indexedName{})
	copy(nb[pos+1:], nb[pos:])
	nb[pos] = indexedName{name: newName, index: at}
	idx.buckets[nh] = nb
}

// shiftOtherBuckets adjusts stored indices by delta across every bucket except
// the one just mutated by the caller (that bucket was already handled inline).
// On insert (delta > 0) every index >= at moves up, since at is the position
// the new entry now occupies. On removal (delta < 0) every index > at moves
// down, since at itself was the removed entry and lived only in skipHash's
// bucket.
func (idx *nameIndex) shiftOtherBuckets(skipHash uint64, at, delta int) {
	for h, bucket := range idx.buckets {
		if h == skipHash {
			continue
		}
		changed := false
		for i := range bucket {
			switch {
			case delta > 0 && bucket[i].index >= at:
				bucket[i].index += delta
				changed = true
			case delta < 0 && bucket[i].index > at:
				bucket[i].index += delta
				changed = true
			}
		}
		if changed {
			idx.buckets[h] = bucket
		}
	}
}

func (idx *nameIndex) indicesOf(name [nameFieldSize]byte) []int {
	bucket := idx.buckets[hashName(name)]
	out := make([]int, 0, len(bucket))
	for _, e := range bucket {
		if e.name == name {
			out = append(out, e.index)
		}
	}
	return out
}

func (idx *nameIndex) nth(name [nameFieldSize]byte, n int) (int, bool) {
	count := 0
	for _, e := range idx.buckets[hashName(name)] {
		if e.name != name {
			continue
		}
		if count == n {
			return e.index, true
		}
		count++
	}
	return 0, false
}

func (idx *nameIndex) last(name [nameFieldSize]byte) (int, bool) {
	last := -1
	for _, e := range idx.buckets[hashName(name)] {
		if e.name == name && e.index > last {
			last = e.index
		}
	}
	if last < 0 {
		return 0, false
	}
	return last, true
}
