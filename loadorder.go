// Copyright (c) 2025 suprsokr
// SPDX-License-Identifier: MIT

package wad

import (
	"fmt"
	"sort"
)

// LoadOrder is a read-only aggregate over several Container values, modeling
// how a Doom-engine game resolves a lump name once an IWAD has been patched
// by one or more PWADs: the last container added that holds a given name
// wins, exactly as later -file arguments override earlier ones at the
// engine's command line.
//
// LoadOrder never mutates any of its member containers and holds no data of
// its own beyond the slice of containers, so it is cheap to build and rebuild
// as PWADs are loaded or unloaded.
type LoadOrder struct {
	containers []Container
}

// NewLoadOrder creates a LoadOrder whose base (lowest-priority) container is
// base, typically an IWAD.
func NewLoadOrder(base Container) *LoadOrder {
	return &LoadOrder{containers: []Container{base}}
}

// Add appends c to the load order as the new highest-priority container.
func (lo *LoadOrder) Add(c Container) {
	lo.containers = append(lo.containers, c)
}

// Containers returns the member containers, lowest-priority first.
func (lo *LoadOrder) Containers() []Container {
	out := make([]Container, len(lo.containers))
	copy(out, lo.containers)
	return out
}

// Find resolves name against the load order, checking the most recently
// added container first and falling back toward the base. It returns the
// winning container along with the matched entry.
func (lo *LoadOrder) Find(name string) (Container, EntryRecord, bool) {
	for i := len(lo.containers) - 1; i >= 0; i-- {
		if _, entry, ok := lo.containers[i].FindFirst(name); ok {
			return lo.containers[i], entry, true
		}
	}
	return nil, EntryRecord{}, false
}

// Read resolves name and reads its payload from the winning container.
func (lo *LoadOrder) Read(name string) ([]byte, error) {
	container, entry, ok := lo.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q not found in load order", ErrIndexOutOfBounds, name)
	}
	return container.ReadPayload(entry)
}

// ListNames returns the sorted set of distinct names visible anywhere in the
// load order. It does not indicate which container a name would resolve to;
// use Find for that.
func (lo *LoadOrder) ListNames() []string {
	seen := make(map[string]struct{})
	for _, c := range lo.containers {
		for _, e := range c.All() {
			seen[e.Name()] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
