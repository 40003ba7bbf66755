package domain

import "time"

// CacheGeneration identifies the cache layout. Bump it to invalidate
// caches written by incompatible versions.
const CacheGeneration = 2

// CacheMeta records what the dependency cache was built from. It is
// stored next to the cached trees and consulted on the next run to
// decide between reuse and rebuild.
type CacheMeta struct {
	// NodeVersion is the exact runtime version the cache was built with.
	NodeVersion string `json:"node_version"`

	// Fingerprints maps manifest file names to content hashes.
	Fingerprints map[string]string `json:"fingerprints,omitzero"`

	// SavedAt is when the cache was written.
	SavedAt time.Time `json:"saved_at,omitzero"`

	// Generation is the cache layout version.
	Generation int `json:"generation"`
}

// Usable reports whether the cached trees may be restored at all. A nil
// receiver means the cache has no readable metadata; an unknown
// generation means it was written by an incompatible layout.
func (m *CacheMeta) Usable() bool {
	return m != nil && m.Generation == CacheGeneration
}

// NeedsRebuild reports whether trees restored from this cache were
// built against a different runtime version. Restored trees are still
// usable; native addons must be rebuilt before they are.
func (m *CacheMeta) NeedsRebuild(nodeVersion string) bool {
	return m == nil || m.NodeVersion != nodeVersion
}
