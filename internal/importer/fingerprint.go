// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package importer writes derived annotation artifacts into the catalog,
// using content fingerprints embedded in previously written artifacts to
// skip unchanged documents and refresh changed ones.
package importer

import (
	"fmt"
	"hash/fnv"

	"clipcat/pkg/types"
)

// Fingerprint identifies the content state of a document's annotations.
// It is embedded in every written artifact so a later run can recover it
// without any external state.
type Fingerprint struct {
	// ClipCount is the number of merged annotations.
	ClipCount int

	// ContentHash is a deterministic 32-bit hash of the location-sorted
	// annotation list, rendered as lowercase hex. It only needs to be
	// stable across runs; collision resistance is not a requirement.
	ContentHash string

	// Key is the document's identity key.
	Key string
}

// ComputeFingerprint hashes the document's merged, location-sorted
// annotation list. The sort is canonical, so reordering input entries
// never changes the hash while any text change does.
func ComputeFingerprint(doc *types.DocumentRecord) Fingerprint {
	merged := doc.MergedAnnotations()

	h := fnv.New32a()
	for _, entry := range merged {
		fmt.Fprintf(h, "%d:%s\n", entry.SortLocation(), entry.Text)
	}

	return Fingerprint{
		ClipCount:   len(merged),
		ContentHash: fmt.Sprintf("%08x", h.Sum32()),
		Key:         doc.Key(),
	}
}

// Equal reports whether two fingerprints describe the same content.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.ClipCount == other.ClipCount &&
		f.ContentHash == other.ContentHash &&
		f.Key == other.Key
}
