// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import "fieldnotes/internal/models"

// Binding pairs one block with the assets it claims. Assets has exactly
// SlotCount entries for media-consuming blocks; a slot whose asset ran
// out is nil so the block renders empty rather than failing. Blocks
// that consume no media carry an empty Assets slice.
type Binding struct {
	Block  Block
	Assets []*models.MediaAsset
}

// ResolveMediaBindings maps a document's sort-ordered asset list onto
// its media-consuming blocks in document order. A single cursor walks
// the asset list: media and background blocks consume one asset,
// gallery blocks consume one per declared slot, everything else
// consumes none. No backtracking, no asset is ever claimed twice.
//
// The caller must pass assets sorted ascending by sort position; the
// binding is positional, not by id. Running out of assets is a
// documented degradation, not an error.
func ResolveMediaBindings(seq Sequence, orderedAssets []models.MediaAsset) []Binding {
	bindings := make([]Binding, 0, len(seq.Blocks))
	cursor := 0

	for _, b := range seq.Blocks {
		n := b.SlotCount()
		if n == 0 {
			bindings = append(bindings, Binding{Block: b, Assets: nil})
			continue
		}

		assets := make([]*models.MediaAsset, n)
		for i := 0; i < n; i++ {
			if cursor < len(orderedAssets) {
				assets[i] = &orderedAssets[cursor]
			}
			cursor++
		}
		bindings = append(bindings, Binding{Block: b, Assets: assets})
	}

	return bindings
}

// SlotIndices returns, for each block of the sequence, the index of its
// first asset slot under the cursor scan of ResolveMediaBindings.
// Blocks that consume no media map to -1. The media order reconciler
// uses this to translate a block's reported assets into authoritative
// sort positions without re-running the full binding.
func SlotIndices(seq Sequence) []int {
	out := make([]int, len(seq.Blocks))
	cursor := 0
	for i, b := range seq.Blocks {
		n := b.SlotCount()
		if n == 0 {
			out[i] = -1
			continue
		}
		out[i] = cursor
		cursor += n
	}
	return out
}

// TotalSlots returns how many assets the sequence demands in total.
func TotalSlots(seq Sequence) int {
	total := 0
	for _, b := range seq.Blocks {
		total += b.SlotCount()
	}
	return total
}
