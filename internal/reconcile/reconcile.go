// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package reconcile computes the authoritative media sort order after an
// explicit save. The editor reports which assets it showed in each
// media-consuming block; this package zips that report against the same
// cursor scan the binding resolver uses, then parks every asset the
// report omits after the claimed slots. The resulting plan covers the
// document's full asset set, so a stale or hostile payload degrades
// into unbound assets at the tail of the order, never into a position
// collision that would sink the save.
package reconcile

import (
	"github.com/google/uuid"

	"fieldnotes/internal/blocks"
)

// Placement assigns one asset its new sort position.
type Placement struct {
	AssetID  uuid.UUID
	Position int
}

// Plan walks the block sequence with the resolver's cursor scan and
// translates the client-reported preview mapping (block id -> ordered
// asset ids) into placements. Entries for block ids not present in the
// sequence are ignored, asset ids outside existing are dropped, a
// duplicate claim keeps its first slot, and a block's reported assets
// are capped at its declared slot count. Assets in existing that the
// report never claims are placed after the sequence's last slot in
// their current relative order: every asset gets exactly one position,
// and no two placements share one. An empty preview means the save
// requested no reorder and yields no placements.
func Plan(seq blocks.Sequence, preview map[string][]uuid.UUID, existing []uuid.UUID) []Placement {
	if len(preview) == 0 {
		return nil
	}

	owned := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		owned[id] = true
	}

	indices := blocks.SlotIndices(seq)
	claimed := make(map[uuid.UUID]bool)
	var out []Placement
	totalSlots := 0

	for i, b := range seq.Blocks {
		slots := b.SlotCount()
		totalSlots += slots

		start := indices[i]
		if start < 0 {
			continue
		}

		reported, ok := preview[b.ID]
		if !ok || b.ID == "" {
			continue
		}

		if len(reported) > slots {
			reported = reported[:slots]
		}

		for offset, assetID := range reported {
			if assetID == uuid.Nil || !owned[assetID] || claimed[assetID] {
				continue
			}
			claimed[assetID] = true
			out = append(out, Placement{AssetID: assetID, Position: start + offset})
		}
	}

	// Park unclaimed assets past every slot the scan can grant.
	next := totalSlots
	for _, id := range existing {
		if claimed[id] {
			continue
		}
		out = append(out, Placement{AssetID: id, Position: next})
		next++
	}

	return out
}
