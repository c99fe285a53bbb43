package blocks

import (
	"testing"

	"github.com/google/uuid"

	"fieldnotes/internal/models"
)

// makeAssets builds n assets with ascending sort positions.
func makeAssets(n int) []models.MediaAsset {
	out := make([]models.MediaAsset, n)
	for i := range out {
		out[i] = models.MediaAsset{ID: uuid.New(), SortPosition: i}
	}
	return out
}

// TestResolveMediaBindingsCursorScan covers the single-pass cursor
// contract: a gallery of three followed by a media block over four
// assets assigns positions 0,1,2 to the gallery and 3 to the media.
func TestResolveMediaBindingsCursorScan(t *testing.T) {
	seq := Sequence{Blocks: []Block{
		{ID: "g", Kind: KindGallery, Gallery: []GalleryItem{{}, {}, {}}},
		{ID: "m", Kind: KindMedia},
	}}
	assets := makeAssets(4)

	bindings := ResolveMediaBindings(seq, assets)
	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bindings))
	}

	gallery := bindings[0]
	if len(gallery.Assets) != 3 {
		t.Fatalf("gallery assets = %d, want 3", len(gallery.Assets))
	}
	for i := 0; i < 3; i++ {
		if gallery.Assets[i] == nil || gallery.Assets[i].ID != assets[i].ID {
			t.Errorf("gallery slot %d bound to wrong asset", i)
		}
	}

	media := bindings[1]
	if len(media.Assets) != 1 || media.Assets[0] == nil || media.Assets[0].ID != assets[3].ID {
		t.Errorf("media block should receive the asset at position 3")
	}
}

// TestResolveMediaBindingsNoDoubleClaim verifies each asset is assigned
// to at most one block and only to media-consuming blocks.
func TestResolveMediaBindingsNoDoubleClaim(t *testing.T) {
	seq := Sequence{Blocks: []Block{
		{Kind: KindParagraph, Text: "intro"},
		{Kind: KindMedia},
		{Kind: KindDivider},
		{Kind: KindBackground, Title: "cover"},
		{Kind: KindGallery, Gallery: []GalleryItem{{}, {}}},
		{Kind: KindQuote, Text: "q"},
	}}
	assets := makeAssets(10)

	seen := make(map[uuid.UUID]int)
	for _, binding := range ResolveMediaBindings(seq, assets) {
		if !binding.Block.ConsumesMedia() && len(binding.Assets) != 0 {
			t.Errorf("%s block must not receive assets", binding.Block.Kind)
		}
		for _, a := range binding.Assets {
			if a != nil {
				seen[a.ID]++
			}
		}
	}

	for id, n := range seen {
		if n > 1 {
			t.Errorf("asset %s claimed %d times", id, n)
		}
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 assets consumed (1+1+2), got %d", len(seen))
	}
}

// TestResolveMediaBindingsDegradation verifies that slots beyond the
// available assets resolve to nil instead of failing.
func TestResolveMediaBindingsDegradation(t *testing.T) {
	seq := Sequence{Blocks: []Block{
		{Kind: KindMedia},
		{Kind: KindGallery, Gallery: []GalleryItem{{}, {}, {}}},
	}}
	assets := makeAssets(2) // 4 slots demanded, 2 available

	bindings := ResolveMediaBindings(seq, assets)

	if bindings[0].Assets[0] == nil {
		t.Error("first media slot should be bound")
	}
	gallery := bindings[1].Assets
	if len(gallery) != 3 {
		t.Fatalf("gallery binding must keep 3 slots, got %d", len(gallery))
	}
	if gallery[0] == nil {
		t.Error("gallery slot 0 should be bound")
	}
	if gallery[1] != nil || gallery[2] != nil {
		t.Error("exhausted slots must resolve to nil, not reuse assets")
	}
}

// TestResolveMediaBindingsOrder verifies assets bind in ascending sort
// position matching block-scan order.
func TestResolveMediaBindingsOrder(t *testing.T) {
	seq := Sequence{Blocks: []Block{
		{Kind: KindBackground},
		{Kind: KindParagraph},
		{Kind: KindMedia},
		{Kind: KindMedia},
	}}
	assets := makeAssets(3)

	var got []int
	for _, b := range ResolveMediaBindings(seq, assets) {
		for _, a := range b.Assets {
			if a != nil {
				got = append(got, a.SortPosition)
			}
		}
	}

	want := []int{0, 1, 2}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("bound positions = %v, want %v", got, want)
		}
	}
}

// TestResolveMediaBindingsEmpty verifies the trivial cases.
func TestResolveMediaBindingsEmpty(t *testing.T) {
	if got := ResolveMediaBindings(Sequence{}, makeAssets(3)); len(got) != 0 {
		t.Errorf("empty sequence: expected no bindings, got %d", len(got))
	}

	seq := Sequence{Blocks: []Block{{Kind: KindMedia}}}
	bindings := ResolveMediaBindings(seq, nil)
	if len(bindings) != 1 || bindings[0].Assets[0] != nil {
		t.Error("no assets: media slot must resolve to nil")
	}
}

// TestSlotIndices verifies the cursor offsets used by the reconciler.
func TestSlotIndices(t *testing.T) {
	seq := Sequence{Blocks: []Block{
		{Kind: KindHeading, Level: 1},
		{Kind: KindMedia},
		{Kind: KindGallery, Gallery: []GalleryItem{{}, {}}},
		{Kind: KindParagraph},
		{Kind: KindBackground},
	}}

	got := SlotIndices(seq)
	want := []int{-1, 0, 1, -1, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SlotIndices = %v, want %v", got, want)
		}
	}

	if total := TotalSlots(seq); total != 4 {
		t.Errorf("TotalSlots = %d, want 4", total)
	}
}
