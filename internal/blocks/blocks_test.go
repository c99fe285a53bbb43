package blocks

import (
	"testing"
)

// TestParseBlockSequence verifies that a stored JSON block array parses
// into the typed sequence.
func TestParseBlockSequence(t *testing.T) {
	raw := `[
		{"id":"b1","kind":"heading","level":2,"text":"Above the treeline"},
		{"id":"b2","kind":"paragraph","text":"The trail narrows."},
		{"id":"b3","kind":"media","caption":"Summit ridge","alt":"ridge at dawn"},
		{"id":"b4","kind":"gallery","gallery":[{"caption":"one"},{"caption":"two"}]},
		{"id":"b5","kind":"divider"},
		{"id":"b6","kind":"list","items":["rope","stove"]},
		{"id":"b7","kind":"background","title":"Camp IV","text":"last light","height":480},
		{"id":"b8","kind":"quote","text":"the mountain decides"}
	]`

	seq := Parse(raw)
	if seq.IsLegacyMarkup() {
		t.Fatal("expected block sequence, got legacy markup fallback")
	}
	if len(seq.Blocks) != 8 {
		t.Fatalf("expected 8 blocks, got %d", len(seq.Blocks))
	}

	wantKinds := []Kind{KindHeading, KindParagraph, KindMedia, KindGallery,
		KindDivider, KindList, KindBackground, KindQuote}
	for i, k := range wantKinds {
		if seq.Blocks[i].Kind != k {
			t.Errorf("block %d: kind = %q, want %q", i, seq.Blocks[i].Kind, k)
		}
	}

	if seq.Blocks[0].Level != 2 {
		t.Errorf("heading level = %d, want 2", seq.Blocks[0].Level)
	}
	if got := seq.Blocks[3].SlotCount(); got != 2 {
		t.Errorf("gallery slot count = %d, want 2", got)
	}
	if got := seq.Blocks[6].Height; got != 480 {
		t.Errorf("background height = %d, want 480", got)
	}
}

// TestParseClampsHeadingLevel verifies heading levels outside 1-3 are
// clamped rather than rejected.
func TestParseClampsHeadingLevel(t *testing.T) {
	seq := Parse(`[{"kind":"heading","level":0,"text":"a"},{"kind":"heading","level":9,"text":"b"}]`)
	if len(seq.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(seq.Blocks))
	}
	if seq.Blocks[0].Level != 1 || seq.Blocks[1].Level != 3 {
		t.Errorf("levels = %d,%d, want 1,3", seq.Blocks[0].Level, seq.Blocks[1].Level)
	}
}

// TestParseDropsUnknownKinds verifies that nodes with unrecognized kinds
// are skipped while the rest of the sequence survives.
func TestParseDropsUnknownKinds(t *testing.T) {
	seq := Parse(`[{"kind":"paragraph","text":"keep"},{"kind":"hologram","text":"drop"}]`)
	if len(seq.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(seq.Blocks))
	}
	if seq.Blocks[0].Text != "keep" {
		t.Errorf("surviving block text = %q, want %q", seq.Blocks[0].Text, "keep")
	}
}

// TestParseMarkupFallback verifies that bodies that look like markup
// degrade to the legacy markup rendering path, never an error.
func TestParseMarkupFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "html", raw: "<p>old content</p><h2>from before blocks</h2>"},
		{name: "markdown heading", raw: "# Field report\n\nSome text."},
		{name: "markdown link", raw: "see [the map](https://example.com/map)"},
		{name: "fenced code", raw: "notes\n```\ngps 47.2,11.3\n```"},
		{name: "json object not array", raw: `{"kind":"paragraph","text":"<b>x</b>"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := Parse(tt.raw)
			if !seq.IsLegacyMarkup() {
				t.Fatalf("Parse(%q): expected legacy markup fallback", tt.raw)
			}
			if seq.LegacyMarkup != tt.raw {
				t.Errorf("LegacyMarkup should carry the raw body unchanged")
			}
			if len(seq.Blocks) != 0 {
				t.Errorf("markup fallback must not produce blocks, got %d", len(seq.Blocks))
			}
		})
	}
}

// TestParsePlainTextFallback verifies the second fallback: unstructured
// text splits on blank lines into paragraph blocks.
func TestParsePlainTextFallback(t *testing.T) {
	raw := "First day on the ridge.\n\nSecond day, whiteout.\r\n\r\nThird day we turned back."
	seq := Parse(raw)

	if seq.IsLegacyMarkup() {
		t.Fatal("plain text must not take the markup fallback")
	}
	if len(seq.Blocks) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(seq.Blocks))
	}
	for i, b := range seq.Blocks {
		if b.Kind != KindParagraph {
			t.Errorf("block %d: kind = %q, want paragraph", i, b.Kind)
		}
	}
	if seq.Blocks[1].Text != "Second day, whiteout." {
		t.Errorf("paragraph 1 text = %q", seq.Blocks[1].Text)
	}
}

// TestParseEmptyBody verifies empty and whitespace-only bodies yield an
// empty sequence.
func TestParseEmptyBody(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\n"} {
		seq := Parse(raw)
		if len(seq.Blocks) != 0 || seq.IsLegacyMarkup() {
			t.Errorf("Parse(%q): expected empty sequence", raw)
		}
	}
}

// TestParseJSONArrayWithoutBlocks verifies that a JSON array containing
// no recognized block falls through to the text fallbacks.
func TestParseJSONArrayWithoutBlocks(t *testing.T) {
	seq := Parse(`["just","strings"]`)
	if seq.IsLegacyMarkup() {
		t.Fatal("expected plain-text fallback, got markup")
	}
	if len(seq.Blocks) != 1 || seq.Blocks[0].Kind != KindParagraph {
		t.Fatalf("expected single paragraph fallback, got %+v", seq.Blocks)
	}
}

// TestEncodeRoundTrip verifies Encode produces a body Parse recognizes.
func TestEncodeRoundTrip(t *testing.T) {
	in := []Block{
		{ID: "a", Kind: KindParagraph, Text: "hello"},
		{ID: "b", Kind: KindMedia, Caption: "cap"},
	}
	raw, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	seq := Parse(raw)
	if len(seq.Blocks) != 2 {
		t.Fatalf("expected 2 blocks after round trip, got %d", len(seq.Blocks))
	}
	if seq.Blocks[1].Caption != "cap" {
		t.Errorf("caption = %q, want %q", seq.Blocks[1].Caption, "cap")
	}
}

// TestReadTime verifies the word-count estimate with its one-minute floor.
func TestReadTime(t *testing.T) {
	if got := ReadTime(Parse("")); got != 1 {
		t.Errorf("empty body read time = %d, want 1", got)
	}

	short := Parse(`[{"kind":"paragraph","text":"a few words only"}]`)
	if got := ReadTime(short); got != 1 {
		t.Errorf("short body read time = %d, want 1", got)
	}

	// 450 words should round up to 3 minutes at 200 wpm.
	var sb []byte
	for i := 0; i < 450; i++ {
		sb = append(sb, "word "...)
	}
	long := Sequence{Blocks: []Block{{Kind: KindParagraph, Text: string(sb)}}}
	if got := ReadTime(long); got != 3 {
		t.Errorf("450-word body read time = %d, want 3", got)
	}
}
