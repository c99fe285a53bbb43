// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blocks defines the block-sequence representation of a field
// note body and the positional rule that binds uploaded media assets to
// media-consuming blocks. Everything in this package is pure computation
// over its inputs.
package blocks

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Kind identifies one block variant. The set is closed: parsing drops
// nodes with unknown kinds, and consumers switch exhaustively.
type Kind string

const (
	KindHeading    Kind = "heading"
	KindParagraph  Kind = "paragraph"
	KindQuote      Kind = "quote"
	KindList       Kind = "list"
	KindDivider    Kind = "divider"
	KindMedia      Kind = "media"
	KindGallery    Kind = "gallery"
	KindBackground Kind = "background"
)

// GalleryItem is one slot of a gallery block with its own caption and
// accessibility text.
type GalleryItem struct {
	Caption string `json:"caption,omitempty"`
	Alt     string `json:"alt,omitempty"`
}

// Block is one typed unit of an essay body. Kind selects which fields
// are meaningful; the zero value of every other field is ignored.
type Block struct {
	// ID is the editor-assigned identifier used to correlate
	// client-reported media arrangements with blocks at save time.
	ID   string `json:"id,omitempty"`
	Kind Kind   `json:"kind"`

	// Heading, paragraph, quote: inline text. Background: overlay text.
	Text string `json:"text,omitempty"`

	// Heading level 1-3.
	Level int `json:"level,omitempty"`

	// List items, in order.
	Items []string `json:"items,omitempty"`

	// Media and background: caption and accessibility text.
	Caption string `json:"caption,omitempty"`
	Alt     string `json:"alt,omitempty"`

	// Gallery slots. Slot count equals len(Gallery).
	Gallery []GalleryItem `json:"gallery,omitempty"`

	// Background: overlay title and optional height in pixels.
	Title  string `json:"title,omitempty"`
	Height int    `json:"height,omitempty"`
}

// SlotCount returns how many media assets the block claims from the
// document's sort-ordered asset list. Only media, gallery, and
// background blocks consume assets.
func (b Block) SlotCount() int {
	switch b.Kind {
	case KindMedia, KindBackground:
		return 1
	case KindGallery:
		return len(b.Gallery)
	case KindHeading, KindParagraph, KindQuote, KindList, KindDivider:
		return 0
	}
	return 0
}

// ConsumesMedia reports whether the block claims at least one asset slot.
func (b Block) ConsumesMedia() bool {
	return b.SlotCount() > 0
}

// Sequence is the parsed form of a stored body. A recognized block array
// yields Blocks; a body that is not a recognized sequence degrades to
// one of two fallbacks, never an error: markup-looking text is carried
// in LegacyMarkup for sanitized rich rendering, anything else is split
// on blank lines into paragraph blocks.
type Sequence struct {
	Blocks []Block

	// LegacyMarkup holds the raw body when the stored value was
	// unrecognized markup rather than a block sequence. Blocks is empty
	// in that case and the body renders without block semantics.
	LegacyMarkup string
}

// IsLegacyMarkup reports whether the body fell back to markup rendering.
func (s Sequence) IsLegacyMarkup() bool {
	return s.LegacyMarkup != ""
}

// markupPattern matches HTML tags and common Markdown cues. Used to
// decide which fallback applies to an unrecognized body.
var markupPattern = regexp.MustCompile("(?m)" +
	`<[a-zA-Z][^>]*>` + // HTML tag
	`|^#{1,6}\s` + // Markdown heading
	"|```" + // fenced code
	`|\[[^\]]+\]\([^)]+\)` + // Markdown link
	`|^[-*]\s`) // Markdown bullet

// Parse turns a stored body into a Sequence. It never fails: bodies
// that are not a recognized JSON block array degrade through the
// markup and plain-text fallbacks.
func Parse(raw string) Sequence {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Sequence{}
	}

	if strings.HasPrefix(trimmed, "[") {
		var nodes []Block
		if err := json.Unmarshal([]byte(trimmed), &nodes); err == nil {
			if seq, ok := fromNodes(nodes); ok {
				return seq
			}
		}
	}

	if markupPattern.MatchString(trimmed) {
		return Sequence{LegacyMarkup: raw}
	}

	return Sequence{Blocks: plainParagraphs(trimmed)}
}

// fromNodes keeps the recognized blocks of a decoded array, dropping
// nodes with unknown kinds and clamping heading levels into 1-3. An
// array with no recognized block at all is not a block sequence.
func fromNodes(nodes []Block) (Sequence, bool) {
	var out []Block
	for _, n := range nodes {
		switch n.Kind {
		case KindHeading:
			if n.Level < 1 {
				n.Level = 1
			}
			if n.Level > 3 {
				n.Level = 3
			}
			out = append(out, n)
		case KindParagraph, KindQuote, KindList, KindDivider,
			KindMedia, KindGallery, KindBackground:
			out = append(out, n)
		}
		// Unknown kinds are legacy noise; skip them.
	}
	if len(out) == 0 {
		return Sequence{}, false
	}
	return Sequence{Blocks: out}, true
}

// plainParagraphs splits unstructured text on blank lines into
// paragraph blocks.
func plainParagraphs(text string) []Block {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	var out []Block
	for _, chunk := range regexp.MustCompile(`\n\s*\n`).Split(normalized, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		out = append(out, Block{Kind: KindParagraph, Text: chunk})
	}
	return out
}

// Encode serializes a sequence of blocks back into the stored body form.
func Encode(seq []Block) (string, error) {
	data, err := json.Marshal(seq)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// PlainText flattens the textual content of a sequence, used for the
// read-time estimate and excerpt generation. Legacy markup bodies
// return the raw body with tags left in place; the word count is close
// enough for an estimate.
func (s Sequence) PlainText() string {
	if s.IsLegacyMarkup() {
		return s.LegacyMarkup
	}
	var sb strings.Builder
	for _, b := range s.Blocks {
		switch b.Kind {
		case KindHeading, KindParagraph, KindQuote:
			sb.WriteString(b.Text)
			sb.WriteString("\n")
		case KindList:
			for _, item := range b.Items {
				sb.WriteString(item)
				sb.WriteString("\n")
			}
		case KindMedia, KindGallery, KindBackground:
			sb.WriteString(b.Caption)
			sb.WriteString("\n")
			sb.WriteString(b.Title)
			sb.WriteString("\n")
		case KindDivider:
			// no text
		}
	}
	return sb.String()
}
