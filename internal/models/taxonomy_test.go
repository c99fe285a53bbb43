package models

import (
	"reflect"
	"testing"
)

// TestSplitNames verifies comma splitting, trimming, and case-insensitive
// de-duplication of tag/category name lists.
func TestSplitNames(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "simple list", raw: "alpine, glacier, fauna", want: []string{"alpine", "glacier", "fauna"}},
		{name: "case-insensitive dedupe keeps first spelling", raw: "Alpine, alpine, ALPINE", want: []string{"Alpine"}},
		{name: "empty entries dropped", raw: "alpine,, ,glacier", want: []string{"alpine", "glacier"}},
		{name: "empty input", raw: "", want: nil},
		{name: "only separators", raw: ", ,,", want: nil},
		{name: "surrounding whitespace trimmed", raw: "  lake trek  ", want: []string{"lake trek"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitNames(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitNames(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

// TestKindFromContentType verifies MIME-to-kind mapping.
func TestKindFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        MediaKind
	}{
		{contentType: "image/jpeg", want: MediaKindPhoto},
		{contentType: "image/png", want: MediaKindPhoto},
		{contentType: "video/mp4", want: MediaKindVideo},
		{contentType: "video/webm", want: MediaKindVideo},
		{contentType: "application/octet-stream", want: MediaKindPhoto},
		{contentType: "", want: MediaKindPhoto},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := KindFromContentType(tt.contentType); got != tt.want {
				t.Errorf("KindFromContentType(%q) = %q, want %q", tt.contentType, got, tt.want)
			}
		})
	}
}
