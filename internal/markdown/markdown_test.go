// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"strings"
	"testing"
)

func TestRenderLegacyBasics(t *testing.T) {
	out := string(RenderLegacy("# Title\n\nSome **bold** text."))
	if !strings.Contains(out, "<h1") {
		t.Errorf("expected heading in output, got %q", out)
	}
	if !strings.Contains(out, "<strong>bold</strong>") {
		t.Errorf("expected bold text in output, got %q", out)
	}
}

func TestRenderLegacyStripsScript(t *testing.T) {
	out := string(RenderLegacy("hello <script>alert(1)</script> world"))
	if strings.Contains(out, "<script") {
		t.Errorf("script tag survived sanitization: %q", out)
	}
	if !strings.Contains(out, "hello") || !strings.Contains(out, "world") {
		t.Errorf("surrounding text lost: %q", out)
	}
}

func TestRenderLegacyStripsEventHandlers(t *testing.T) {
	out := string(RenderLegacy(`<p onclick="steal()">click me</p>`))
	if strings.Contains(out, "onclick") {
		t.Errorf("event handler survived sanitization: %q", out)
	}
}

func TestRenderLegacyCodeFence(t *testing.T) {
	out := string(RenderLegacy("```go\nfmt.Println(\"hi\")\n```"))
	if !strings.Contains(out, "<pre") {
		t.Errorf("expected pre block for code fence, got %q", out)
	}
}

func TestRenderLegacyGFMTable(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |"
	out := string(RenderLegacy(src))
	if !strings.Contains(out, "<table") {
		t.Errorf("expected table from GFM extension, got %q", out)
	}
}
