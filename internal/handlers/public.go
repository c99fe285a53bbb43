// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fieldnotes/internal/blocks"
	"fieldnotes/internal/cache"
	"fieldnotes/internal/markdown"
	"fieldnotes/internal/models"
	"fieldnotes/internal/render"
	"fieldnotes/internal/storage"
	"fieldnotes/internal/store"
)

// Public serves the reader-facing essay pages. Approved essays only;
// everything else 404s regardless of who asks. Rendered pages are
// cached whole in Valkey and invalidated on editorial writes.
type Public struct {
	renderer      *render.Renderer
	documents     *store.DocumentStore
	mediaStore    *store.MediaStore
	taxonomy      *store.TaxonomyStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
}

// NewPublic creates the public handler group. storageClient and
// pageCache may be nil; media then renders without URLs and every
// request renders fresh.
func NewPublic(renderer *render.Renderer, documents *store.DocumentStore, mediaStore *store.MediaStore, taxonomy *store.TaxonomyStore, storageClient *storage.Client, pageCache *cache.PageCache) *Public {
	return &Public{
		renderer:      renderer,
		documents:     documents,
		mediaStore:    mediaStore,
		taxonomy:      taxonomy,
		storageClient: storageClient,
		pageCache:     pageCache,
	}
}

// assetView is one resolved media slot as the essay template consumes it.
type assetView struct {
	URL     string
	Alt     string
	Caption string
	IsVideo bool
}

// blockView is one body block flattened for the essay template. Assets
// holds only the slots that actually received an asset; a block whose
// slots ran out of uploads renders without media.
type blockView struct {
	Kind    string
	Text    string
	Level   int
	Items   []string
	Caption string
	Title   string
	Assets  []assetView
}

// essayView is the full data for the public essay page.
type essayView struct {
	Title          string
	SEOTitle       *string
	SEODescription *string
	ReadTime       int
	LegacyHTML     template.HTML
	Blocks         []blockView
	Tags           []models.Tag
}

// EssaysIndex serves the approved-essay listing, cache-first.
func (h *Public) EssaysIndex(w http.ResponseWriter, r *http.Request) {
	if h.pageCache != nil {
		if html, ok := h.pageCache.Get(r.Context(), cache.ListingKey()); ok {
			writeHTML(w, html)
			return
		}
	}

	essays, err := h.documents.ListApproved()
	if err != nil {
		slog.Error("list approved essays failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := h.renderer.PublicHTML("index", map[string]any{"Essays": essays})
	if err != nil {
		slog.Error("render listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if h.pageCache != nil {
		h.pageCache.Set(r.Context(), cache.ListingKey(), html)
	}
	writeHTML(w, html)
}

// EssayBySlug serves one approved essay, cache-first. The body is
// parsed into blocks and the document's media assets are bound to the
// media-consuming blocks positionally; bodies that predate the block
// editor render through the sanitized markup path instead.
func (h *Public) EssayBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if h.pageCache != nil {
		if html, ok := h.pageCache.Get(r.Context(), cache.EssayKey(slug)); ok {
			writeHTML(w, html)
			return
		}
	}

	doc, err := h.documents.FindBySlug(slug)
	if err != nil {
		slog.Error("load essay failed", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if doc == nil || !doc.IsApproved() {
		http.NotFound(w, r)
		return
	}

	view, err := h.buildEssayView(doc)
	if err != nil {
		slog.Error("build essay view failed", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	html, err := h.renderer.PublicHTML("essay", view)
	if err != nil {
		slog.Error("render essay failed", "error", err, "slug", slug)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if h.pageCache != nil {
		h.pageCache.Set(r.Context(), cache.EssayKey(slug), html)
	}
	writeHTML(w, html)
}

// buildEssayView assembles the template data for one approved essay.
func (h *Public) buildEssayView(doc *models.Document) (*essayView, error) {
	view := &essayView{
		Title:          doc.Title,
		SEOTitle:       doc.SEOTitle,
		SEODescription: doc.SEODescription,
		ReadTime:       doc.ReadTime,
	}

	seq := blocks.Parse(doc.Body)
	if seq.IsLegacyMarkup() {
		view.LegacyHTML = markdown.RenderLegacy(seq.LegacyMarkup)
	} else {
		assets, err := h.mediaStore.ListByDocument(doc.ID)
		if err != nil {
			return nil, err
		}
		view.Blocks = h.buildBlockViews(seq, assets)
	}

	tags, err := h.taxonomy.TagsForDocument(doc.ID)
	if err != nil {
		return nil, err
	}
	view.Tags = tags

	return view, nil
}

// buildBlockViews binds the sorted asset list to the sequence's blocks
// and flattens the result for the template. Empty slots are dropped so
// templates never see a nil asset.
func (h *Public) buildBlockViews(seq blocks.Sequence, assets []models.MediaAsset) []blockView {
	bindings := blocks.ResolveMediaBindings(seq, assets)
	views := make([]blockView, 0, len(bindings))
	for _, bind := range bindings {
		v := blockView{
			Kind:    string(bind.Block.Kind),
			Text:    bind.Block.Text,
			Level:   bind.Block.Level,
			Items:   bind.Block.Items,
			Caption: bind.Block.Caption,
			Title:   bind.Block.Title,
		}
		for i, asset := range bind.Assets {
			if asset == nil {
				continue
			}
			v.Assets = append(v.Assets, h.assetView(bind.Block, i, asset))
		}
		views = append(views, v)
	}
	return views
}

// assetView resolves the per-slot caption and alt text. Gallery blocks
// carry those per slot; media and background blocks per block; the
// asset's own alt text is the fallback either way.
func (h *Public) assetView(b blocks.Block, slot int, asset *models.MediaAsset) assetView {
	v := assetView{
		IsVideo: asset.Kind == models.MediaKindVideo,
		Caption: b.Caption,
		Alt:     b.Alt,
	}
	if b.Kind == blocks.KindGallery && slot < len(b.Gallery) {
		v.Caption = b.Gallery[slot].Caption
		v.Alt = b.Gallery[slot].Alt
	}
	if v.Alt == "" && asset.AltText != nil {
		v.Alt = *asset.AltText
	}
	if h.storageClient != nil {
		v.URL = h.storageClient.FileURL(asset.S3Key)
	}
	return v
}

func writeHTML(w http.ResponseWriter, html []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}
