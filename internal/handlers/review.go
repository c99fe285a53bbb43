// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fieldnotes/internal/cache"
	"fieldnotes/internal/lifecycle"
	"fieldnotes/internal/middleware"
	"fieldnotes/internal/models"
	"fieldnotes/internal/render"
	"fieldnotes/internal/store"
)

// Review groups the editorial review handlers. Routes are mounted
// behind RequireAdmin; the lifecycle service enforces the same rule
// again at the service boundary.
type Review struct {
	renderer  *render.Renderer
	service   *lifecycle.Service
	documents *store.DocumentStore
	pageCache *cache.PageCache
}

// NewReview creates a new Review handler group.
func NewReview(renderer *render.Renderer, service *lifecycle.Service,
	documents *store.DocumentStore, pageCache *cache.PageCache) *Review {
	return &Review{
		renderer:  renderer,
		service:   service,
		documents: documents,
		pageCache: pageCache,
	}
}

// Queue renders the pending essays, oldest submission first.
func (h *Review) Queue(w http.ResponseWriter, r *http.Request) {
	pending, err := h.documents.ListByStatus(models.StatusPending)
	if err != nil {
		slog.Error("list pending essays failed", "error", err)
	}

	docs := make([]*models.Document, len(pending))
	for i := range pending {
		docs[i] = &pending[i]
	}

	h.renderer.Page(w, r, "review", &render.PageData{
		Title:   "Review queue",
		Section: "review",
		Data:    map[string]any{"Pending": docs},
	})
}

// Decide applies an admin verdict to a pending essay. A needs-changes or
// reject verdict without a note is ignored and returns to the queue
// unchanged.
func (h *Review) Decide(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	decision := lifecycle.Decision(r.FormValue("decision"))
	note := r.FormValue("note")

	applied, err := h.service.Review(r.Context(), caller(sess), id, decision, note)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, lifecycle.ErrNotFound):
			http.NotFound(w, r)
		default:
			slog.Error("review decision failed", "error", err, "document_id", id)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	if applied && h.pageCache != nil {
		// Visibility may have changed either way.
		if doc, ferr := h.documents.FindByID(id); ferr == nil && doc != nil {
			h.pageCache.InvalidateEssay(r.Context(), doc.Slug)
		}
		h.pageCache.InvalidateListing(r.Context())
	}

	http.Redirect(w, r, "/admin/review", http.StatusSeeOther)
}
