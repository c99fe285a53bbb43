// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fieldnotes/internal/cache"
	"fieldnotes/internal/lifecycle"
	"fieldnotes/internal/middleware"
	"fieldnotes/internal/models"
	"fieldnotes/internal/render"
	"fieldnotes/internal/session"
	"fieldnotes/internal/storage"
	"fieldnotes/internal/store"
)

// Editor groups the essay editing handlers: listing, the editor form,
// explicit save/submit, autosave, and revision restore.
type Editor struct {
	renderer      *render.Renderer
	service       *lifecycle.Service
	documents     *store.DocumentStore
	revisions     *store.RevisionStore
	feedback      *store.FeedbackStore
	mediaStore    *store.MediaStore
	taxonomy      *store.TaxonomyStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
}

// NewEditor creates a new Editor handler group. storageClient may be nil
// if S3 is not configured; media previews then render without URLs.
func NewEditor(renderer *render.Renderer, service *lifecycle.Service, documents *store.DocumentStore,
	revisions *store.RevisionStore, feedback *store.FeedbackStore, mediaStore *store.MediaStore,
	taxonomy *store.TaxonomyStore, storageClient *storage.Client, pageCache *cache.PageCache) *Editor {
	return &Editor{
		renderer:      renderer,
		service:       service,
		documents:     documents,
		revisions:     revisions,
		feedback:      feedback,
		mediaStore:    mediaStore,
		taxonomy:      taxonomy,
		storageClient: storageClient,
		pageCache:     pageCache,
	}
}

// caller converts session data into a lifecycle caller identity.
func caller(sess *session.Data) lifecycle.Caller {
	return lifecycle.Caller{ID: sess.UserID, Admin: sess.IsAdmin()}
}

// mediaView pairs an asset with its serving URL for templates.
type mediaView struct {
	Asset   *models.MediaAsset
	URL     string
	IsPhoto bool
}

// EssaysList renders the essay management page. Admins see every essay;
// authors see only their own.
func (e *Editor) EssaysList(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var essays []models.Document
	var err error
	if sess.IsAdmin() {
		essays, err = e.documents.List()
	} else {
		essays, err = e.documents.ListByAuthor(sess.UserID)
	}
	if err != nil {
		slog.Error("list essays failed", "error", err)
	}

	docs := make([]*models.Document, len(essays))
	for i := range essays {
		docs[i] = &essays[i]
	}

	e.renderer.Page(w, r, "essays_list", &render.PageData{
		Title:   "Essays",
		Section: "essays",
		Data:    map[string]any{"Essays": docs},
	})
}

// EssayEdit renders the editor form, or the locked notice when the essay
// is pending review and the caller is not an administrator.
func (e *Editor) EssayEdit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	doc, err := e.documents.FindByID(id)
	if err != nil {
		slog.Error("load essay failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if doc == nil {
		http.NotFound(w, r)
		return
	}
	if !sess.IsAdmin() && doc.AuthorID != sess.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	if doc.LockedFor(sess.UserID, sess.IsAdmin()) {
		e.renderer.Page(w, r, "locked", &render.PageData{
			Title:   doc.Title,
			Section: "essays",
			Data:    map[string]any{"Title": doc.Title},
		})
		return
	}

	e.renderForm(w, r, doc, nil)
}

// renderForm renders the editor form with the essay's media, feedback,
// and history. errs carries field validation messages on failed saves.
func (e *Editor) renderForm(w http.ResponseWriter, r *http.Request, doc *models.Document, errs map[string]string) {
	media, err := e.mediaStore.ListByDocument(doc.ID)
	if err != nil {
		slog.Warn("list media failed", "error", err, "document_id", doc.ID)
	}
	views := make([]mediaView, len(media))
	for i := range media {
		views[i] = mediaView{Asset: &media[i], IsPhoto: media[i].IsPhoto()}
		if e.storageClient != nil {
			views[i].URL = e.storageClient.FileURL(media[i].S3Key)
		}
	}

	notes, err := e.feedback.ListByDocumentID(doc.ID)
	if err != nil {
		slog.Warn("list feedback failed", "error", err, "document_id", doc.ID)
	}

	revs, err := e.revisions.ListByDocumentID(doc.ID)
	if err != nil {
		slog.Warn("list revisions failed", "error", err, "document_id", doc.ID)
	}

	e.renderer.Page(w, r, "essay_form", &render.PageData{
		Title:   doc.Title,
		Section: "essays",
		Data: map[string]any{
			"Essay":      doc,
			"Media":      views,
			"Feedback":   notes,
			"Revisions":  revs,
			"Tags":       e.tagNames(doc.ID),
			"Categories": e.categoryNames(doc.ID),
			"Statuses":   []string{"draft", "pending", "approved", "needs_changes", "rejected"},
			"Errors":     errs,
		},
	})
}

func (e *Editor) tagNames(docID uuid.UUID) string {
	tags, err := e.taxonomy.TagsForDocument(docID)
	if err != nil {
		return ""
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

func (e *Editor) categoryNames(docID uuid.UUID) string {
	cats, err := e.taxonomy.CategoriesForDocument(docID)
	if err != nil {
		return ""
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

// EssaySave handles the explicit save/submit of the editor form.
func (e *Editor) EssaySave(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var docID uuid.UUID
	if raw := chi.URLParam(r, "id"); raw != "" {
		var err error
		docID, err = uuid.Parse(raw)
		if err != nil {
			http.NotFound(w, r)
			return
		}
	}

	in := lifecycle.SaveInput{
		DocumentID:     docID,
		Title:          r.FormValue("title"),
		Excerpt:        r.FormValue("excerpt"),
		Body:           r.FormValue("body"),
		SEOTitle:       r.FormValue("seo_title"),
		SEODesc:        r.FormValue("seo_description"),
		StatusHint:     models.DocumentStatus(r.FormValue("status")),
		Tags:           r.FormValue("tags"),
		Categories:     r.FormValue("categories"),
		RebindTaxonomy: true,
		MediaOrder:     parseMediaOrder(r.FormValue("media_order")),
	}

	doc, err := e.service.Save(r.Context(), caller(sess), in)
	if err != nil {
		e.handleSaveError(w, r, sess, docID, in, err)
		return
	}

	e.invalidate(r, doc.Slug)
	http.Redirect(w, r, savedLocation(doc), http.StatusSeeOther)
}

// savedLocation picks where a successful save or restore lands: an
// approved essay goes straight to its public page, everything else
// returns to the editor.
func savedLocation(doc *models.Document) string {
	if doc.IsApproved() {
		return "/essays/" + doc.Slug
	}
	return "/admin/essays/" + doc.ID.String()
}

// handleSaveError maps service failures onto user-visible responses.
func (e *Editor) handleSaveError(w http.ResponseWriter, r *http.Request, sess *session.Data,
	docID uuid.UUID, in lifecycle.SaveInput, err error) {
	var verr *lifecycle.ValidationError
	switch {
	case errors.As(err, &verr):
		// Re-render the form with the submitted values.
		doc := &models.Document{
			ID:    docID,
			Title: in.Title,
			Body:  in.Body,
		}
		if docID != uuid.Nil {
			if current, ferr := e.documents.FindByID(docID); ferr == nil && current != nil {
				doc = current
				doc.Title = in.Title
				doc.Body = in.Body
			}
		}
		e.renderForm(w, r, doc, verr.Fields)
	case errors.Is(err, lifecycle.ErrLocked):
		e.renderer.Page(w, r, "locked", &render.PageData{
			Title:   in.Title,
			Section: "essays",
			Data:    map[string]any{"Title": in.Title},
		})
	case errors.Is(err, lifecycle.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, lifecycle.ErrNotFound):
		http.NotFound(w, r)
	default:
		slog.Error("essay save failed", "error", err, "document_id", docID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Autosave is the draft channel endpoint. It creates a draft on first use
// and patches draft fields afterwards, responding with the essay id as
// JSON so the editor can adopt it. A plain form post (the "New essay"
// button) is redirected into the editor instead.
func (e *Editor) Autosave(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var docID uuid.UUID
	if raw := r.FormValue("id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "invalid id", http.StatusBadRequest)
			return
		}
		docID = parsed
	}

	doc, err := e.service.Autosave(r.Context(), caller(sess), lifecycle.AutosaveInput{
		DocumentID: docID,
		Title:      r.FormValue("title"),
		Excerpt:    r.FormValue("excerpt"),
		Body:       r.FormValue("body"),
		SEOTitle:   r.FormValue("seo_title"),
		SEODesc:    r.FormValue("seo_description"),
		Tags:       r.FormValue("tags"),
		Categories: r.FormValue("categories"),
	})
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, lifecycle.ErrNotFound):
			http.NotFound(w, r)
		default:
			slog.Error("autosave failed", "error", err, "document_id", docID)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	// Non-HTMX form posts come from the "New essay" button.
	if r.Header.Get("HX-Request") != "true" && !strings.Contains(r.Header.Get("Accept"), "application/json") {
		http.Redirect(w, r, "/admin/essays/"+doc.ID.String(), http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": doc.ID.String()})
}

// RevisionRestore re-applies a snapshot's content through the explicit
// save path.
func (e *Editor) RevisionRestore(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	revID, err := uuid.Parse(chi.URLParam(r, "revisionID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	doc, err := e.service.Restore(r.Context(), caller(sess), revID)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrLocked):
			e.renderer.Page(w, r, "locked", &render.PageData{
				Title:   "Essay",
				Section: "essays",
				Data:    map[string]any{"Title": "This essay"},
			})
		case errors.Is(err, lifecycle.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, lifecycle.ErrNotFound):
			http.NotFound(w, r)
		default:
			slog.Error("revision restore failed", "error", err, "revision_id", revID)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	e.invalidate(r, doc.Slug)
	http.Redirect(w, r, savedLocation(doc), http.StatusSeeOther)
}

// invalidate drops the public caches touched by a save. Cheap enough to
// run on every successful mutation regardless of status.
func (e *Editor) invalidate(r *http.Request, slug string) {
	if e.pageCache == nil {
		return
	}
	e.pageCache.InvalidateEssay(r.Context(), slug)
	e.pageCache.InvalidateListing(r.Context())
}

// parseMediaOrder decodes the editor's preview mapping: a JSON object
// from block id to ordered asset ids. Malformed input yields nil so the
// save proceeds without touching media order.
func parseMediaOrder(raw string) map[string][]uuid.UUID {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var reported map[string][]string
	if err := json.Unmarshal([]byte(raw), &reported); err != nil {
		slog.Warn("malformed media order payload, ignoring")
		return nil
	}

	order := make(map[string][]uuid.UUID, len(reported))
	for blockID, ids := range reported {
		parsed := make([]uuid.UUID, 0, len(ids))
		for _, id := range ids {
			u, err := uuid.Parse(id)
			if err != nil {
				continue
			}
			parsed = append(parsed, u)
		}
		order[blockID] = parsed
	}
	if len(order) == 0 {
		return nil
	}
	return order
}
