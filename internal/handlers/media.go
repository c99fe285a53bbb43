// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fieldnotes/internal/cache"
	"fieldnotes/internal/imaging"
	"fieldnotes/internal/middleware"
	"fieldnotes/internal/models"
	"fieldnotes/internal/storage"
	"fieldnotes/internal/store"
)

const (
	// maxUploadSize is the maximum allowed file upload size (50 MB).
	maxUploadSize = 50 << 20

	// thumbWidth is the pixel width of generated photo thumbnails.
	thumbWidth = 480
)

// allowedMediaTypes defines MIME types accepted for essay media.
var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"video/mp4":  true,
	"video/webm": true,
}

// Media groups the essay media upload and delete handlers.
type Media struct {
	documents     *store.DocumentStore
	mediaStore    *store.MediaStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
}

// NewMedia creates a new Media handler group. storageClient may be nil
// when S3 is not configured; upload routes then return 503.
func NewMedia(documents *store.DocumentStore, mediaStore *store.MediaStore, storageClient *storage.Client, pageCache *cache.PageCache) *Media {
	return &Media{
		documents:     documents,
		mediaStore:    mediaStore,
		storageClient: storageClient,
		pageCache:     pageCache,
	}
}

// loadOwned fetches the document and enforces ownership and the review
// lock. Writes the error response itself and returns nil on failure.
func (h *Media) loadOwned(w http.ResponseWriter, r *http.Request, docID uuid.UUID) *models.Document {
	sess := middleware.SessionFromCtx(r.Context())

	doc, err := h.documents.FindByID(docID)
	if err != nil {
		slog.Error("load essay for media failed", "error", err, "id", docID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil
	}
	if doc == nil {
		http.NotFound(w, r)
		return nil
	}
	if !sess.IsAdmin() && doc.AuthorID != sess.UserID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil
	}
	if doc.LockedFor(sess.UserID, sess.IsAdmin()) {
		http.Error(w, "Essay is under review", http.StatusConflict)
		return nil
	}
	return doc
}

// Upload stores a new media asset for an essay: the file goes to S3,
// the row is appended at the end of the essay's media order, and photos
// get a JPEG thumbnail.
func (h *Media) Upload(w http.ResponseWriter, r *http.Request) {
	if h.storageClient == nil {
		http.Error(w, "media storage not configured", http.StatusServiceUnavailable)
		return
	}

	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	doc := h.loadOwned(w, r, docID)
	if doc == nil {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read upload failed", http.StatusBadRequest)
		return
	}

	contentType := http.DetectContentType(data)
	if !allowedMediaTypes[contentType] {
		http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
		return
	}

	kind := models.KindFromContentType(contentType)
	key := storage.MediaKey(doc.ID, uuid.New(), header.Filename)

	if err := h.storageClient.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		slog.Error("media upload failed", "error", err, "document_id", doc.ID)
		http.Error(w, "upload failed", http.StatusInternalServerError)
		return
	}

	asset, err := h.mediaStore.Create(&models.MediaAsset{
		DocumentID:  doc.ID,
		Kind:        kind,
		Filename:    header.Filename,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		S3Key:       key,
	})
	if err != nil {
		slog.Error("media row insert failed", "error", err, "document_id", doc.ID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if kind == models.MediaKindPhoto {
		h.generateThumb(r, asset, data)
	}

	slog.Info("media uploaded",
		"document_id", doc.ID,
		"asset_id", asset.ID,
		"kind", kind,
		"size", len(data),
	)
	h.invalidate(r, doc.Slug)
	http.Redirect(w, r, "/admin/essays/"+doc.ID.String(), http.StatusSeeOther)
}

// invalidate drops the cached public page for an essay whose media set
// changed. The listing shows no media, so it stays untouched.
func (h *Media) invalidate(r *http.Request, slug string) {
	if h.pageCache == nil {
		return
	}
	h.pageCache.InvalidateEssay(r.Context(), slug)
}

// generateThumb creates and stores a thumbnail. Failure is logged and
// the original keeps serving; thumbnails are an optimization.
func (h *Media) generateThumb(r *http.Request, asset *models.MediaAsset, data []byte) {
	thumb, err := imaging.Thumbnail(data, thumbWidth)
	if err != nil {
		slog.Warn("thumbnail generation failed", "error", err, "asset_id", asset.ID)
		return
	}
	if thumb == nil {
		return
	}

	key := storage.ThumbKey(asset.DocumentID, asset.ID)
	if err := h.storageClient.Upload(r.Context(), key, "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
		slog.Warn("thumbnail upload failed", "error", err, "asset_id", asset.ID)
		return
	}
	if err := h.mediaStore.UpdateThumbKey(asset.ID, &key); err != nil {
		slog.Warn("thumbnail key update failed", "error", err, "asset_id", asset.ID)
	}
}

// Delete removes a media asset: the row first, then the S3 objects.
// Subsequent saves re-pack the remaining assets' positions.
func (h *Media) Delete(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	asset, err := h.mediaStore.FindByID(assetID)
	if err != nil {
		slog.Error("load media failed", "error", err, "asset_id", assetID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if asset == nil {
		http.NotFound(w, r)
		return
	}

	doc := h.loadOwned(w, r, asset.DocumentID)
	if doc == nil {
		return
	}

	deleted, err := h.mediaStore.Delete(assetID)
	if err != nil {
		slog.Error("media delete failed", "error", err, "asset_id", assetID)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if h.storageClient != nil && deleted != nil {
		if err := h.storageClient.Delete(r.Context(), deleted.S3Key); err != nil {
			slog.Warn("s3 delete failed", "error", err, "key", deleted.S3Key)
		}
		if deleted.ThumbS3Key != nil {
			if err := h.storageClient.Delete(r.Context(), *deleted.ThumbS3Key); err != nil {
				slog.Warn("s3 thumb delete failed", "error", err, "key", *deleted.ThumbS3Key)
			}
		}
	}

	h.invalidate(r, doc.Slug)
	http.Redirect(w, r, "/admin/essays/"+doc.ID.String(), http.StatusSeeOther)
}
