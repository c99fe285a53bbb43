// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lifecycle

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"fieldnotes/internal/blocks"
	"fieldnotes/internal/models"
	"fieldnotes/internal/reconcile"
	"fieldnotes/internal/slug"
	"fieldnotes/internal/store"
)

// Caller identifies the authenticated user performing an operation.
type Caller struct {
	ID    uuid.UUID
	Admin bool
}

// SaveInput carries the editor's submitted fields for an explicit save.
type SaveInput struct {
	DocumentID uuid.UUID // uuid.Nil creates a new document
	Title      string
	Slug       string
	Excerpt    string
	Body       string
	SEOTitle   string
	SEODesc    string

	// StatusHint is honored for admins only; author saves always land
	// on pending.
	StatusHint models.DocumentStatus

	// Tags and Categories are comma-separated name lists. They replace
	// the document's full association sets when RebindTaxonomy is true;
	// the restore path leaves existing bindings alone.
	Tags           string
	Categories     string
	RebindTaxonomy bool

	// MediaOrder is the client-reported preview mapping from block id to
	// the ordered asset ids observed in the editor at save time.
	MediaOrder map[string][]uuid.UUID

	// forceSnapshot overrides the change-gated snapshot rule. The
	// restore path sets it: restoring must append to history even when
	// the snapshot's content matches the current document.
	forceSnapshot bool
}

// AutosaveInput carries the draft channel's fields. There is no status
// hint and no media order: autosave never touches lifecycle state.
type AutosaveInput struct {
	DocumentID uuid.UUID // uuid.Nil creates a new draft
	Title      string
	Excerpt    string
	Body       string
	SEOTitle   string
	SEODesc    string
	Tags       string
	Categories string
}

// Service applies lifecycle transitions transactionally. Every
// state-changing operation runs as one transaction: the document
// update and its snapshot, feedback note, taxonomy rebind, and media
// reorder commit together or not at all.
type Service struct {
	db        *sql.DB
	documents *store.DocumentStore
	revisions *store.RevisionStore
	feedback  *store.FeedbackStore
	media     *store.MediaStore
	taxonomy  *store.TaxonomyStore
}

// NewService creates a lifecycle service over the given database and stores.
func NewService(db *sql.DB, documents *store.DocumentStore, revisions *store.RevisionStore,
	feedback *store.FeedbackStore, media *store.MediaStore, taxonomy *store.TaxonomyStore) *Service {
	return &Service{
		db:        db,
		documents: documents,
		revisions: revisions,
		feedback:  feedback,
		media:     media,
		taxonomy:  taxonomy,
	}
}

// Save performs the authoritative explicit save/submit: validation,
// lock enforcement, the status transition, the revision snapshot,
// taxonomy rebind, and media order reconciliation.
func (s *Service) Save(ctx context.Context, caller Caller, in SaveInput) (*models.Document, error) {
	if verr := Validate(in.Title, in.Body); verr != nil {
		return nil, verr
	}

	isNew := in.DocumentID == uuid.Nil

	var current *models.Document
	if !isNew {
		var err error
		current, err = s.documents.FindByID(in.DocumentID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrNotFound
		}
		if !caller.Admin && current.AuthorID != caller.ID {
			return nil, ErrForbidden
		}
		if current.LockedFor(caller.ID, caller.Admin) {
			return nil, ErrLocked
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	doc, err := s.applySave(tx, caller, in, isNew, current)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}

	slog.Info("document saved",
		"document_id", doc.ID,
		"status", doc.Status,
		"revision", doc.Revision,
		"admin", caller.Admin,
	)
	return doc, nil
}

// applySave runs the save inside an open transaction. current is nil
// for a new document.
func (s *Service) applySave(tx *sql.Tx, caller Caller, in SaveInput, isNew bool, current *models.Document) (*models.Document, error) {
	currentStatus := models.StatusDraft
	currentRevision := 0
	if current != nil {
		currentStatus = current.Status
		currentRevision = current.Revision
	}

	resulting := ResultingStatus(caller.Admin, isNew, currentStatus, in.StatusHint)

	statusChanged := isNew || resulting != currentStatus
	contentChanged := isNew || contentDiffers(current, in)
	snapshot := in.forceSnapshot || ShouldSnapshot(isNew, resulting, statusChanged, contentChanged)
	revision := NextRevision(isNew, currentRevision, snapshot)

	seq := blocks.Parse(in.Body)

	doc := &models.Document{
		Title:          strings.TrimSpace(in.Title),
		Slug:           in.Slug,
		Body:           in.Body,
		Status:         resulting,
		Revision:       revision,
		ReadTime:       blocks.ReadTime(seq),
		Excerpt:        optional(in.Excerpt),
		SEOTitle:       optional(in.SEOTitle),
		SEODescription: optional(in.SEODesc),
	}
	if doc.Slug == "" {
		if current != nil {
			doc.Slug = current.Slug
		} else {
			doc.Slug = slug.Generate(doc.Title)
		}
	}

	documents := s.documents.WithTx(tx)
	if isNew {
		doc.AuthorID = caller.ID
		created, err := documents.Create(doc)
		if err != nil {
			return nil, err
		}
		doc = created
	} else {
		doc.ID = current.ID
		doc.AuthorID = current.AuthorID
		if err := documents.Update(doc); err != nil {
			return nil, err
		}
	}

	if snapshot {
		_, err := s.revisions.WithTx(tx).Create(&models.DocumentRevision{
			DocumentID:     doc.ID,
			Revision:       revision,
			Title:          doc.Title,
			Excerpt:        doc.Excerpt,
			Body:           doc.Body,
			SEOTitle:       doc.SEOTitle,
			SEODescription: doc.SEODescription,
			CreatedBy:      caller.ID,
		})
		if err != nil {
			return nil, err
		}
	}

	if in.RebindTaxonomy {
		taxonomy := s.taxonomy.WithTx(tx)
		if err := taxonomy.ReplaceDocumentTags(doc.ID, in.Tags); err != nil {
			return nil, err
		}
		if err := taxonomy.ReplaceDocumentCategories(doc.ID, in.Categories); err != nil {
			return nil, err
		}
	}

	if len(in.MediaOrder) > 0 {
		media := s.media.WithTx(tx)
		assets, err := media.ListByDocument(doc.ID)
		if err != nil {
			return nil, err
		}
		existing := make([]uuid.UUID, len(assets))
		for i, a := range assets {
			existing[i] = a.ID
		}
		plan := reconcile.Plan(seq, in.MediaOrder, existing)
		if err := media.ApplyOrder(doc.ID, plan); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// Autosave is the draft channel: it creates a draft on first use and
// performs direct field updates afterwards, with no status change and
// no revision snapshot. Each call is one atomic transaction; across
// calls, last write wins.
func (s *Service) Autosave(ctx context.Context, caller Caller, in AutosaveInput) (*models.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin autosave: %w", err)
	}
	defer tx.Rollback()

	documents := s.documents.WithTx(tx)
	seq := blocks.Parse(in.Body)

	var doc *models.Document
	if in.DocumentID == uuid.Nil {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			title = "Untitled field note"
		}
		doc, err = documents.Create(&models.Document{
			AuthorID:       caller.ID,
			Title:          title,
			Slug:           slug.Generate(title) + "-" + uuid.NewString()[:8],
			Body:           in.Body,
			Status:         models.StatusDraft,
			Revision:       1,
			ReadTime:       blocks.ReadTime(seq),
			Excerpt:        optional(in.Excerpt),
			SEOTitle:       optional(in.SEOTitle),
			SEODescription: optional(in.SEODesc),
		})
		if err != nil {
			return nil, err
		}
	} else {
		doc, err = documents.FindByID(in.DocumentID)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, ErrNotFound
		}
		if !caller.Admin && doc.AuthorID != caller.ID {
			return nil, ErrForbidden
		}

		doc.Title = strings.TrimSpace(in.Title)
		doc.Excerpt = optional(in.Excerpt)
		doc.Body = in.Body
		doc.SEOTitle = optional(in.SEOTitle)
		doc.SEODescription = optional(in.SEODesc)
		doc.ReadTime = blocks.ReadTime(seq)

		if err := documents.UpdateDraftFields(doc); err != nil {
			return nil, err
		}
	}

	taxonomy := s.taxonomy.WithTx(tx)
	if err := taxonomy.ReplaceDocumentTags(doc.ID, in.Tags); err != nil {
		return nil, err
	}
	if err := taxonomy.ReplaceDocumentCategories(doc.ID, in.Categories); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit autosave: %w", err)
	}
	return doc, nil
}

// Review applies an admin verdict. Approve changes status and may
// attach an optional note; needs-changes and reject require non-empty
// note text or the whole call is a silent no-op. Review never creates
// a snapshot. The returned bool reports whether anything was applied.
func (s *Service) Review(ctx context.Context, caller Caller, documentID uuid.UUID, decision Decision, note string) (bool, error) {
	if !caller.Admin {
		return false, ErrForbidden
	}

	resulting, ok := statusFor(decision)
	if !ok {
		return false, fmt.Errorf("unknown review decision %q", decision)
	}

	note = strings.TrimSpace(note)
	if NeedsNote(decision) && note == "" {
		// Usability choice: a missing required note ignores the verdict
		// instead of erroring.
		return false, nil
	}

	doc, err := s.documents.FindByID(documentID)
	if err != nil {
		return false, err
	}
	if doc == nil {
		return false, ErrNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin review: %w", err)
	}
	defer tx.Rollback()

	doc.Status = resulting
	if err := s.documents.WithTx(tx).Update(doc); err != nil {
		return false, err
	}

	if note != "" {
		_, err := s.feedback.WithTx(tx).Create(&models.FeedbackNote{
			DocumentID: doc.ID,
			Revision:   doc.Revision,
			Body:       note,
			AuthorID:   caller.ID,
		})
		if err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit review: %w", err)
	}

	slog.Info("review decision applied",
		"document_id", doc.ID,
		"decision", decision,
		"status", doc.Status,
	)
	return true, nil
}

// Restore re-applies a snapshot's content through the explicit save
// path: history stays append-only, so restoring always creates a new
// snapshot holding the old content. The document's slug and taxonomy
// bindings are left as they are.
func (s *Service) Restore(ctx context.Context, caller Caller, revisionID uuid.UUID) (*models.Document, error) {
	rev, err := s.revisions.FindByID(revisionID)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, ErrNotFound
	}

	return s.Save(ctx, caller, SaveInput{
		DocumentID:    rev.DocumentID,
		Title:         rev.Title,
		Excerpt:       deref(rev.Excerpt),
		Body:          rev.Body,
		SEOTitle:      deref(rev.SEOTitle),
		SEODesc:       deref(rev.SEODescription),
		forceSnapshot: true,
	})
}

// contentDiffers reports whether the submitted fields differ from the
// stored document. Used to keep blind re-submissions from growing the
// revision history.
func contentDiffers(current *models.Document, in SaveInput) bool {
	if current == nil {
		return true
	}
	return current.Title != strings.TrimSpace(in.Title) ||
		current.Body != in.Body ||
		deref(current.Excerpt) != in.Excerpt ||
		deref(current.SEOTitle) != in.SEOTitle ||
		deref(current.SEODescription) != in.SEODesc
}

// optional converts a form value to a nullable column value.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref safely dereferences a *string, returning "" if nil.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
