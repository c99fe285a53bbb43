// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"fieldnotes/internal/models"
)

// documentColumns lists all columns for documents SELECTs.
const documentColumns = `id, author_id, title, slug, excerpt, body, seo_title,
	seo_description, status, revision, read_time, featured, pick_order,
	created_at, updated_at`

// DocumentStore handles all document-related database operations.
type DocumentStore struct {
	db querier
}

// NewDocumentStore creates a new DocumentStore with the given database connection.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// WithTx returns a DocumentStore bound to an open transaction.
func (s *DocumentStore) WithTx(tx *sql.Tx) *DocumentStore {
	return &DocumentStore{db: tx}
}

// scanDocument scans a single documents row.
func scanDocument(sc scanner) (*models.Document, error) {
	var d models.Document
	err := sc.Scan(
		&d.ID, &d.AuthorID, &d.Title, &d.Slug, &d.Excerpt, &d.Body,
		&d.SEOTitle, &d.SEODescription, &d.Status, &d.Revision, &d.ReadTime,
		&d.Featured, &d.PickOrder, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindByID retrieves a document by its UUID. Returns nil if not found.
func (s *DocumentStore) FindByID(id uuid.UUID) (*models.Document, error) {
	row := s.db.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document by id: %w", err)
	}
	return d, nil
}

// FindBySlug retrieves an approved document by its slug. Used for the
// public essay view; non-approved documents are invisible here.
func (s *DocumentStore) FindBySlug(slug string) (*models.Document, error) {
	row := s.db.QueryRow(`
		SELECT `+documentColumns+`
		FROM documents WHERE slug = $1 AND status = 'approved'
	`, slug)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find document by slug: %w", err)
	}
	return d, nil
}

// ListByAuthor returns an author's documents, newest first.
func (s *DocumentStore) ListByAuthor(authorID uuid.UUID) ([]models.Document, error) {
	return s.list(`WHERE author_id = $1 ORDER BY created_at DESC`, authorID)
}

// ListByStatus returns all documents in the given pipeline status,
// oldest first so the review queue is worked in submission order.
func (s *DocumentStore) ListByStatus(status models.DocumentStatus) ([]models.Document, error) {
	return s.list(`WHERE status = $1 ORDER BY updated_at ASC`, status)
}

// ListApproved returns publicly visible documents, newest first.
func (s *DocumentStore) ListApproved() ([]models.Document, error) {
	return s.list(`WHERE status = 'approved' ORDER BY updated_at DESC`)
}

// List returns every document, newest first. Admin listing.
func (s *DocumentStore) List() ([]models.Document, error) {
	return s.list(`ORDER BY created_at DESC`)
}

func (s *DocumentStore) list(clause string, args ...any) ([]models.Document, error) {
	rows, err := s.db.Query(`SELECT `+documentColumns+` FROM documents `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var items []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

// Create inserts a new document and returns it with generated fields.
func (s *DocumentStore) Create(d *models.Document) (*models.Document, error) {
	row := s.db.QueryRow(`
		INSERT INTO documents (author_id, title, slug, excerpt, body,
			seo_title, seo_description, status, revision, read_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+documentColumns,
		d.AuthorID, d.Title, d.Slug, d.Excerpt, d.Body,
		d.SEOTitle, d.SEODescription, d.Status, d.Revision, d.ReadTime,
	)
	created, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return created, nil
}

// Update rewrites a document's editable and lifecycle fields. The
// curation columns (featured, pick_order) are owned by the homepage
// feature and deliberately left untouched.
func (s *DocumentStore) Update(d *models.Document) error {
	_, err := s.db.Exec(`
		UPDATE documents SET
			title = $1, slug = $2, excerpt = $3, body = $4,
			seo_title = $5, seo_description = $6, status = $7,
			revision = $8, read_time = $9, updated_at = NOW()
		WHERE id = $10
	`, d.Title, d.Slug, d.Excerpt, d.Body, d.SEOTitle, d.SEODescription,
		d.Status, d.Revision, d.ReadTime, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

// UpdateDraftFields is the autosave write path: it touches only the
// mutable composition fields, never status or revision.
func (s *DocumentStore) UpdateDraftFields(d *models.Document) error {
	_, err := s.db.Exec(`
		UPDATE documents SET
			title = $1, excerpt = $2, body = $3,
			seo_title = $4, seo_description = $5, read_time = $6,
			updated_at = NOW()
		WHERE id = $7
	`, d.Title, d.Excerpt, d.Body, d.SEOTitle, d.SEODescription, d.ReadTime, d.ID)
	if err != nil {
		return fmt.Errorf("autosave document: %w", err)
	}
	return nil
}

// Delete removes a document by ID. Media assets, revisions, feedback
// notes, and taxonomy bindings cascade in the schema.
func (s *DocumentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// CountByStatus returns the number of documents in a pipeline status.
func (s *DocumentStore) CountByStatus(status models.DocumentStatus) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM documents WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}
