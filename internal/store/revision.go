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

// revisionColumns lists all columns for document_revisions SELECTs.
const revisionColumns = `id, document_id, revision, title, excerpt, body,
	seo_title, seo_description, created_by, created_at`

// RevisionStore provides access to the append-only document revision
// log. Rows are inserted at transition time and never updated or
// deleted afterwards.
type RevisionStore struct {
	db querier
}

// NewRevisionStore creates a new RevisionStore backed by the given database.
func NewRevisionStore(db *sql.DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// WithTx returns a RevisionStore bound to an open transaction.
func (s *RevisionStore) WithTx(tx *sql.Tx) *RevisionStore {
	return &RevisionStore{db: tx}
}

// scanRevision scans a single document_revisions row.
func scanRevision(sc scanner) (*models.DocumentRevision, error) {
	var r models.DocumentRevision
	err := sc.Scan(
		&r.ID, &r.DocumentID, &r.Revision, &r.Title, &r.Excerpt, &r.Body,
		&r.SEOTitle, &r.SEODescription, &r.CreatedBy, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a new revision snapshot. The unique (document_id,
// revision) constraint makes a duplicate snapshot for the same revision
// a hard error rather than silent history corruption.
func (s *RevisionStore) Create(rev *models.DocumentRevision) (*models.DocumentRevision, error) {
	row := s.db.QueryRow(`
		INSERT INTO document_revisions (document_id, revision, title, excerpt,
			body, seo_title, seo_description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+revisionColumns,
		rev.DocumentID, rev.Revision, rev.Title, rev.Excerpt,
		rev.Body, rev.SEOTitle, rev.SEODescription, rev.CreatedBy,
	)
	created, err := scanRevision(row)
	if err != nil {
		return nil, fmt.Errorf("create revision: %w", err)
	}
	return created, nil
}

// ListByDocumentID returns all snapshots for a document, newest first.
func (s *RevisionStore) ListByDocumentID(documentID uuid.UUID) ([]*models.DocumentRevision, error) {
	rows, err := s.db.Query(`
		SELECT `+revisionColumns+`
		FROM document_revisions
		WHERE document_id = $1
		ORDER BY revision DESC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []*models.DocumentRevision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}

// FindByID returns a single snapshot by its ID. Returns nil if not found.
func (s *RevisionStore) FindByID(id uuid.UUID) (*models.DocumentRevision, error) {
	row := s.db.QueryRow(`SELECT `+revisionColumns+` FROM document_revisions WHERE id = $1`, id)
	r, err := scanRevision(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find revision by id: %w", err)
	}
	return r, nil
}

// Count returns the number of snapshots for a document.
func (s *RevisionStore) Count(documentID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM document_revisions WHERE document_id = $1
	`, documentID).Scan(&count)
	return count, err
}
