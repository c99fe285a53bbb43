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

const feedbackColumns = `id, document_id, revision, body, author_id, created_at`

// FeedbackStore provides access to administrator feedback notes.
type FeedbackStore struct {
	db querier
}

// NewFeedbackStore creates a new FeedbackStore backed by the given database.
func NewFeedbackStore(db *sql.DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// WithTx returns a FeedbackStore bound to an open transaction.
func (s *FeedbackStore) WithTx(tx *sql.Tx) *FeedbackStore {
	return &FeedbackStore{db: tx}
}

func scanFeedback(sc scanner) (*models.FeedbackNote, error) {
	var n models.FeedbackNote
	err := sc.Scan(&n.ID, &n.DocumentID, &n.Revision, &n.Body, &n.AuthorID, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a feedback note tagged with the revision it refers to.
func (s *FeedbackStore) Create(note *models.FeedbackNote) (*models.FeedbackNote, error) {
	row := s.db.QueryRow(`
		INSERT INTO feedback_notes (document_id, revision, body, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+feedbackColumns,
		note.DocumentID, note.Revision, note.Body, note.AuthorID,
	)
	created, err := scanFeedback(row)
	if err != nil {
		return nil, fmt.Errorf("create feedback note: %w", err)
	}
	return created, nil
}

// ListByDocumentID returns a document's feedback notes, newest first.
func (s *FeedbackStore) ListByDocumentID(documentID uuid.UUID) ([]*models.FeedbackNote, error) {
	rows, err := s.db.Query(`
		SELECT `+feedbackColumns+`
		FROM feedback_notes
		WHERE document_id = $1
		ORDER BY created_at DESC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list feedback notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.FeedbackNote
	for rows.Next() {
		n, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
