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

// TaxonomyStore handles tags, categories, and their document bindings.
// Names are unique case-insensitively; rebinding replaces a document's
// full association set with the submitted list.
type TaxonomyStore struct {
	db querier
}

// NewTaxonomyStore creates a new TaxonomyStore with the given database connection.
func NewTaxonomyStore(db *sql.DB) *TaxonomyStore {
	return &TaxonomyStore{db: db}
}

// WithTx returns a TaxonomyStore bound to an open transaction.
func (s *TaxonomyStore) WithTx(tx *sql.Tx) *TaxonomyStore {
	return &TaxonomyStore{db: tx}
}

// upsertByName inserts a name into the given table if unseen (matched
// case-insensitively via the lower(name) unique index) and returns its id.
func (s *TaxonomyStore) upsertByName(table, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO `+table+` (name) VALUES ($1)
		ON CONFLICT ((lower(name))) DO UPDATE SET name = `+table+`.name
		RETURNING id
	`, name).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert %s %q: %w", table, name, err)
	}
	return id, nil
}

// ReplaceDocumentTags atomically replaces a document's tag set with the
// tags named in the comma-separated list. Unseen names are created.
func (s *TaxonomyStore) ReplaceDocumentTags(documentID uuid.UUID, raw string) error {
	return s.replace("tags", "document_tags", "tag_id", documentID, raw)
}

// ReplaceDocumentCategories atomically replaces a document's category set.
func (s *TaxonomyStore) ReplaceDocumentCategories(documentID uuid.UUID, raw string) error {
	return s.replace("categories", "document_categories", "category_id", documentID, raw)
}

func (s *TaxonomyStore) replace(table, joinTable, joinCol string, documentID uuid.UUID, raw string) error {
	if _, err := s.db.Exec(`DELETE FROM `+joinTable+` WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("clear %s: %w", joinTable, err)
	}

	for _, name := range models.SplitNames(raw) {
		id, err := s.upsertByName(table, name)
		if err != nil {
			return err
		}
		_, err = s.db.Exec(`
			INSERT INTO `+joinTable+` (document_id, `+joinCol+`)
			VALUES ($1, $2) ON CONFLICT DO NOTHING
		`, documentID, id)
		if err != nil {
			return fmt.Errorf("bind %s: %w", joinTable, err)
		}
	}
	return nil
}

// TagsForDocument returns a document's tags ordered by name.
func (s *TaxonomyStore) TagsForDocument(documentID uuid.UUID) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.created_at
		FROM tags t
		JOIN document_tags dt ON dt.tag_id = t.id
		WHERE dt.document_id = $1
		ORDER BY t.name ASC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("tags for document: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// CategoriesForDocument returns a document's categories ordered by name.
func (s *TaxonomyStore) CategoriesForDocument(documentID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.created_at
		FROM categories c
		JOIN document_categories dc ON dc.category_id = c.id
		WHERE dc.document_id = $1
		ORDER BY c.name ASC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("categories for document: %w", err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
