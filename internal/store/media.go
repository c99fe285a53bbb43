// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"fieldnotes/internal/models"
	"fieldnotes/internal/reconcile"
)

// mediaColumns lists the columns selected in media queries.
const mediaColumns = `id, document_id, kind, filename, content_type, size_bytes,
	s3_key, thumb_s3_key, alt_text, sort_position, created_at`

// MediaStore handles all media asset database operations. Asset bytes
// live in object storage; rows here carry metadata and the per-document
// sort position the binding resolver consumes.
type MediaStore struct {
	db querier
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// WithTx returns a MediaStore bound to an open transaction.
func (s *MediaStore) WithTx(tx *sql.Tx) *MediaStore {
	return &MediaStore{db: tx}
}

// scanMediaAsset scans a media asset row.
func scanMediaAsset(sc scanner) (*models.MediaAsset, error) {
	var m models.MediaAsset
	err := sc.Scan(
		&m.ID, &m.DocumentID, &m.Kind, &m.Filename, &m.ContentType,
		&m.SizeBytes, &m.S3Key, &m.ThumbS3Key, &m.AltText, &m.SortPosition,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new media asset at the end of the document's sort
// order. The position subquery and insert run as one statement so
// concurrent uploads to the same document cannot collide.
func (s *MediaStore) Create(m *models.MediaAsset) (*models.MediaAsset, error) {
	row := s.db.QueryRow(`
		INSERT INTO media_assets (document_id, kind, filename, content_type,
			size_bytes, s3_key, thumb_s3_key, alt_text, sort_position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			(SELECT COALESCE(MAX(sort_position) + 1, 0)
			 FROM media_assets WHERE document_id = $1))
		RETURNING `+mediaColumns,
		m.DocumentID, m.Kind, m.Filename, m.ContentType,
		m.SizeBytes, m.S3Key, m.ThumbS3Key, m.AltText,
	)
	created, err := scanMediaAsset(row)
	if err != nil {
		return nil, fmt.Errorf("create media asset: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single media asset. Returns nil if not found.
func (s *MediaStore) FindByID(id uuid.UUID) (*models.MediaAsset, error) {
	row := s.db.QueryRow(`SELECT `+mediaColumns+` FROM media_assets WHERE id = $1`, id)
	m, err := scanMediaAsset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media asset by id: %w", err)
	}
	return m, nil
}

// ListByDocument returns a document's assets in ascending sort position,
// the order the binding resolver consumes them in.
func (s *MediaStore) ListByDocument(documentID uuid.UUID) ([]models.MediaAsset, error) {
	rows, err := s.db.Query(`
		SELECT `+mediaColumns+`
		FROM media_assets
		WHERE document_id = $1
		ORDER BY sort_position ASC
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list media assets: %w", err)
	}
	defer rows.Close()

	var items []models.MediaAsset
	for rows.Next() {
		m, err := scanMediaAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media asset: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Delete removes a media asset and returns it so the caller can clean
// up the corresponding object storage keys. Returns nil if not found.
func (s *MediaStore) Delete(id uuid.UUID) (*models.MediaAsset, error) {
	row := s.db.QueryRow(`
		DELETE FROM media_assets WHERE id = $1
		RETURNING `+mediaColumns, id)
	m, err := scanMediaAsset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete media asset: %w", err)
	}
	return m, nil
}

// UpdateThumbKey points an asset at a regenerated thumbnail object.
func (s *MediaStore) UpdateThumbKey(id uuid.UUID, thumbKey *string) error {
	_, err := s.db.Exec(`UPDATE media_assets SET thumb_s3_key = $1 WHERE id = $2`, thumbKey, id)
	if err != nil {
		return fmt.Errorf("update thumb key: %w", err)
	}
	return nil
}

// ApplyOrder applies a reconciliation plan to one document's assets.
// Ownership is enforced in the WHERE clause: a placement whose asset id
// does not belong to documentID (stale payloads, races with deletion,
// or a hostile client naming another document's asset) updates zero
// rows and is silently dropped. Run inside the save transaction via
// WithTx, the batch is all-or-nothing; the per-document unique position
// constraint is deferred so swaps are legal mid-transaction.
func (s *MediaStore) ApplyOrder(documentID uuid.UUID, plan []reconcile.Placement) error {
	for _, p := range plan {
		_, err := s.db.Exec(`
			UPDATE media_assets SET sort_position = $1
			WHERE id = $2 AND document_id = $3
		`, p.Position, p.AssetID, documentID)
		if err != nil {
			return fmt.Errorf("apply media order: %w", err)
		}
	}
	return nil
}
