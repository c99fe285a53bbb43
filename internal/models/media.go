// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaKind distinguishes the two upload types the editor accepts.
type MediaKind string

const (
	MediaKindPhoto MediaKind = "photo"
	MediaKindVideo MediaKind = "video"
)

// MediaAsset represents one uploaded file belonging to a document.
// Bytes live in the object store under S3Key; this row holds metadata
// and the per-document sort position. SortPosition is the only field
// the editorial pipeline mutates after upload: media-consuming blocks
// claim assets positionally, in ascending sort order.
type MediaAsset struct {
	ID           uuid.UUID `json:"id"`
	DocumentID   uuid.UUID `json:"document_id"`
	Kind         MediaKind `json:"kind"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	S3Key        string    `json:"s3_key"`
	ThumbS3Key   *string   `json:"thumb_s3_key,omitempty"`
	AltText      *string   `json:"alt_text,omitempty"`
	SortPosition int       `json:"sort_position"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsPhoto returns true if the asset is an image upload.
func (m *MediaAsset) IsPhoto() bool {
	return m.Kind == MediaKindPhoto
}

// KindFromContentType maps a declared MIME type onto a MediaKind.
// Anything that is not video/* is treated as a photo.
func KindFromContentType(contentType string) MediaKind {
	if strings.HasPrefix(contentType, "video/") {
		return MediaKindVideo
	}
	return MediaKindPhoto
}

// HumanSize returns a human-readable file size string.
func (m *MediaAsset) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case m.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.SizeBytes)/float64(mb))
	case m.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", m.SizeBytes)
	}
}
