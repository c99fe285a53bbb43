// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentStatus represents where a field note sits in the editorial
// review pipeline.
type DocumentStatus string

const (
	StatusDraft        DocumentStatus = "draft"
	StatusPending      DocumentStatus = "pending"
	StatusApproved     DocumentStatus = "approved"
	StatusNeedsChanges DocumentStatus = "needs_changes"
	StatusRejected     DocumentStatus = "rejected"
)

// ValidStatus reports whether s is one of the known pipeline statuses.
func ValidStatus(s DocumentStatus) bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusNeedsChanges, StatusRejected:
		return true
	}
	return false
}

// Document represents a field note essay: a block-structured body plus
// the lifecycle bookkeeping the review pipeline maintains. The Featured
// and PickOrder columns belong to the homepage curation feature and are
// never written by the editorial pipeline.
type Document struct {
	ID             uuid.UUID      `json:"id"`
	AuthorID       uuid.UUID      `json:"author_id"`
	Title          string         `json:"title"`
	Slug           string         `json:"slug"`
	Excerpt        *string        `json:"excerpt,omitempty"`
	Body           string         `json:"body"`
	SEOTitle       *string        `json:"seo_title,omitempty"`
	SEODescription *string        `json:"seo_description,omitempty"`
	Status         DocumentStatus `json:"status"`
	Revision       int            `json:"revision"`
	ReadTime       int            `json:"read_time"`
	Featured       bool           `json:"featured"`
	PickOrder      *int           `json:"pick_order,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// IsApproved returns true if the document is publicly visible.
func (d *Document) IsApproved() bool {
	return d.Status == StatusApproved
}

// LockedFor reports whether the given caller may not submit edits.
// A pending document is locked for everyone except admins; admins are
// never locked out, including from their own pending documents.
func (d *Document) LockedFor(callerID uuid.UUID, isAdmin bool) bool {
	if isAdmin {
		return false
	}
	return d.Status == StatusPending
}

// DocumentRevision is an immutable snapshot of a document's editable
// fields, tagged with the revision counter it was taken at. Rows are
// only ever inserted; restore appends a new snapshot rather than
// rewriting an old one.
type DocumentRevision struct {
	ID             uuid.UUID `json:"id"`
	DocumentID     uuid.UUID `json:"document_id"`
	Revision       int       `json:"revision"`
	Title          string    `json:"title"`
	Excerpt        *string   `json:"excerpt,omitempty"`
	Body           string    `json:"body"`
	SEOTitle       *string   `json:"seo_title,omitempty"`
	SEODescription *string   `json:"seo_description,omitempty"`
	CreatedBy      uuid.UUID `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// FeedbackNote is an administrator comment attached to a document,
// tagged with the revision it refers to. Created alongside a
// needs-changes or reject decision (required) or an approval (optional).
type FeedbackNote struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	Revision   int       `json:"revision"`
	Body       string    `json:"body"`
	AuthorID   uuid.UUID `json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
}
