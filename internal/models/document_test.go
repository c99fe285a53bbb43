package models

import (
	"testing"

	"github.com/google/uuid"
)

// TestDocumentIsApproved verifies that IsApproved returns true only for
// the "approved" status.
func TestDocumentIsApproved(t *testing.T) {
	tests := []struct {
		name   string
		status DocumentStatus
		want   bool
	}{
		{name: "approved", status: StatusApproved, want: true},
		{name: "draft", status: StatusDraft, want: false},
		{name: "pending", status: StatusPending, want: false},
		{name: "needs changes", status: StatusNeedsChanges, want: false},
		{name: "rejected", status: StatusRejected, want: false},
		{name: "empty status", status: DocumentStatus(""), want: false},
		{name: "uppercase APPROVED", status: DocumentStatus("APPROVED"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Document{Status: tt.status}
			if got := d.IsApproved(); got != tt.want {
				t.Errorf("Document{Status: %q}.IsApproved() = %v, want %v",
					tt.status, got, tt.want)
			}
		})
	}
}

// TestDocumentLockedFor verifies the edit-lock rule: pending documents
// are locked for non-admin callers only.
func TestDocumentLockedFor(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name    string
		status  DocumentStatus
		isAdmin bool
		want    bool
	}{
		{name: "pending non-admin owner", status: StatusPending, isAdmin: false, want: true},
		{name: "pending admin", status: StatusPending, isAdmin: true, want: false},
		{name: "draft non-admin", status: StatusDraft, isAdmin: false, want: false},
		{name: "approved non-admin", status: StatusApproved, isAdmin: false, want: false},
		{name: "needs changes non-admin", status: StatusNeedsChanges, isAdmin: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Document{AuthorID: owner, Status: tt.status}
			if got := d.LockedFor(owner, tt.isAdmin); got != tt.want {
				t.Errorf("LockedFor(%s) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

// TestValidStatus verifies the closed set of pipeline statuses.
func TestValidStatus(t *testing.T) {
	tests := []struct {
		name   string
		status DocumentStatus
		want   bool
	}{
		{name: "draft", status: StatusDraft, want: true},
		{name: "pending", status: StatusPending, want: true},
		{name: "approved", status: StatusApproved, want: true},
		{name: "needs_changes", status: StatusNeedsChanges, want: true},
		{name: "rejected", status: StatusRejected, want: true},
		{name: "empty", status: DocumentStatus(""), want: false},
		{name: "published is not a pipeline status", status: DocumentStatus("published"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidStatus(tt.status); got != tt.want {
				t.Errorf("ValidStatus(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
