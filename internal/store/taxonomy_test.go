// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestTaxonomyStoreReplaceDocumentTags(t *testing.T) {
	db := testDB(t)
	s := NewTaxonomyStore(db)
	doc := createTestDocument(t, db)

	prefix := "tag-" + uuid.NewString()[:8]
	t.Cleanup(func() { db.Exec("DELETE FROM tags WHERE name LIKE $1", prefix+"%") })

	if err := s.ReplaceDocumentTags(doc.ID, prefix+"-go, "+prefix+"-web"); err != nil {
		t.Fatalf("ReplaceDocumentTags: %v", err)
	}

	tags, err := s.TagsForDocument(doc.ID)
	if err != nil {
		t.Fatalf("TagsForDocument: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("got %d tags, want 2", len(tags))
	}

	// Replacing shrinks the set.
	if err := s.ReplaceDocumentTags(doc.ID, prefix+"-go"); err != nil {
		t.Fatalf("ReplaceDocumentTags (shrink): %v", err)
	}
	tags, _ = s.TagsForDocument(doc.ID)
	if len(tags) != 1 {
		t.Errorf("after shrink: got %d tags, want 1", len(tags))
	}
	if tags[0].Name != prefix+"-go" {
		t.Errorf("kept tag: got %q", tags[0].Name)
	}
}

// TestTaxonomyStoreCaseInsensitiveUpsert verifies that names differing
// only in case resolve to the same row, keeping the first spelling.
func TestTaxonomyStoreCaseInsensitiveUpsert(t *testing.T) {
	db := testDB(t)
	s := NewTaxonomyStore(db)
	a := createTestDocument(t, db)
	b := createTestDocument(t, db)

	name := "Tag-" + uuid.NewString()[:8]
	t.Cleanup(func() { db.Exec("DELETE FROM tags WHERE lower(name) = lower($1)", name) })

	if err := s.ReplaceDocumentTags(a.ID, name); err != nil {
		t.Fatalf("first bind: %v", err)
	}
	if err := s.ReplaceDocumentTags(b.ID, strings.ToUpper(name)); err != nil {
		t.Fatalf("second bind, different case: %v", err)
	}

	aTags, _ := s.TagsForDocument(a.ID)
	bTags, _ := s.TagsForDocument(b.ID)
	if len(aTags) != 1 || len(bTags) != 1 {
		t.Fatalf("tag counts: %d, %d", len(aTags), len(bTags))
	}
	if aTags[0].ID != bTags[0].ID {
		t.Error("case variants created two tag rows")
	}
	if bTags[0].Name != name {
		t.Errorf("stored spelling: got %q, want first writer's %q", bTags[0].Name, name)
	}
}

func TestTaxonomyStoreReplaceWithEmptyClears(t *testing.T) {
	db := testDB(t)
	s := NewTaxonomyStore(db)
	doc := createTestDocument(t, db)

	prefix := "cat-" + uuid.NewString()[:8]
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE name LIKE $1", prefix+"%") })

	if err := s.ReplaceDocumentCategories(doc.ID, prefix+"-essays"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := s.ReplaceDocumentCategories(doc.ID, ""); err != nil {
		t.Fatalf("clear: %v", err)
	}

	cats, err := s.CategoriesForDocument(doc.ID)
	if err != nil {
		t.Fatalf("CategoriesForDocument: %v", err)
	}
	if len(cats) != 0 {
		t.Errorf("got %d categories after clear, want 0", len(cats))
	}
}
