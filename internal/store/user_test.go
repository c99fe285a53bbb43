// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"

	"fieldnotes/internal/models"
)

func TestUserStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-" + uuid.NewString()[:8] + "@fieldnotes.local"
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })

	created, err := s.Create(email, "secret123", "Test Writer", models.RoleAuthor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Role != models.RoleAuthor {
		t.Errorf("role: got %q, want author", created.Role)
	}
	if created.PasswordHash == "secret123" {
		t.Error("password stored in plaintext")
	}

	found, err := s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if found == nil || found.ID != created.ID {
		t.Errorf("FindByEmail: got %+v", found)
	}
}

func TestUserStoreCheckPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-pw-" + uuid.NewString()[:8] + "@fieldnotes.local"
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE email = $1", email) })

	user, err := s.Create(email, "correct-horse", "PW Tester", models.RoleAuthor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !s.CheckPassword(user, "correct-horse") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(user, "wrong") {
		t.Error("wrong password accepted")
	}
}

func TestUserStoreFindByEmailMissing(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	found, err := s.FindByEmail("nobody-" + uuid.NewString() + "@fieldnotes.local")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if found != nil {
		t.Error("expected nil for unknown email")
	}
}
