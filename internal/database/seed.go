package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default admin and a default author if no users exist,
// plus one approved sample essay so the public site is not empty.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, "admin@fieldnotes.local", string(hash), "Admin", "admin").Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	authorHash, err := bcrypt.GenerateFromPassword([]byte("author"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var authorID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, "author@fieldnotes.local", string(authorHash), "Author", "author").Scan(&authorID)
	if err != nil {
		return fmt.Errorf("seed insert author: %w", err)
	}

	// One approved essay so listing pages render on first boot.
	body := `[{"kind":"heading","text":"Welcome to Field Notes","level":1},` +
		`{"kind":"paragraph","text":"This sample essay was created by the database seeder. Sign in as an author to start writing."}]`
	var docID string
	err = db.QueryRow(`
		INSERT INTO documents (author_id, title, slug, excerpt, body, status, revision, read_time)
		VALUES ($1, $2, $3, $4, $5, 'approved', 1, 1)
		RETURNING id
	`, authorID, "Welcome to Field Notes", "welcome-to-field-notes",
		"A short introduction to the platform.", body).Scan(&docID)
	if err != nil {
		return fmt.Errorf("seed insert essay: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO document_revisions (document_id, revision, title, excerpt, body, created_by)
		VALUES ($1, 1, $2, $3, $4, $5)
	`, docID, "Welcome to Field Notes", "A short introduction to the platform.", body, authorID)
	if err != nil {
		return fmt.Errorf("seed insert revision: %w", err)
	}

	slog.Info("database seeded with default users",
		"admin", "admin@fieldnotes.local",
		"author", "author@fieldnotes.local",
	)

	return nil
}
