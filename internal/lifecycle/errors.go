// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrForbidden means the caller is authenticated but is neither the
	// document's owner nor an admin. The operation aborts before any write.
	ErrForbidden = errors.New("caller may not modify this document")

	// ErrNotFound means the target document or revision does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrLocked means a non-admin owner tried to submit edits while the
	// document is pending review. The caller is redirected to a locked
	// indicator; nothing is written.
	ErrLocked = errors.New("document is pending review and locked for editing")
)

// ValidationError carries field-level messages for an explicit save
// that failed validation. Nothing is written when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field(s)", len(e.Fields))
}

// Validate checks the required fields of an explicit save. Autosave
// deliberately skips this: half-typed drafts are legitimate.
func Validate(title, body string) *ValidationError {
	fields := make(map[string]string)
	if strings.TrimSpace(title) == "" {
		fields["title"] = "Title is required."
	}
	if strings.TrimSpace(body) == "" {
		fields["body"] = "Body is required."
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
