// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package lifecycle owns the publication state machine for field notes:
// status transitions, revision snapshotting, admin feedback attachment,
// and edit-lock enforcement. The transition rules live in pure
// functions; Service applies them transactionally against the store.
package lifecycle

import "fieldnotes/internal/models"

// Decision is one of the three review verdicts an admin can issue.
type Decision string

const (
	DecisionApprove      Decision = "approve"
	DecisionNeedsChanges Decision = "needs-changes"
	DecisionReject       Decision = "reject"
)

// statusFor maps a decision onto the resulting document status.
func statusFor(d Decision) (models.DocumentStatus, bool) {
	switch d {
	case DecisionApprove:
		return models.StatusApproved, true
	case DecisionNeedsChanges:
		return models.StatusNeedsChanges, true
	case DecisionReject:
		return models.StatusRejected, true
	}
	return "", false
}

// NeedsNote reports whether a decision requires non-empty feedback text.
// A needs-changes or reject submitted without a note is a silent no-op,
// not an error.
func NeedsNote(d Decision) bool {
	return d == DecisionNeedsChanges || d == DecisionReject
}

// ResultingStatus computes the status an explicit save lands on.
// Author hints are ignored: an author's explicit save always submits
// for review. Admin hints are honored when valid; an absent or invalid
// hint keeps the current status (or draft for a new document).
func ResultingStatus(isAdmin, isNew bool, current, hint models.DocumentStatus) models.DocumentStatus {
	if !isAdmin {
		return models.StatusPending
	}
	if models.ValidStatus(hint) {
		return hint
	}
	if isNew {
		return models.StatusDraft
	}
	return current
}

// ShouldSnapshot decides whether the save appends a revision snapshot.
// Creation always seeds history with snapshot 1, whatever the initial
// status. An existing document snapshots only when the save leaves (or
// stays out of) draft AND actually changed something: re-submitting an
// identical save twice must not grow history twice.
func ShouldSnapshot(isNew bool, resulting models.DocumentStatus, statusChanged, contentChanged bool) bool {
	if isNew {
		return true
	}
	if resulting == models.StatusDraft {
		return false
	}
	return statusChanged || contentChanged
}

// NextRevision computes the revision number the save lands on. A fresh
// document seeds history at 1; an existing document increments only
// when a snapshot is taken, keeping snapshot numbers strictly
// increasing with no gaps.
func NextRevision(isNew bool, current int, snapshot bool) int {
	if isNew {
		return 1
	}
	if snapshot {
		return current + 1
	}
	return current
}
