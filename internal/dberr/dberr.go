// Copyright (c) 2026 ZimFiction. All rights reserved.

// Package dberr bridges low-level entity-store driver errors into
// apperr.AppError, exactly as the teacher's internal/platform/dberr bridges
// pgx errors for its API responses.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/imaybeabitshy/zimfiction/internal/apperr"
)

// ErrNotFound is an InputCorruption value for a missing entity. Wrap does
// not return it: for a missing row Wrap builds its own InputCorruption
// carrying the action name.
var ErrNotFound = apperr.InputCorruption("entity not found", nil)

// Wrap classifies a driver error into an apperr.AppError. A nil err is
// passed through unchanged.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.InputCorruption(action, err)
	}

	// Any other driver failure (connection loss, malformed query) is a
	// store I/O failure, not a content problem — treat it as fatal rather
	// than a droppable per-story corruption.
	return apperr.WriteError("entity store: "+action, err)
}
