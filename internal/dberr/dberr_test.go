package dberr

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/imaybeabitshy/zimfiction/internal/apperr"
)

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "get_story"))
}

func TestWrapNoRows(t *testing.T) {
	err := Wrap(pgx.ErrNoRows, "get_story")
	var appErr *apperr.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindInputCorruption, appErr.Kind)
	assert.False(t, appErr.Fatal())
}

func TestWrapOtherError(t *testing.T) {
	err := Wrap(errors.New("connection refused"), "list_stories")
	var appErr *apperr.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.KindWriteError, appErr.Kind)
	assert.True(t, appErr.Fatal())
}
