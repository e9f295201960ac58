package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatalClassification(t *testing.T) {
	cases := []struct {
		name  string
		err   *AppError
		fatal bool
	}{
		{"input_corruption", InputCorruption("story x", nil), false},
		{"render_error", RenderError("a.html", nil), false},
		{"write_error", WriteError("zim write", nil), true},
		{"plan_error", PlanError("slug collision", nil), true},
		{"cancelled", Cancelled(), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.fatal, c.err.Fatal())
		})
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 130, Cancelled().ExitCode())
	assert.Equal(t, 1, WriteError("x", nil).ExitCode())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := RenderError("a.html", cause)
	assert.ErrorIs(t, err, cause)
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := WriteError("flush", errors.New("disk full"))
	assert.Contains(t, err.Error(), "disk full")
}
