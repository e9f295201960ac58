package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imaybeabitshy/zimfiction/internal/artifact"
)

func TestPushPopRoundTrip(t *testing.T) {
	ctx := context.Background()
	q := New(2)

	require.NoError(t, q.Push(ctx, artifact.Artifact{Path: "a"}))
	require.NoError(t, q.Push(ctx, artifact.Artifact{Path: "b"}))
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 2, q.Cap())

	a, ok, err := q.Pop(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", a.Path)
}

func TestPushBlocksWhenFull(t *testing.T) {
	q := New(1)
	ctx := context.Background()
	require.NoError(t, q.Push(ctx, artifact.Artifact{Path: "a"}))

	pushCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := q.Push(pushCtx, artifact.Artifact{Path: "b"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPopAfterCloseDrainsThenReportsDone(t *testing.T) {
	ctx := context.Background()
	q := New(2)
	require.NoError(t, q.Push(ctx, artifact.Artifact{Path: "a"}))
	q.Close()

	a, ok, err := q.Pop(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", a.Path)

	_, ok, err = q.Pop(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPopRespectsContextCancellation(t *testing.T) {
	q := New(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := q.Pop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
