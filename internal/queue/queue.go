// Copyright (c) 2026 ZimFiction. All rights reserved.

/*
Package queue implements the ArtifactQueue (spec §4.6, §5): a bounded,
typed channel of artifact.Artifact standing between the RenderWorker pool
and the ZimWriter. Its capacity is the build's only backpressure
mechanism — a renderer's Push blocks once the queue is full rather than
buffering unboundedly (spec §5).

Grounded on the "bounded, typed work item with explicit push/pop and
capacity" shape the corpus's distributed work-queue example exposes
(QueueBackend.Enqueue/Dequeue, BackendStats.QueueDepth), re-expressed as a
single-process channel: this queue has exactly one consumer (the ZimWriter)
and many producers (render workers), so it needs none of that example's
consumer-group, replay, or persistence machinery — only the capacity bound
and a depth readout survive the transplant.
*/
package queue

import (
	"context"

	"github.com/imaybeabitshy/zimfiction/internal/artifact"
)

// ArtifactQueue is a bounded MPSC channel of artifact.Artifact.
type ArtifactQueue struct {
	items chan artifact.Artifact
}

// New constructs an ArtifactQueue with the given capacity. Per spec §5,
// callers construct this with capacity = 4 * render_workers.
func New(capacity int) *ArtifactQueue {
	return &ArtifactQueue{items: make(chan artifact.Artifact, capacity)}
}

// Push enqueues a. It blocks until the queue has room or ctx is done,
// whichever comes first — the backpressure point spec §5 fixes as one of
// the core's only allowed blocking points.
func (q *ArtifactQueue) Push(ctx context.Context, a artifact.Artifact) error {
	select {
	case q.items <- a:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop dequeues the next artifact, blocking until one is available, the
// queue is closed (ok=false), or ctx is done.
func (q *ArtifactQueue) Pop(ctx context.Context) (a artifact.Artifact, ok bool, err error) {
	select {
	case a, ok = <-q.items:
		return a, ok, nil
	case <-ctx.Done():
		return artifact.Artifact{}, false, ctx.Err()
	}
}

// Close signals no further artifacts will be pushed. Pop drains any
// already-buffered artifacts before reporting ok=false. Callers must not
// Push after calling Close.
func (q *ArtifactQueue) Close() {
	close(q.items)
}

// Len reports the number of artifacts currently buffered, for metrics and
// diagnostics only — never used to make scheduling decisions, since it is
// stale the instant it's read.
func (q *ArtifactQueue) Len() int {
	return len(q.items)
}

// Cap reports the queue's fixed capacity.
func (q *ArtifactQueue) Cap() int {
	return cap(q.items)
}
