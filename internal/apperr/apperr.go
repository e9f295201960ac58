// Copyright (c) 2026 ZimFiction. All rights reserved.

/*
Package apperr defines the build stage's error taxonomy (spec §7).

Unlike the teacher's internal/platform/apperr (which maps errors to HTTP
status codes for an API client), this package maps errors to the build's
exit-code and continue/abort policy: an AppError is either fatal (aborts the
whole build) or recoverable (the offending job/artifact is dropped and a
counter is incremented, per spec §7).
*/
package apperr

import "fmt"

// Kind is the closed taxonomy of build-stage error classes (spec §7).
type Kind string

const (
	// KindInputCorruption: a Story cannot be projected (missing mandatory
	// fields). Policy: drop, increment counter, log, continue.
	KindInputCorruption Kind = "InputCorruption"

	// KindRenderError: template expansion failed for one artifact. Policy:
	// drop that artifact, continue.
	KindRenderError Kind = "RenderError"

	// KindWriteError: I/O or ZIM write failure. Fatal.
	KindWriteError Kind = "WriteError"

	// KindPlanError: invariant violation detected by the planner (e.g. a
	// slug collision, an overflowed counter). Fatal.
	KindPlanError Kind = "PlanError"

	// KindCancellation: a SIGINT or equivalent was observed. Graceful
	// shutdown, non-zero exit.
	KindCancellation Kind = "Cancellation"
)

// fatalKinds is the set of Kinds that must abort the entire build (spec §7).
var fatalKinds = map[Kind]bool{
	KindWriteError:   true,
	KindPlanError:    true,
	KindCancellation: true,
}

// AppError is the canonical error type for the build stage.
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is/errors.As to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Fatal reports whether this error's Kind must abort the whole build.
func (e *AppError) Fatal() bool { return fatalKinds[e.Kind] }

// ExitCode returns the process exit code this error implies if it reaches
// the CLI entrypoint unhandled (spec §6.4).
func (e *AppError) ExitCode() int {
	if e.Kind == KindCancellation {
		return 130
	}
	return 1
}

// InputCorruption wraps a Story/entity projection failure.
func InputCorruption(resource string, cause error) *AppError {
	return &AppError{Kind: KindInputCorruption, Message: resource + " could not be projected", Cause: cause}
}

// RenderError wraps a single-artifact template expansion failure.
func RenderError(artifactPath string, cause error) *AppError {
	return &AppError{Kind: KindRenderError, Message: "render failed for " + artifactPath, Cause: cause}
}

// WriteError wraps a fatal ZIM/filesystem write failure.
func WriteError(context string, cause error) *AppError {
	return &AppError{Kind: KindWriteError, Message: context, Cause: cause}
}

// PlanError wraps a fatal invariant violation detected during planning.
func PlanError(context string, cause error) *AppError {
	return &AppError{Kind: KindPlanError, Message: context, Cause: cause}
}

// Cancelled constructs the sentinel error for a user-requested shutdown.
func Cancelled() *AppError {
	return &AppError{Kind: KindCancellation, Message: "build cancelled"}
}
