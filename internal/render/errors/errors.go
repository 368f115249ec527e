// Package errors provides sentinel errors for renderer invocations. Launch failures,
// non-zero exits and undecodable output are kept apart for clearer diagnostics.
package errors

import "errors"

var (
	// ErrRendererNotFound indicates the renderer executable was not found on PATH.
	ErrRendererNotFound = errors.New("renderer executable not found")
	// ErrRendererLaunch indicates the renderer process could not be started.
	ErrRendererLaunch = errors.New("renderer could not be started")
	// ErrRendererExit indicates the renderer exited with a non-zero status.
	ErrRendererExit = errors.New("renderer exited with failure")
	// ErrRendererTimeout indicates the renderer exceeded its configured timeout.
	ErrRendererTimeout = errors.New("renderer timed out")
	// ErrRendererOutput indicates the renderer's standard output is not valid UTF-8 text.
	ErrRendererOutput = errors.New("renderer output is not valid UTF-8")
)
