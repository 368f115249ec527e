package build

import (
	"time"

	"git.home.luguber.info/inful/adocbuild/internal/outline"
)

// Report describes the outcome of a build. It is returned alongside any error so
// callers can log what was produced before the failure.
type Report struct {
	// BuildID identifies the build in logs.
	BuildID string

	// Status indicates overall build outcome.
	Status BuildStatus

	// SourceRoot and BuildRoot are the absolute roots used by the build.
	SourceRoot string
	BuildRoot  string

	// IndexPage is the path of the rendered index page, empty until it is written.
	IndexPage string

	// Directories counts mirrored directories below the root.
	Directories int

	// Documents counts rendered documents, excluding the index.
	Documents int

	// Copied counts files copied verbatim.
	Copied int

	// Entries is the outline in visitation order.
	Entries []outline.Entry

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	// BuildStatusRunning is the status of a build that has not finished.
	BuildStatusRunning BuildStatus = "running"

	// BuildStatusSuccess indicates the build completed successfully.
	BuildStatusSuccess BuildStatus = "success"

	// BuildStatusFailed indicates the build encountered an error.
	BuildStatusFailed BuildStatus = "failed"

	// BuildStatusCancelled indicates the build was cancelled.
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsTerminal returns true if the status represents a final state.
func (s BuildStatus) IsTerminal() bool {
	return s == BuildStatusSuccess || s == BuildStatusFailed || s == BuildStatusCancelled
}

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess
}
