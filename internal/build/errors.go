package build

import (
	"context"
	"errors"

	ferrors "git.home.luguber.info/inful/adocbuild/internal/foundation/errors"
	"git.home.luguber.info/inful/adocbuild/internal/title"
)

// Sentinel errors raised by the tree walk. They are wrapped into classified
// filesystem errors and stay reachable with errors.Is.
var (
	ErrSymlinkLoop     = errors.New("symbolic link loop")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// renderFailure classifies a renderer error for the document at path.
func renderFailure(err error, path string) error {
	if isCanceled(err) {
		return canceled(err)
	}
	return ferrors.WrapError(err, ferrors.CategoryRenderer, "renderer invocation failed").
		Fatal().
		WithContext("path", path).
		Build()
}

// titleFailure classifies a title extraction error for the document at path.
func titleFailure(err error, path string) error {
	msg := "title extraction failed"
	if errors.Is(err, title.ErrNoTitle) {
		msg = "no title found in rendered document"
	}
	return ferrors.WrapError(err, ferrors.CategoryTitle, msg).
		Fatal().
		UserAction().
		WithContext("path", path).
		Build()
}

func fsFailure(err error, op, path string) error {
	if isCanceled(err) {
		return canceled(err)
	}
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, op+" failed").
		Fatal().
		WithContext("path", path).
		Build()
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func canceled(err error) error {
	return ferrors.WrapError(err, ferrors.CategoryRuntime, "build canceled").Fatal().Build()
}
