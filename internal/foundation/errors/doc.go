// Package errors provides the classified error primitives used across adocbuild.
//
// Every failure a build can surface is a ClassifiedError carrying a category that
// maps onto the build's error taxonomy:
//
//   - CategoryNotFound: the source root does not exist
//   - CategoryBuildTree: the build tree could not be cleaned or created
//   - CategoryRenderer: the external renderer could not run or produced unusable output
//   - CategoryTitle: a rendered document has no title element
//   - CategoryFileSystem: any other read, write or copy failure
//
// Example usage:
//
//	err := errors.RendererError("render document").
//		WithContext("path", doc).
//		WithCause(runErr).
//		Build()
//
// The CLI adapter turns a ClassifiedError into a user-facing message and exit code.
package errors
