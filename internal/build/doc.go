// Package build provides the build pipeline for adocbuild.
//
// A build is a full clean rebuild in two phases. The first phase removes the build
// tree and walks the source tree depth-first, mirroring directories, rendering
// AsciiDoc documents through a render.Renderer and copying every other file. Each
// directory and rendered document contributes an outline entry. The second phase
// synthesizes the outline into an index document, renders it into the build root's
// top-level page and removes the intermediate outline source.
//
// All execution paths (CLI build, watch mode, tests) route through Builder.Build.
// Failures are returned as classified errors from internal/foundation/errors; the
// first failure aborts the build and leaves the partially populated tree in place.
package build
