// Package testutil provides helpers shared by adocbuild tests: source tree fixtures,
// build tree assertions and stand-ins for the external renderer.
package testutil
