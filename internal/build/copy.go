package build

import (
	"io"
	"io/fs"
	"os"
)

// copyFile copies src to dst byte for byte and gives dst the permission bits of src.
func copyFile(src, dst string, mode fs.FileMode) (err error) {
	// #nosec G304 -- src comes from walking the source tree
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	// #nosec G304 -- dst is the mapped build path of src
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	// OpenFile applies the umask; set the exact bits afterwards.
	return out.Chmod(mode.Perm())
}
