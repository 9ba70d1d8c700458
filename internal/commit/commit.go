// Package commit publishes new file contents atomically: serialize into a
// temp file beside the destination, then rename it over the old file.
package commit

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteFile replaces path with the bytes produced by write. The temp file
// lives in the destination's own directory so the final rename stays on
// one filesystem; if the rename still fails (cross-device mounts), a
// copy+remove takes over. On any error the destination is untouched and
// the temp file is removed.
func WriteFile(fs afero.Fs, path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(fs, dir, "dmicopy-*.dmi")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	promoted := false
	defer func() {
		if !promoted {
			fs.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err := write(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := fs.Rename(tmpName, path); err != nil {
		if cerr := copyFile(fs, tmpName, path); cerr != nil {
			return fmt.Errorf("publish %s: %w", path, err)
		}
		return nil
	}
	promoted = true
	return nil
}

// Backup copies path to path+".bak", preserving the current contents
// before a commit replaces them.
func Backup(fs afero.Fs, path string) error {
	return copyFile(fs, path, path+".bak")
}

func copyFile(fs afero.Fs, src, dst string) error {
	in, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := fs.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}
