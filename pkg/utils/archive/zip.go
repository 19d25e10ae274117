package archive

import (
	"archive/zip"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ZipDir archives regular files under root into a zip file at dest.
//
// Entry names are relative to root. Symlinks are skipped, so an archive
// never escapes the tree it was made from.
//
// # Args
//
// - ctx: aborting context. When it is canceled mid-walk, the partially
// written dest is removed and ctx.Err() is returned.
//
// - root: directory to be archived.
//
// - dest: path of the zip file to be created. Overwritten if it exists.
func ZipDir(ctx context.Context, root string, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(f)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		relpath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		w, err := zw.Create(filepath.ToSlash(relpath))
		if err != nil {
			return err
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(w, src)
		return err
	})

	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		os.Remove(dest)
		return err
	}
	return nil
}
