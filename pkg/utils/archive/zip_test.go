package archive_test

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/noresmhub/ctsm-api/pkg/utils/archive"
	"github.com/noresmhub/ctsm-api/pkg/utils/cmp"
)

func TestZipDir(t *testing.T) {
	t.Run("it archives regular files with root-relative names", func(t *testing.T) {
		root := t.TempDir()
		if err := os.MkdirAll(filepath.Join(root, "run", "logs"), 0o755); err != nil {
			t.Fatal(err)
		}
		files := map[string]string{
			"README":            "case readme",
			"run/logs/cesm.log": "log body",
		}
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
		}

		dest := filepath.Join(t.TempDir(), "case.zip")
		if err := archive.ZipDir(context.Background(), root, dest); err != nil {
			t.Fatal(err)
		}

		zr, err := zip.OpenReader(dest)
		if err != nil {
			t.Fatal(err)
		}
		defer zr.Close()

		names := []string{}
		for _, f := range zr.File {
			names = append(names, f.Name)
		}
		if !cmp.SliceContentEq(names, []string{"README", "run/logs/cesm.log"}) {
			t.Errorf("unexpected entries: %v", names)
		}
	})

	t.Run("it skips symlinks", func(t *testing.T) {
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, "regular"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Symlink(filepath.Join(root, "regular"), filepath.Join(root, "link")); err != nil {
			t.Skipf("symlink not supported: %s", err)
		}

		dest := filepath.Join(t.TempDir(), "case.zip")
		if err := archive.ZipDir(context.Background(), root, dest); err != nil {
			t.Fatal(err)
		}

		zr, err := zip.OpenReader(dest)
		if err != nil {
			t.Fatal(err)
		}
		defer zr.Close()

		if len(zr.File) != 1 || zr.File[0].Name != "regular" {
			t.Errorf("unexpected entries: %v", zr.File)
		}
	})
}
