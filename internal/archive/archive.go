// Package archive bundles the output directory into a gzip-compressed
// tarball placed next to it.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Create writes a .tar.gz of srcDir to outPath. Entry names inside the
// archive are rooted at the base name of srcDir, so extracting the
// archive reproduces the output directory. The archive file itself must
// not live inside srcDir.
func Create(outPath, srcDir string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return fmt.Errorf("stat source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", srcDir)
	}

	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close() //nolint:errcheck // close error surfaced below on success

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	base := filepath.Base(srcDir)
	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		name := base
		if rel != "." {
			name = base + "/" + filepath.ToSlash(rel)
		}
		return addEntry(tw, path, name, d)
	})
	if walkErr != nil {
		return fmt.Errorf("archive %s: %w", srcDir, walkErr)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalize tar stream: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("finalize gzip stream: %w", err)
	}
	return f.Close()
}

// addEntry writes one file or directory header (and file contents) to
// the tar stream. Symlinks and other irregular files are skipped; the
// output tree contains only directories and regular files.
func addEntry(tw *tar.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	switch {
	case info.IsDir():
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = name + "/"
		return tw.WriteHeader(hdr)

	case info.Mode().IsRegular():
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = name
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close() //nolint:errcheck // read-only file
		_, err = io.Copy(tw, src)
		return err

	default:
		return nil
	}
}

// DefaultName derives the archive filename from the output directory,
// e.g. "docs-output" becomes "docs-output.tar.gz".
func DefaultName(outputDir string) string {
	return strings.TrimSuffix(filepath.Clean(outputDir), string(filepath.Separator)) + ".tar.gz"
}
