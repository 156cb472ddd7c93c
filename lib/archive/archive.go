// Copyright 2026 The Crucible Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/klauspost/compress/zstd"
)

// Pack writes the contents of sourceDir to archivePath as a
// zstd-compressed tar. Entry names are relative to sourceDir; the
// directory node itself is not recorded. Regular files, directories,
// and symlinks are supported — anything else is an error.
func Pack(sourceDir, archivePath string) (err error) {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("creating archive %s: %w", archivePath, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing archive %s: %w", archivePath, closeErr)
		}
	}()

	compressor, err := zstd.NewWriter(out)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	tarWriter := tar.NewWriter(compressor)

	walkErr := filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", path, err)
		}
		relative, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}
		if relative == "." {
			return nil
		}
		return writeEntry(tarWriter, path, filepath.ToSlash(relative), entry)
	})
	if walkErr != nil {
		return walkErr
	}

	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("finalizing tar stream: %w", err)
	}
	if err := compressor.Close(); err != nil {
		return fmt.Errorf("finalizing zstd stream: %w", err)
	}
	return nil
}

// writeEntry writes one filesystem entry to the tar stream.
func writeEntry(tarWriter *tar.Writer, path, name string, entry fs.DirEntry) error {
	info, err := entry.Info()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	var linkTarget string
	if entry.Type()&fs.ModeSymlink != 0 {
		linkTarget, err = os.Readlink(path)
		if err != nil {
			return fmt.Errorf("reading symlink %s: %w", path, err)
		}
	}
	if !entry.IsDir() && linkTarget == "" && !entry.Type().IsRegular() {
		return fmt.Errorf("archive %s: unsupported file type %s", path, entry.Type())
	}

	header, err := tar.FileInfoHeader(info, linkTarget)
	if err != nil {
		return fmt.Errorf("building header for %s: %w", path, err)
	}
	header.Name = name
	if entry.IsDir() {
		header.Name += "/"
	}
	if err := tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("writing header for %s: %w", path, err)
	}

	if !entry.Type().IsRegular() {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()
	if _, err := io.Copy(tarWriter, file); err != nil {
		return fmt.Errorf("archiving %s: %w", path, err)
	}
	return nil
}

// Extract unpacks the zstd-compressed tar at archivePath into
// destinationDir, creating it if needed and merging into its existing
// contents. Entries with absolute names or parent-directory
// components are rejected, and entry paths are resolved inside the
// destination with symlink-safe joining.
func Extract(archivePath, destinationDir string) error {
	if err := os.MkdirAll(destinationDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", destinationDir, err)
	}

	in, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive %s: %w", archivePath, err)
	}
	defer in.Close()

	decompressor, err := zstd.NewReader(in)
	if err != nil {
		return fmt.Errorf("creating zstd reader: %w", err)
	}
	defer decompressor.Close()

	tarReader := tar.NewReader(decompressor)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive %s: %w", archivePath, err)
		}
		if err := extractEntry(tarReader, header, destinationDir); err != nil {
			return fmt.Errorf("archive %s: %w", archivePath, err)
		}
	}
}

// extractEntry writes one archive entry into destinationDir.
func extractEntry(tarReader *tar.Reader, header *tar.Header, destinationDir string) error {
	name := header.Name
	if strings.HasPrefix(name, "/") || hasDotDot(name) {
		return fmt.Errorf("refusing entry with unsafe name %q", name)
	}

	target, err := securejoin.SecureJoin(destinationDir, name)
	if err != nil {
		return fmt.Errorf("resolving entry %q: %w", name, err)
	}

	switch header.Typeflag {
	case tar.TypeDir:
		if err := os.MkdirAll(target, header.FileInfo().Mode().Perm()); err != nil {
			return fmt.Errorf("creating %s: %w", target, err)
		}
		return nil

	case tar.TypeReg:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating parent of %s: %w", target, err)
		}
		out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, header.FileInfo().Mode().Perm())
		if err != nil {
			return fmt.Errorf("creating %s: %w", target, err)
		}
		if _, err := io.Copy(out, tarReader); err != nil {
			out.Close()
			return fmt.Errorf("extracting %s: %w", target, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", target, err)
		}
		return nil

	case tar.TypeSymlink:
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating parent of %s: %w", target, err)
		}
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("replacing %s: %w", target, err)
		}
		if err := os.Symlink(header.Linkname, target); err != nil {
			return fmt.Errorf("creating symlink %s: %w", target, err)
		}
		return nil

	default:
		return fmt.Errorf("refusing entry %q with unsupported type %q", name, header.Typeflag)
	}
}

// hasDotDot reports whether any slash-separated component of name is
// "..".
func hasDotDot(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return true
		}
	}
	return false
}
