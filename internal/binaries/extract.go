package binaries

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// extractArchive unpacks a tar or tar.gz archive into dir.
// Entries escaping dir are rejected.
func extractArchive(archive, dir string) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if isGzip(f) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tar: %w", err)
		}

		target, err := safeJoin(dir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := checkLink(dir, hdr.Name, hdr.Linkname); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil && !os.IsExist(err) {
				return err
			}
		default:
			// Skip device nodes and other special entries.
		}
	}
}

// checkLink rejects symlink entries whose target resolves outside dir.
// Absolute link targets are never allowed; relative ones are resolved
// against the entry's own directory before the containment check.
func checkLink(dir, name, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf("archive symlink %q has absolute target %q", name, linkname)
	}
	resolved := filepath.Join(filepath.Dir(name), linkname)
	if _, err := safeJoin(dir, resolved); err != nil {
		return fmt.Errorf("archive symlink %q escapes extraction directory", name)
	}
	return nil
}

// safeJoin joins name under dir, rejecting path traversal.
func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) && target != filepath.Clean(dir) {
		return "", fmt.Errorf("archive entry %q escapes extraction directory", name)
	}
	return target, nil
}

// isGzip sniffs the gzip magic bytes and rewinds the file.
func isGzip(f *os.File) bool {
	var magic [2]byte
	n, err := f.ReadAt(magic[:], 0)
	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		return false
	}
	return err == nil && n == 2 && magic[0] == 0x1f && magic[1] == 0x8b
}
