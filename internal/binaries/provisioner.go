package binaries

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// IAL identifies one packaged model executable set.
type IAL struct {
	// Hash identifies the build in the artifact store and in archive names.
	Hash string

	// BinDir is the working binary directory the archive unpacks into.
	BinDir string

	// BuildTarPath is the local directory archives are staged under.
	BuildTarPath string
}

// Provisioner ensures a binary archive is staged and extracted.
type Provisioner struct {
	IAL IAL

	// Store fetches absent archives. Nil means no remote source: a missing
	// archive is then an ArtifactUnavailableError.
	Store ArtifactStore

	// DryRun verifies and logs intent without downloading or extracting.
	DryRun bool
}

// Ensure makes the binary directory exist and be populated from the
// archive matching the ial hash.
//
// An archive found under BuildTarPath counts as already staged. In dry-run
// mode presence is only verified and logged. In live mode an absent
// archive is fetched from the artifact store first, then extracted.
func (p *Provisioner) Ensure(ctx context.Context) error {
	archive, found := p.findArchive()

	if p.DryRun {
		if found {
			slog.Info("binary archive already staged", "hash", p.IAL.Hash, "archive", archive)
		} else {
			slog.Info("would download and extract binary archive", "hash", p.IAL.Hash, "bindir", p.IAL.BinDir)
		}
		return nil
	}

	if !found {
		if p.Store == nil {
			return &ArtifactUnavailableError{Hash: p.IAL.Hash, Dir: p.IAL.BuildTarPath}
		}
		archive = filepath.Join(p.IAL.BuildTarPath, p.IAL.Hash+".tar.gz")
		if err := os.MkdirAll(p.IAL.BuildTarPath, 0o755); err != nil {
			return fmt.Errorf("stage binaries: %w", err)
		}
		slog.Info("downloading binary archive", "hash", p.IAL.Hash, "dest", archive)
		if err := p.Store.Fetch(ctx, p.IAL.Hash, archive); err != nil {
			return fmt.Errorf("fetch archive for hash %s: %w", p.IAL.Hash, err)
		}
	}

	if err := os.MkdirAll(p.IAL.BinDir, 0o755); err != nil {
		return fmt.Errorf("create bindir: %w", err)
	}
	slog.Info("extracting binary archive", "archive", archive, "bindir", p.IAL.BinDir)
	if err := extractArchive(archive, p.IAL.BinDir); err != nil {
		return fmt.Errorf("extract %s: %w", archive, err)
	}
	return nil
}

// findArchive looks for a staged archive whose name carries the ial hash.
func (p *Provisioner) findArchive() (string, bool) {
	for _, pattern := range []string{
		"*" + p.IAL.Hash + "*.tar.gz",
		"*" + p.IAL.Hash + "*.tgz",
		"*" + p.IAL.Hash + "*.tar",
	} {
		matches, err := filepath.Glob(filepath.Join(p.IAL.BuildTarPath, pattern))
		if err == nil && len(matches) > 0 {
			return matches[0], true
		}
	}
	return "", false
}
