package binaries

import (
	"errors"
	"fmt"
)

// ArtifactUnavailableError indicates the binary archive is absent locally
// and no artifact store is configured to fetch it from. Fatal for the
// binary-dependent cases only; the caller keeps running the rest.
type ArtifactUnavailableError struct {
	Hash string
	Dir  string
}

// Error implements the error interface.
func (e *ArtifactUnavailableError) Error() string {
	return fmt.Sprintf("no archive for hash %q under %s and no artifact store configured", e.Hash, e.Dir)
}

// IsArtifactUnavailable returns true if err is an ArtifactUnavailableError.
// Uses errors.As to handle wrapped errors.
func IsArtifactUnavailable(err error) bool {
	var ae *ArtifactUnavailableError
	return errors.As(err, &ae)
}
