package suite

import (
	"errors"
	"fmt"
)

// CaseNotFoundError indicates the selection references a case identifier
// that does not exist in the registry. This is a structural failure and
// propagates to the caller; it is never silently skipped.
type CaseNotFoundError struct {
	CaseID string
}

// Error implements the error interface.
func (e *CaseNotFoundError) Error() string {
	return fmt.Sprintf("the case %q is not registered", e.CaseID)
}

// NewCaseNotFoundError creates a CaseNotFoundError for the given case ID.
func NewCaseNotFoundError(caseID string) *CaseNotFoundError {
	return &CaseNotFoundError{CaseID: caseID}
}

// IsCaseNotFound returns true if err is a CaseNotFoundError.
// Uses errors.As to handle wrapped errors.
func IsCaseNotFound(err error) bool {
	var ce *CaseNotFoundError
	return errors.As(err, &ce)
}

// MissingHostError indicates a case names a host key with no entry in the
// host metadata table. Unlike CaseNotFoundError this degrades to exclusion:
// the case is dropped from the runnable set with a warning, the run
// continues. A case with no host at all is not an error either way; it is
// simply omitted from the runnable-hosts list.
type MissingHostError struct {
	CaseID string
	Host   string
}

// Error implements the error interface.
func (e *MissingHostError) Error() string {
	return fmt.Sprintf("case %q references unknown host %q", e.CaseID, e.Host)
}

// NewMissingHostError creates a MissingHostError.
func NewMissingHostError(caseID, host string) *MissingHostError {
	return &MissingHostError{CaseID: caseID, Host: host}
}

// IsMissingHost returns true if err is a MissingHostError.
func IsMissingHost(err error) bool {
	var me *MissingHostError
	return errors.As(err, &me)
}
