// Package scheduler is the boundary to the external workflow scheduler.
// The orchestrator only ever asks it to remove suites; suite and task
// semantics live entirely on the scheduler side.
package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/meteoci/regress/internal/config"
)

// Server removes suites from the external workflow scheduler.
type Server interface {
	// RemoveSuites removes the named suites. With checkIfComplete the
	// scheduler only removes suites whose tasks have finished.
	RemoveSuites(ctx context.Context, suites []string, checkIfComplete bool) error
}

// UnavailableError indicates the scheduler backend is absent or no
// configuration is bound. Suite removal is best-effort: callers convert
// this to a logged warning, never a propagated failure.
type UnavailableError struct {
	Reason string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("scheduler unavailable: %s", e.Reason)
}

// IsUnavailable returns true if err is an UnavailableError.
// Uses errors.As to handle wrapped errors.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// NewFromConfig binds a scheduler server from the scheduler.url key of a
// configuration document. A document without that key yields an
// UnavailableError; a nil document means no configuration was ever bound.
func NewFromConfig(doc *config.Document) (Server, error) {
	if doc == nil {
		return nil, &UnavailableError{Reason: "no configuration bound"}
	}
	u := doc.GetString("scheduler.url")
	if u == "" {
		return nil, &UnavailableError{Reason: "scheduler.url not configured"}
	}
	return &HTTPServer{
		BaseURL: u,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// HTTPServer talks to the scheduler's HTTP API.
type HTTPServer struct {
	BaseURL string
	Client  *http.Client
}

type removeSuitesRequest struct {
	Suites          []string `json:"suites"`
	CheckIfComplete bool     `json:"check_if_complete"`
}

// RemoveSuites implements Server.
func (s *HTTPServer) RemoveSuites(ctx context.Context, suites []string, checkIfComplete bool) error {
	body, err := json.Marshal(removeSuitesRequest{Suites: suites, CheckIfComplete: checkIfComplete})
	if err != nil {
		return fmt.Errorf("remove suites: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/suites/remove", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("remove suites: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return &UnavailableError{Reason: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("remove suites: unexpected status %s", resp.Status)
	}
	return nil
}
