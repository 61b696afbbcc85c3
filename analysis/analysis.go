// Package analysis defines how kibitz obtains the per-move analysis of a game.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"kibitz/types"
)

// Analyzer turns a game transcript into an analysis.
type Analyzer interface {
	// Analyze submits transcript (PGN movetext, optionally with headers) and
	// returns the decoded result. Errors are *InputError, *TransportError or
	// *ApplicationError.
	Analyze(ctx context.Context, transcript string) (*Result, error)
}

// Result is a decoded, successful analysis.
type Result struct {
	Records    types.AnalysisSet `json:"analysis"`
	Summary    types.Summary     `json:"summary"`
	Opening    types.OpeningName `json:"opening_name"`
	Transcript string            `json:"transcript,omitempty"`
}

// InputError means there was nothing to analyze.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return e.Reason
}

// TransportError covers everything between the client and a usable response:
// network failures, timeouts, unexpected HTTP statuses and undecodable bodies.
type TransportError struct {
	Status int // 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("analysis backend returned HTTP %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("analysis backend unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApplicationError is a failure reported by the backend itself, e.g. an
// unparseable transcript. Message is the backend's text, unescaped.
type ApplicationError struct {
	Message string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// ValidateTranscript rejects empty input before any request is made.
func ValidateTranscript(transcript string) error {
	if strings.TrimSpace(transcript) == "" {
		return &InputError{Reason: "No game transcript provided"}
	}
	return nil
}

const statusSuccess = "success"

type envelope struct {
	Status     string             `json:"status"`
	Error      string             `json:"error"`
	Analysis   types.AnalysisSet  `json:"analysis"`
	Summary    types.Summary      `json:"summary"`
	Opening    *types.OpeningName `json:"opening_name"`
	OpeningAlt *types.OpeningName `json:"openingName"`
}

// DecodeResponse decodes a backend body. A non-success status yields an
// *ApplicationError; malformed JSON yields a plain error for the caller to
// classify.
func DecodeResponse(body []byte) (*Result, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Status != statusSuccess {
		msg := strings.TrimSpace(env.Error)
		if msg == "" {
			msg = fmt.Sprintf("analysis failed (status %q)", env.Status)
		}
		return nil, &ApplicationError{Message: msg}
	}
	if err := types.ValidateRecords(env.Analysis); err != nil {
		return nil, &ApplicationError{Message: fmt.Sprintf("malformed analysis: %v", err)}
	}

	res := &Result{Records: env.Analysis, Summary: env.Summary}
	switch {
	case env.Opening != nil:
		res.Opening = *env.Opening
	case env.OpeningAlt != nil:
		res.Opening = *env.OpeningAlt
	}
	return res, nil
}

// ErrorBody extracts the "error" string of a failure body, if any.
func ErrorBody(body []byte) (string, bool) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", false
	}
	msg := strings.TrimSpace(env.Error)
	return msg, msg != ""
}
