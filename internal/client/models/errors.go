package models

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries the backend's structured field-level messages so
// the form can render them next to the corresponding inputs. Unmapped
// messages end up in Message and fall back to a generic banner.
type ValidationError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("validation failed (%s)", strings.Join(parts, "; "))
}

// UploadReason classifies upload failures.
type UploadReason string

const (
	UploadReasonNetwork  UploadReason = "network"
	UploadReasonRejected UploadReason = "rejected"
	UploadReasonTooLarge UploadReason = "too_large"
)

// UploadError wraps a failed upload with its classification. The underlying
// transport or backend error is available via Unwrap.
type UploadError struct {
	Reason UploadReason
	Err    error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("upload failed: %s", e.Reason)
	}
	return fmt.Sprintf("upload failed (%s): %v", e.Reason, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
