// Package common defines shared constants and sentinel errors used across
// paneldesk components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable = errors.New("server unavailable")

	// Resource-level errors.
	ErrNotFound = errors.New("not found")

	// Auth errors.
	ErrUnauthorized        = errors.New("unauthorized")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Attachment errors. Orphan cleanup is advisory: a failed delete of an
	// unreferenced upload is logged, never surfaced to the caller.
	ErrOrphanCleanup = errors.New("orphan cleanup failed")

	// Controller lifecycle.
	ErrClosed = errors.New("closed")
)
