// Package api binds the dashboard client to the backend's REST endpoints.
// ResourceClient is the only surface the controllers see; the HTTP
// implementation lives in rest.go.
package api

import (
	"context"
	"encoding/json"
	"io"

	"paneldesk/internal/client/models"
)

// UploadSpec is one file of a multi-file upload.
type UploadSpec struct {
	Name   string
	Reader io.Reader
}

// ResourceClient is the generic binding to the backend consumed by the query
// controller and the attachment manager. Implementations must be safe for
// concurrent use.
type ResourceClient interface {
	Close() error

	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error

	List(ctx context.Context, resource models.Resource, q models.ListQuery) (models.ListResult, error)
	Get(ctx context.Context, resource models.Resource, id string) (json.RawMessage, error)
	Create(ctx context.Context, resource models.Resource, payload any) (json.RawMessage, error)
	Update(ctx context.Context, resource models.Resource, id string, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, resource models.Resource, id string) error

	UploadFile(ctx context.Context, kind models.FileKind, name string, r io.Reader) (models.FileRef, error)
	UploadFiles(ctx context.Context, kind models.FileKind, specs []UploadSpec) ([]models.FileRef, error)
	DeleteFile(ctx context.Context, id string) error
}
