package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"paneldesk/internal/client/api"
	"paneldesk/internal/client/models"
	"paneldesk/internal/filex"
	"paneldesk/internal/logging"
)

// Uploader turns a selected file into a server-assigned id plus display URL.
// It preflights size and mime type locally so obviously-invalid files never
// hit the wire, and classifies every failure as a typed UploadError. It is
// stateless and safe to invoke concurrently for independent attachments.
type Uploader struct {
	client  api.ResourceClient
	log     logging.Logger
	maxSize int64
}

func NewUploader(client api.ResourceClient, log logging.Logger, maxSize int64) *Uploader {
	if log == nil {
		log = logging.Nop()
	}
	return &Uploader{client: client, log: log, maxSize: maxSize}
}

func kindForRole(role models.AttachmentRole) models.FileKind {
	if role == models.RoleDocument {
		return models.FileKindDocument
	}
	return models.FileKindImage
}

func mimeAllowed(role models.AttachmentRole, mime string) bool {
	if role == models.RoleDocument {
		return mime == "application/pdf"
	}
	return strings.HasPrefix(mime, "image/")
}

// Upload sends the file at path to the backend under the endpoint matching
// the attachment role.
func (u *Uploader) Upload(ctx context.Context, role models.AttachmentRole, path string) (models.FileRef, error) {
	size, err := filex.FileSize(path)
	if err != nil {
		return models.FileRef{}, &models.UploadError{Reason: models.UploadReasonRejected, Err: err}
	}
	if u.maxSize > 0 && size > u.maxSize {
		return models.FileRef{}, &models.UploadError{
			Reason: models.UploadReasonTooLarge,
			Err:    fmt.Errorf("%d bytes exceeds limit of %d", size, u.maxSize),
		}
	}

	mime, err := filex.DetectMime(path)
	if err != nil {
		return models.FileRef{}, &models.UploadError{Reason: models.UploadReasonRejected, Err: err}
	}
	if !mimeAllowed(role, mime) {
		return models.FileRef{}, &models.UploadError{
			Reason: models.UploadReasonRejected,
			Err:    fmt.Errorf("mime type %s not allowed for role %s", mime, role),
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return models.FileRef{}, &models.UploadError{Reason: models.UploadReasonRejected, Err: err}
	}
	defer f.Close()

	ref, err := u.client.UploadFile(ctx, kindForRole(role), filepath.Base(path), f)
	if err != nil {
		u.log.Warn(ctx, "upload failed", "path", path, "role", role, "err", err)
		return models.FileRef{}, err
	}

	u.log.Debug(ctx, "upload complete", "path", path, "id", ref.ID, "size", ref.Size)
	return ref, nil
}

// UploadOutcome is one file's result of a multi-file upload.
type UploadOutcome struct {
	Path string
	Ref  models.FileRef
	Err  error
}

// UploadMany uploads the files concurrently as independent uploads, not a
// transaction: partial success is possible and surfaced per file. Outcomes
// keep the input order.
func (u *Uploader) UploadMany(ctx context.Context, role models.AttachmentRole, paths []string) []UploadOutcome {
	outcomes := make([]UploadOutcome, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			ref, err := u.Upload(ctx, role, path)
			outcomes[i] = UploadOutcome{Path: path, Ref: ref, Err: err}
		}(i, path)
	}
	wg.Wait()

	return outcomes
}
