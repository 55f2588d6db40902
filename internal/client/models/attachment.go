package models

// AttachmentRole names the slot an attachment occupies on a form.
type AttachmentRole string

const (
	RoleCover    AttachmentRole = "cover"
	RoleGallery  AttachmentRole = "gallery"
	RoleDocument AttachmentRole = "document"
)

// AttachmentStatus is the upload state machine. Illegal combinations
// ("uploaded but no server id") are detectable via Valid and never produced
// by the lifecycle manager.
type AttachmentStatus string

const (
	StatusIdle      AttachmentStatus = "idle"
	StatusUploading AttachmentStatus = "uploading"
	StatusUploaded  AttachmentStatus = "uploaded"
	StatusFailed    AttachmentStatus = "failed"
)

// Attachment is one slot's file: a local preview until the eager upload
// succeeds, then a server-assigned id plus display URL.
type Attachment struct {
	ID    string
	Role  AttachmentRole
	Title string

	// LocalPreviewURL is a non-durable handle to the raw bytes, present only
	// between selection and successful upload (or while a failed upload waits
	// for a retry).
	LocalPreviewURL string

	// ServerID is set iff the bytes have been durably stored by the backend.
	ServerID string

	// DisplayURL is what the screen renders: the local preview while
	// ServerID is empty, the backend-served URL afterwards.
	DisplayURL string

	Status AttachmentStatus
}

// Uploaded reports whether the attachment's bytes are durably stored.
func (a Attachment) Uploaded() bool { return a.Status == StatusUploaded }

// Valid checks the core state-machine invariant:
// status == uploaded ⇔ ServerID != "".
func (a Attachment) Valid() bool {
	if a.Status == StatusUploaded {
		return a.ServerID != ""
	}
	return a.ServerID == ""
}

// AttachmentRef is what a parent form's save payload carries: the server id
// plus an optional title for gallery items. Raw bytes and preview URLs never
// appear in save payloads.
type AttachmentRef struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}
