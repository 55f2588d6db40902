package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"paneldesk/internal/client/api"
	"paneldesk/internal/client/models"
	"paneldesk/internal/logging"
)

// ErrSlotNotFound is returned when an operation targets a slot that does not
// exist or was already removed.
var ErrSlotNotFound = errors.New("attachment slot not found")

// AttachmentEvent is published whenever a slot's attachment changes state or
// is removed.
type AttachmentEvent struct {
	Attachment models.Attachment
	Removed    bool
}

// slot holds one attachment. opMu serializes select/remove/replace on the
// same slot: a remove that starts while an upload is in flight blocks until
// the upload resolves, so a delete can never target a not-yet-assigned server
// id. The attachment data itself is guarded by the manager's lock so
// snapshots never block behind a slow upload.
type slot struct {
	opMu sync.Mutex

	att        models.Attachment
	uploadPath string
	removed    bool
}

// AttachmentManager tracks the attachments of one form session (cover image,
// gallery slots, documents). Files upload eagerly on selection — before the
// parent record is saved — so every orphaned server-side file left behind by
// removal, replacement or cancel must eventually be paired with a delete
// call. That cleanup is best-effort by design: failures are logged and
// swallowed, never retried, never allowed to block the primary action.
//
// Operations on different slots run fully concurrently; operations on the
// same slot are serialized.
type AttachmentManager struct {
	uploader *Uploader
	client   api.ResourceClient
	previews *PreviewStore
	log      logging.Logger
	listener func(AttachmentEvent)

	mu    sync.Mutex
	slots map[string]*slot
	order []string
	saved bool
}

type AttachmentManagerOption func(*AttachmentManager)

// WithAttachmentListener registers the callback receiving slot change events.
func WithAttachmentListener(fn func(AttachmentEvent)) AttachmentManagerOption {
	return func(m *AttachmentManager) { m.listener = fn }
}

// WithAttachmentLogger sets the manager's logger.
func WithAttachmentLogger(log logging.Logger) AttachmentManagerOption {
	return func(m *AttachmentManager) { m.log = log }
}

func NewAttachmentManager(uploader *Uploader, client api.ResourceClient, previews *PreviewStore, opts ...AttachmentManagerOption) *AttachmentManager {
	m := &AttachmentManager{
		uploader: uploader,
		client:   client,
		previews: previews,
		log:      logging.Nop(),
		slots:    make(map[string]*slot),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Select creates a slot for the file: a local preview shows immediately, the
// upload runs in the background. The returned id addresses the slot in
// Remove/Replace/SetTitle. Upload failures leave the slot in the failed
// state with the preview still visible; Replace with the same path retries.
func (m *AttachmentManager) Select(ctx context.Context, role models.AttachmentRole, path string) (string, error) {
	previewURL, err := m.previews.Create(path)
	if err != nil {
		return "", err
	}

	s := &slot{
		att: models.Attachment{
			ID:              uuid.NewString(),
			Role:            role,
			LocalPreviewURL: previewURL,
			DisplayURL:      previewURL,
			Status:          models.StatusUploading,
		},
		uploadPath: path,
	}

	m.mu.Lock()
	m.slots[s.att.ID] = s
	m.order = append(m.order, s.att.ID)
	att := s.att
	m.mu.Unlock()

	// The op lock is taken before the upload goroutine exists so a Remove
	// issued right after Select blocks until the upload resolves.
	s.opMu.Lock()
	go m.runUpload(ctx, s)

	m.publish(att, false)
	return att.ID, nil
}

func (m *AttachmentManager) runUpload(ctx context.Context, s *slot) {
	defer s.opMu.Unlock()

	ref, err := m.uploader.Upload(ctx, s.att.Role, s.uploadPath)

	m.mu.Lock()
	if err != nil {
		s.att.Status = models.StatusFailed
		att := s.att
		m.mu.Unlock()
		m.publish(att, false)
		return
	}

	s.att.ServerID = ref.ID
	s.att.DisplayURL = ref.URL
	s.att.Status = models.StatusUploaded
	preview := s.att.LocalPreviewURL
	s.att.LocalPreviewURL = ""
	att := s.att
	m.mu.Unlock()

	m.previews.Release(preview)
	m.publish(att, false)
}

// Remove frees the slot. If the attachment already has a server id, the
// delete call is awaited before the slot is considered free, so a second
// rapid removal cannot race a half-finished delete. A missing or already
// removed slot is a no-op.
func (m *AttachmentManager) Remove(ctx context.Context, id string) error {
	s := m.slot(id)
	if s == nil {
		return nil
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	m.mu.Lock()
	if s.removed {
		m.mu.Unlock()
		return nil
	}
	s.removed = true
	att := s.att
	preview := s.att.LocalPreviewURL
	s.att.LocalPreviewURL = ""
	delete(m.slots, id)
	m.dropFromOrder(id)
	m.mu.Unlock()

	if att.ServerID != "" {
		m.deleteOrphan(ctx, att.ServerID)
	}
	m.previews.Release(preview)
	m.publish(att, true)
	return nil
}

// Replace swaps the slot's file for a new one without a visible gap: the old
// preview (or server URL) stays displayed until the new upload is ready, and
// only then is the superseded server file cleaned up. If the new upload
// fails the old attachment stays untouched and the error is returned.
func (m *AttachmentManager) Replace(ctx context.Context, id string, newPath string) error {
	s := m.slot(id)
	if s == nil {
		return ErrSlotNotFound
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	m.mu.Lock()
	if s.removed {
		m.mu.Unlock()
		return ErrSlotNotFound
	}
	old := s.att
	s.att.Status = models.StatusUploading
	att := s.att
	m.mu.Unlock()
	m.publish(att, false)

	ref, err := m.uploader.Upload(ctx, old.Role, newPath)
	if err != nil {
		m.mu.Lock()
		// no gap: the previous state stays on screen
		s.att = old
		att := s.att
		m.mu.Unlock()
		m.publish(att, false)
		return err
	}

	m.mu.Lock()
	s.att.ServerID = ref.ID
	s.att.DisplayURL = ref.URL
	s.att.Status = models.StatusUploaded
	s.att.LocalPreviewURL = ""
	s.uploadPath = newPath
	att = s.att
	m.mu.Unlock()

	if old.ServerID != "" && old.ServerID != ref.ID {
		m.deleteOrphan(ctx, old.ServerID)
	}
	m.previews.Release(old.LocalPreviewURL)
	m.publish(att, false)
	return nil
}

// SetTitle sets the optional title carried in the save payload (gallery
// captions).
func (m *AttachmentManager) SetTitle(id, title string) {
	m.mu.Lock()
	s, ok := m.slots[id]
	if !ok {
		m.mu.Unlock()
		return
	}
	s.att.Title = title
	att := s.att
	m.mu.Unlock()
	m.publish(att, false)
}

// Reset discards the form session. Every attachment uploaded during the
// session that was never attached to a saved parent record gets a
// best-effort cleanup delete; local previews are released. Used on cancel.
func (m *AttachmentManager) Reset(ctx context.Context) {
	m.mu.Lock()
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	saved := m.saved
	m.mu.Unlock()

	for _, id := range ids {
		s := m.slot(id)
		if s == nil {
			continue
		}

		s.opMu.Lock()
		m.mu.Lock()
		if s.removed {
			m.mu.Unlock()
			s.opMu.Unlock()
			continue
		}
		s.removed = true
		att := s.att
		preview := s.att.LocalPreviewURL
		s.att.LocalPreviewURL = ""
		delete(m.slots, id)
		m.dropFromOrder(id)
		m.mu.Unlock()

		if !saved && att.ServerID != "" {
			m.deleteOrphan(ctx, att.ServerID)
		}
		m.previews.Release(preview)
		s.opMu.Unlock()
		m.publish(att, true)
	}
}

// MarkSaved records that the parent record was saved: ownership of the
// uploaded files transferred to the backend record, so Reset will not delete
// them.
func (m *AttachmentManager) MarkSaved() {
	m.mu.Lock()
	m.saved = true
	m.mu.Unlock()
}

// Refs returns the save-payload references for every uploaded attachment, in
// selection order. Raw bytes and preview URLs never appear here.
func (m *AttachmentManager) Refs() []models.AttachmentRef {
	m.mu.Lock()
	defer m.mu.Unlock()

	refs := make([]models.AttachmentRef, 0, len(m.order))
	for _, id := range m.order {
		s, ok := m.slots[id]
		if !ok || !s.att.Uploaded() {
			continue
		}
		refs = append(refs, models.AttachmentRef{ID: s.att.ServerID, Title: s.att.Title})
	}
	return refs
}

// Attachments returns the current slots in selection order.
func (m *AttachmentManager) Attachments() []models.Attachment {
	m.mu.Lock()
	defer m.mu.Unlock()

	atts := make([]models.Attachment, 0, len(m.order))
	for _, id := range m.order {
		if s, ok := m.slots[id]; ok {
			atts = append(atts, s.att)
		}
	}
	return atts
}

// Attachment returns the slot's current attachment.
func (m *AttachmentManager) Attachment(id string) (models.Attachment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return models.Attachment{}, false
	}
	return s.att, true
}

func (m *AttachmentManager) slot(id string) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots[id]
}

func (m *AttachmentManager) dropFromOrder(id string) {
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// deleteOrphan issues the cleanup delete for a superseded upload. Failures
// are logged and swallowed: cleanup is advisory, and a retry loop here would
// block the user's primary workflow for no benefit.
func (m *AttachmentManager) deleteOrphan(ctx context.Context, serverID string) {
	if err := m.client.DeleteFile(ctx, serverID); err != nil {
		m.log.Warn(ctx, "orphan cleanup failed", "server_id", serverID, "err", err)
	}
}

func (m *AttachmentManager) publish(att models.Attachment, removed bool) {
	if m.listener != nil {
		m.listener(AttachmentEvent{Attachment: att, Removed: removed})
	}
}
