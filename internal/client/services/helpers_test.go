package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"paneldesk/internal/client/api"
	"paneldesk/internal/client/models"
)

// fakeClient implements the ResourceClient surface the controllers touch.
// Hooks make call timing controllable so response ordering can be forced.
type fakeClient struct {
	api.ResourceClient

	mu          sync.Mutex
	listCalls   []models.ListQuery
	listFn      func(q models.ListQuery) (models.ListResult, error)
	uploadCalls []string
	uploadFn    func(name string) (models.FileRef, error)
	deleted     []string
	deleteErr   error
}

func (f *fakeClient) List(ctx context.Context, resource models.Resource, q models.ListQuery) (models.ListResult, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, q)
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return models.ListResult{Page: q.Page, PageSize: q.PageSize}, nil
	}
	return fn(q)
}

func (f *fakeClient) UploadFile(ctx context.Context, kind models.FileKind, name string, r io.Reader) (models.FileRef, error) {
	f.mu.Lock()
	f.uploadCalls = append(f.uploadCalls, name)
	fn := f.uploadFn
	f.mu.Unlock()
	if fn == nil {
		return models.FileRef{ID: "srv-" + name, URL: "/media/" + name, Size: 1, MimeType: "image/png"}, nil
	}
	return fn(name)
}

func (f *fakeClient) DeleteFile(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeClient) listCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func (f *fakeClient) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deleted))
	copy(out, f.deleted)
	return out
}

// writeTempFile drops a small file with the given name into a temp dir and
// returns its path.
func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// pngBytes is a minimal payload; mime detection goes by extension.
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

func newTestManager(t *testing.T, client *fakeClient, opts ...AttachmentManagerOption) (*AttachmentManager, *PreviewStore) {
	t.Helper()
	previews, err := NewPreviewStore(t.TempDir())
	require.NoError(t, err)
	uploader := NewUploader(client, nil, 0)
	return NewAttachmentManager(uploader, client, previews, opts...), previews
}

// snapshotRecorder collects every published snapshot.
type snapshotRecorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *snapshotRecorder) record(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *snapshotRecorder) last() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return Snapshot{}, false
	}
	return r.snaps[len(r.snaps)-1], true
}
