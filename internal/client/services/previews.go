package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"paneldesk/internal/filex"
)

// PreviewStore materializes local previews for selected files: a copy of the
// bytes in the cache dir, addressed by its path. It stands in for browser
// object URLs — non-durable handles that must be released exactly once when
// the preview stops being displayed.
type PreviewStore struct {
	dir string

	mu       sync.Mutex
	active   map[string]struct{}
	releases map[string]int
}

func NewPreviewStore(cacheDir string) (*PreviewStore, error) {
	dir, err := filex.EnsureSubDir(cacheDir, "previews")
	if err != nil {
		return nil, err
	}
	return &PreviewStore{
		dir:      dir,
		active:   make(map[string]struct{}),
		releases: make(map[string]int),
	}, nil
}

// Create copies the file into the cache dir under a fresh name and returns
// the preview URL (its path).
func (p *PreviewStore) Create(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer src.Close()

	dest := filepath.Join(p.dir, uuid.NewString()+filepath.Ext(path))
	dst, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("creating preview: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dest)
		return "", fmt.Errorf("writing preview: %w", err)
	}

	p.mu.Lock()
	p.active[dest] = struct{}{}
	p.mu.Unlock()
	return dest, nil
}

// Release frees the preview. Releasing an unknown or already-released URL is
// a no-op, but the count is recorded so tests can assert exactly-once
// behavior.
func (p *PreviewStore) Release(url string) {
	if url == "" {
		return
	}

	p.mu.Lock()
	p.releases[url]++
	_, live := p.active[url]
	delete(p.active, url)
	p.mu.Unlock()

	if live {
		_ = os.Remove(url)
	}
}

// ActiveCount reports how many previews are currently live.
func (p *PreviewStore) ActiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.active)
}

func (p *PreviewStore) releaseCount(url string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.releases[url]
}
