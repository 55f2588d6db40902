package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"paneldesk/internal/client/api"
	"paneldesk/internal/client/models"
	"paneldesk/internal/common"
	"paneldesk/internal/logging"
)

const (
	defaultDebounceWindow = 300 * time.Millisecond
	defaultPageSize       = 20
)

// Snapshot is the published view of a query controller: the state being
// edited, the last applied result page and the loading/error flags. Filters
// are deep-copied so a snapshot never aliases controller internals.
type Snapshot struct {
	Resource models.Resource
	State    models.QueryState

	Items      []json.RawMessage
	Page       int
	PageSize   int
	Total      int
	TotalPages int

	Loading bool
	Err     error
}

// QueryController owns one screen's search text, filter selections and
// pagination, and issues exactly one logical fetch per distinct effective
// query. Responses are applied in fingerprint-freshness order, never
// completion order: a response whose fingerprint no longer matches the
// controller's latest issued fingerprint is dropped unconditionally.
//
// All methods are safe to call from any goroutine; published snapshots reach
// the listener outside the controller's lock.
type QueryController struct {
	client   api.ResourceClient
	resource models.Resource
	log      logging.Logger
	listener func(Snapshot)

	pageSizeAll     int
	debounceWindow  time.Duration
	initialPageSize int
	debounce        *Debouncer[string]
	ctx             context.Context
	cancel          context.CancelFunc

	mu              sync.Mutex
	state           models.QueryState
	lastFingerprint string
	result          models.ListResult
	loading         bool
	err             error
	closed          bool
}

type QueryControllerOption func(*QueryController)

// WithListener registers the callback receiving every published snapshot.
func WithListener(fn func(Snapshot)) QueryControllerOption {
	return func(c *QueryController) { c.listener = fn }
}

// WithLogger sets the controller's logger.
func WithLogger(log logging.Logger) QueryControllerOption {
	return func(c *QueryController) { c.log = log }
}

// WithDebounceWindow overrides the search settle window.
func WithDebounceWindow(d time.Duration) QueryControllerOption {
	return func(c *QueryController) {
		if d > 0 {
			c.debounceWindow = d
		}
	}
}

// WithPageSize sets the initial page size.
func WithPageSize(n int) QueryControllerOption {
	return func(c *QueryController) {
		if n > 0 {
			c.initialPageSize = n
		}
	}
}

// WithPageSizeAll overrides the "show all" sentinel.
func WithPageSizeAll(n int) QueryControllerOption {
	return func(c *QueryController) {
		if n > 0 {
			c.pageSizeAll = n
		}
	}
}

// NewQueryController builds a controller for one screen. ctx bounds the
// screen's lifetime; Close (or cancelling ctx) stops all pending work. No
// request is issued until the first mutation or Refresh call.
func NewQueryController(ctx context.Context, client api.ResourceClient, resource models.Resource, opts ...QueryControllerOption) *QueryController {
	c := &QueryController{
		client:          client,
		resource:        resource,
		log:             logging.Nop(),
		pageSizeAll:     common.PageSizeAll,
		debounceWindow:  defaultDebounceWindow,
		initialPageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.ctx, c.cancel = context.WithCancel(ctx)
	c.state = models.NewQueryState(c.initialPageSize)
	c.debounce = NewDebouncer(c.debounceWindow, c.commitSearch)
	return c
}

// SetSearchText echoes text into the raw search field immediately and feeds
// the debouncer; the committed value (and any fetch) follows once the input
// settles.
func (c *QueryController) SetSearchText(text string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state.RawSearchText = text
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
	c.debounce.Observe(text)
}

func (c *QueryController) commitSearch(text string) {
	c.mutate(func() { c.state.CommittedSearchText = text })
}

// ToggleFilter flips membership of the (key, value) pair. The reserved "all"
// value clears the key's whole selection.
func (c *QueryController) ToggleFilter(key, value string) {
	c.mutate(func() { c.state.Filters.Toggle(key, value) })
}

// SetFilter replaces the key's selection with the single value.
func (c *QueryController) SetFilter(key, value string) {
	c.mutate(func() { c.state.Filters.Set(key, value) })
}

// ClearFilters drops every filter selection.
func (c *QueryController) ClearFilters() {
	c.mutate(func() { c.state.Filters = make(models.Filters) })
}

// GoToPage moves to page n (clamped to 1).
func (c *QueryController) GoToPage(n int) {
	if n < 1 {
		n = 1
	}
	c.mutate(func() { c.state.Page = n })
}

// SetPageSize changes the page size and resets the position to page 1:
// changing the shape of the result set invalidates it.
func (c *QueryController) SetPageSize(n int) {
	if n < 1 {
		return
	}
	c.mutate(func() {
		c.state.PageSize = n
		c.state.Page = 1
	})
}

// ShowAll switches to the reserved "return everything" page size.
func (c *QueryController) ShowAll() {
	c.SetPageSize(c.pageSizeAll)
}

// Refresh re-issues the current effective query even if its fingerprint is
// unchanged. This is the only retry mechanism: failures are never retried
// automatically.
func (c *QueryController) Refresh() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	snap := c.fetchLocked(true)
	c.mu.Unlock()
	c.notify(snap)
}

// Snapshot returns the current published view.
func (c *QueryController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close tears the controller down: the debouncer stops emitting, pending
// responses are dropped and no further snapshots are published.
func (c *QueryController) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.debounce.Close()
	c.cancel()
}

// mutate applies fn under the lock and issues a fetch iff the effective
// fingerprint changed. Mutations that leave the fingerprint untouched (e.g.
// re-committing an unchanged search) publish nothing and hit the network
// never.
func (c *QueryController) mutate(fn func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	fn()
	snap := c.fetchLocked(false)
	c.mu.Unlock()
	c.notify(snap)
}

// fetchLocked computes the fingerprint and, when it differs from the last
// issued one (or force is set), records it and spawns the fetch tagged with
// it. Returns the snapshot to publish; callers publish after unlocking.
func (c *QueryController) fetchLocked(force bool) Snapshot {
	fp := Fingerprint(c.state)
	if !force && fp == c.lastFingerprint {
		return c.snapshotLocked()
	}

	c.lastFingerprint = fp
	c.loading = true
	c.err = nil

	q := c.state.ListQuery(c.pageSizeAll)
	go c.fetch(fp, q)

	return c.snapshotLocked()
}

func (c *QueryController) fetch(fp string, q models.ListQuery) {
	res, err := c.client.List(c.ctx, c.resource, q)

	c.mu.Lock()
	if c.closed || fp != c.lastFingerprint {
		c.mu.Unlock()
		c.log.Debug(c.ctx, "dropping superseded list response",
			"resource", c.resource, "fingerprint", fp)
		return
	}

	c.loading = false
	if err != nil {
		c.err = err
		c.log.Error(c.ctx, "list request failed", "resource", c.resource, "err", err)
	} else {
		c.err = nil
		c.result = res
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.notify(snap)
}

func (c *QueryController) snapshotLocked() Snapshot {
	state := c.state
	state.Filters = c.state.Filters.Clone()

	snap := Snapshot{
		Resource:   c.resource,
		State:      state,
		Items:      c.result.Items,
		Page:       c.result.Page,
		PageSize:   c.result.PageSize,
		Total:      c.result.Total,
		TotalPages: c.result.TotalPages,
		Loading:    c.loading,
		Err:        c.err,
	}
	if c.state.PageSize == c.pageSizeAll {
		// "show all" displays as a single page regardless of backend metadata
		snap.Page = 1
		snap.TotalPages = 1
	}
	return snap
}

func (c *QueryController) notify(snap Snapshot) {
	if c.listener != nil {
		c.listener(snap)
	}
}
