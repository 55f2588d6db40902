package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"paneldesk/internal/client/models"
	"paneldesk/internal/common"
	"paneldesk/internal/logging"
)

// RESTClient implements ResourceClient over plain HTTP/JSON. One instance is
// shared by every screen; it holds the session tokens and refreshes them
// transparently (see ensureFreshToken and the retry in do).
type RESTClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewRESTClient(baseURL string, timeout time.Duration, log logging.Logger) *RESTClient {
	if log == nil {
		log = logging.Nop()
	}
	return &RESTClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (c *RESTClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (c *RESTClient) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return err
	}

	var tokens tokenPair
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, "application/json", body, &tokens); err != nil {
		return err
	}

	c.mu.Lock()
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	c.mu.Unlock()
	return nil
}

func (c *RESTClient) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, "application/json", nil, nil)

	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.mu.Unlock()
	return err
}

func (c *RESTClient) Ping(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, "", nil, &status); err != nil {
		return err
	}
	if status.Status != "OK" {
		return common.ErrUnavailable
	}
	return nil
}

func (c *RESTClient) List(ctx context.Context, resource models.Resource, q models.ListQuery) (models.ListResult, error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	for k, joined := range q.Filters {
		query.Set(k, joined)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(q.PageSize))
	}

	var res models.ListResult
	err := c.do(ctx, http.MethodGet, "/api/"+string(resource), query, "", nil, &res)
	if err != nil {
		return models.ListResult{}, err
	}
	return res, nil
}

func (c *RESTClient) Get(ctx context.Context, resource models.Resource, id string) (json.RawMessage, error) {
	var item json.RawMessage
	err := c.do(ctx, http.MethodGet, "/api/"+string(resource)+"/"+url.PathEscape(id), nil, "", nil, &item)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (c *RESTClient) Create(ctx context.Context, resource models.Resource, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var item json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/"+string(resource), nil, "application/json", body, &item); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *RESTClient) Update(ctx context.Context, resource models.Resource, id string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var item json.RawMessage
	if err := c.do(ctx, http.MethodPut, "/api/"+string(resource)+"/"+url.PathEscape(id), nil, "application/json", body, &item); err != nil {
		return nil, err
	}
	return item, nil
}

func (c *RESTClient) Delete(ctx context.Context, resource models.Resource, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/"+string(resource)+"/"+url.PathEscape(id), nil, "", nil, nil)
}

func (c *RESTClient) UploadFile(ctx context.Context, kind models.FileKind, name string, r io.Reader) (models.FileRef, error) {
	refs, err := c.UploadFiles(ctx, kind, []UploadSpec{{Name: name, Reader: r}})
	if err != nil {
		return models.FileRef{}, err
	}
	if len(refs) != 1 {
		return models.FileRef{}, fmt.Errorf("expected one file ref, got %d", len(refs))
	}
	return refs[0], nil
}

func (c *RESTClient) UploadFiles(ctx context.Context, kind models.FileKind, specs []UploadSpec) ([]models.FileRef, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	field := "file"
	if kind == models.FileKindImages {
		field = "files"
	}
	for _, spec := range specs {
		part, err := mw.CreateFormFile(field, spec.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, spec.Reader); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out struct {
		Files []models.FileRef `json:"files"`
	}
	err := c.do(ctx, http.MethodPost, "/api/upload/"+string(kind), nil, mw.FormDataContentType(), buf.Bytes(), &out)
	if err != nil {
		return nil, classifyUploadErr(err)
	}
	if len(out.Files) == 0 {
		return nil, &models.UploadError{Reason: models.UploadReasonRejected, Err: fmt.Errorf("empty upload response")}
	}
	return out.Files, nil
}

func (c *RESTClient) DeleteFile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/files/"+url.PathEscape(id), nil, "", nil, nil)
}

// do issues one request, mapping failures onto the shared error taxonomy.
// Bodies are byte slices so the request can be rebuilt when an expired access
// token forces a refresh-and-retry (same flow as a unary auth interceptor).
func (c *RESTClient) do(ctx context.Context, method, path string, query url.Values, contentType string, body []byte, out any) error {
	c.mu.Lock()
	access, canRefresh := c.accessToken, c.refreshToken != ""
	c.mu.Unlock()
	if canRefresh && tokenExpiringSoon(access, refreshLeeway) {
		// Best effort; a stale token still gets the reactive 401 path below.
		_ = c.refreshTokens(ctx, c.currentRefreshToken())
	}

	err := c.doOnce(ctx, method, path, query, contentType, body, out)
	if err == nil {
		return nil
	}

	c.mu.Lock()
	refresh := c.refreshToken
	c.mu.Unlock()

	if refresh == "" || !isTokenExpired(err) {
		return err
	}
	if rerr := c.refreshTokens(ctx, refresh); rerr != nil {
		return err
	}
	return c.doOnce(ctx, method, path, query, contentType, body, out)
}

func (c *RESTClient) doOnce(ctx context.Context, method, path string, query url.Values, contentType string, body []byte, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.currentAccessToken(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	if resp.StatusCode >= 400 {
		return mapStatusError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *RESTClient) currentAccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *RESTClient) currentRefreshToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshToken
}

func (c *RESTClient) refreshTokens(ctx context.Context, refresh string) error {
	body, err := json.Marshal(map[string]string{"refreshToken": refresh})
	if err != nil {
		return err
	}

	var tokens tokenPair
	if err := c.doOnce(ctx, http.MethodPost, "/api/auth/refresh", nil, "application/json", body, &tokens); err != nil {
		c.log.Warn(ctx, "token refresh failed", "err", err)
		return fmt.Errorf("%w: %v", common.ErrRefreshTokenExpired, err)
	}

	c.mu.Lock()
	c.accessToken = tokens.AccessToken
	c.refreshToken = tokens.RefreshToken
	c.mu.Unlock()

	c.log.Debug(ctx, "access token refreshed")
	return nil
}
