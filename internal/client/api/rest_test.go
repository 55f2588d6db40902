package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paneldesk/internal/client/models"
	"paneldesk/internal/common"
)

func newClient(t *testing.T, h http.HandlerFunc) *RESTClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewRESTClient(srv.URL, 5*time.Second, nil)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRESTClient_List_EncodesFlattenedQuery(t *testing.T) {
	var gotQuery map[string][]string

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/projects", r.URL.Path)
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(models.ListResult{
			Items:      []json.RawMessage{json.RawMessage(`{"id":"p1"}`)},
			Page:       2,
			PageSize:   20,
			Total:      21,
			TotalPages: 2,
		})
	})

	res, err := c.List(context.Background(), models.ResourceProjects, models.ListQuery{
		Search:   "ali",
		Filters:  map[string]string{"type": "events,news"},
		Page:     2,
		PageSize: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ali"}, gotQuery["search"])
	assert.Equal(t, []string{"events,news"}, gotQuery["type"])
	assert.Equal(t, []string{"2"}, gotQuery["page"])
	assert.Equal(t, []string{"20"}, gotQuery["pageSize"])

	assert.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.TotalPages)
}

func TestRESTClient_List_AllModeOmitsPage(t *testing.T) {
	var gotQuery map[string][]string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(models.ListResult{Page: 1, TotalPages: 1})
	})

	state := models.NewQueryState(common.PageSizeAll)
	state.Page = 7 // leftover position must not leak into an "all" request

	_, err := c.List(context.Background(), models.ResourceMedia, state.ListQuery(common.PageSizeAll))
	require.NoError(t, err)

	assert.NotContains(t, gotQuery, "page")
	assert.Equal(t, []string{"1000"}, gotQuery["pageSize"])
}

func TestRESTClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"message":"project missing"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, common.ErrNotFound)
			},
		},
		{
			name:   "validation with field map",
			status: http.StatusBadRequest,
			body:   `{"message":"invalid","errors":{"title":"required"}}`,
			check: func(t *testing.T, err error) {
				var ve *models.ValidationError
				require.True(t, errors.As(err, &ve))
				assert.Equal(t, "required", ve.Fields["title"])
			},
		},
		{
			name:   "unauthorized",
			status: http.StatusForbidden,
			body:   `{}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, common.ErrUnauthorized)
			},
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			body:   `{}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, common.ErrUnavailable)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Get(context.Background(), models.ResourceReports, "42")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestRESTClient_RefreshOn401Retry(t *testing.T) {
	var calls atomic.Int32

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			_ = json.NewEncoder(w).Encode(tokenPair{AccessToken: "stale", RefreshToken: "r1"})
		case "/api/auth/refresh":
			var req map[string]string
			_ = json.NewDecoder(r.Body).Decode(&req)
			require.Equal(t, "r1", req["refreshToken"])
			_ = json.NewEncoder(w).Encode(tokenPair{AccessToken: "fresh", RefreshToken: "r2"})
		case "/api/partners/7":
			calls.Add(1)
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"code":"token_expired"}`))
				return
			}
			_, _ = w.Write([]byte(`{"id":"7"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	require.NoError(t, c.Login(context.Background(), "admin", "pw"))

	item, err := c.Get(context.Background(), models.ResourcePartners, "7")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7"}`, string(item))
	assert.Equal(t, int32(2), calls.Load(), "expected exactly one retry after refresh")
}

func TestRESTClient_UploadFile(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/upload/image", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "cover.png", hdr.Filename)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"files": []models.FileRef{{ID: "f-1", URL: "/media/f-1.png", Size: 3, MimeType: "image/png"}},
		})
	})

	ref, err := c.UploadFile(context.Background(), models.FileKindImage, "cover.png", bytes3())
	require.NoError(t, err)
	assert.Equal(t, "f-1", ref.ID)
	assert.Equal(t, "/media/f-1.png", ref.URL)
}

func TestRESTClient_Upload_TooLarge(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`{"message":"max 5MB"}`))
	})

	_, err := c.UploadFile(context.Background(), models.FileKindImage, "big.png", bytes3())
	var ue *models.UploadError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, models.UploadReasonTooLarge, ue.Reason)
}

func TestRESTClient_Upload_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from now on
	c := NewRESTClient(srv.URL, time.Second, nil)

	_, err := c.UploadFile(context.Background(), models.FileKindDocument, "doc.pdf", bytes3())
	var ue *models.UploadError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, models.UploadReasonNetwork, ue.Reason)
}

func TestRESTClient_DeleteFile(t *testing.T) {
	var gotPath string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.Equal(t, http.MethodDelete, r.Method)
		_, _ = w.Write([]byte(`{"message":"deleted"}`))
	})

	require.NoError(t, c.DeleteFile(context.Background(), "f-9"))
	assert.Equal(t, "/api/files/f-9", gotPath)
}

func bytes3() *bytes.Reader { return bytes.NewReader([]byte{1, 2, 3}) }
