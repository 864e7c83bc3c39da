package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/bookshelf/internal/books"
)

var seed = []books.Draft{
	{Title: "Dune", Author: "Frank Herbert", PublishYear: "1965"},
	{Title: "Kindred", Author: "Octavia E. Butler", PublishYear: "1979"},
}

type harness struct {
	srv    *httptest.Server
	sb     *Server
	client *http.Client
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	sb := New(opts)
	srv := httptest.NewServer(sb.Handler())
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{srv: srv, sb: sb, client: &http.Client{Jar: jar}}
}

func (h *harness) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, h.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set(books.CSRFHeader, token)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (h *harness) token(t *testing.T) string {
	t.Helper()
	resp, body := h.do(t, http.MethodGet, "/csrf-token", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["csrfToken"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestServer_List(t *testing.T) {
	h := newHarness(t, Options{Seed: seed})

	resp, body := h.do(t, http.MethodGet, "/books", "", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])
	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)
	first := data[0].(map[string]any)
	assert.Equal(t, "Dune", first["title"])
	assert.Equal(t, float64(1965), first["publishYear"])
	assert.NotEmpty(t, first["_id"])
}

func TestServer_GetAndNotFound(t *testing.T) {
	h := newHarness(t, Options{Seed: seed})
	id := h.sb.Repo().List()[1].ID

	resp, body := h.do(t, http.MethodGet, "/books/"+id, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Kindred", body["title"])

	resp, body = h.do(t, http.MethodGet, "/books/99", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Book not found", body["message"])
}

func TestServer_CSRFTokenSetsSessionOnce(t *testing.T) {
	h := newHarness(t, Options{})

	resp, _ := h.do(t, http.MethodGet, "/csrf-token", "", nil)
	require.Len(t, resp.Cookies(), 1)
	assert.Equal(t, SessionCookie, resp.Cookies()[0].Name)

	resp, _ = h.do(t, http.MethodGet, "/csrf-token", "", nil)
	assert.Empty(t, resp.Cookies(), "existing session should be reused")
}

func TestServer_MutationsRequireCSRF(t *testing.T) {
	h := newHarness(t, Options{Seed: seed})
	id := h.sb.Repo().List()[0].ID

	cases := []struct {
		method, path string
	}{
		{http.MethodPost, "/books"},
		{http.MethodPut, "/books/" + id},
		{http.MethodDelete, "/books/" + id},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			resp, body := h.do(t, tc.method, tc.path, "", seed[0])
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Equal(t, "invalid csrf token", body["message"])
		})
	}

	t.Run("token without session", func(t *testing.T) {
		token := h.token(t)
		other := newHarness(t, Options{Secret: "x"})
		resp, _ := other.do(t, http.MethodPost, "/books", token, seed[0])
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	assert.Len(t, h.sb.Repo().List(), 2)
}

func TestServer_CreateReturnsListing(t *testing.T) {
	h := newHarness(t, Options{Seed: seed})
	token := h.token(t)

	resp, body := h.do(t, http.MethodPost, "/books", token, map[string]any{
		"title": "Beloved", "author": "Toni Morrison", "publishYear": 1987,
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 3)
	assert.Equal(t, "Beloved", data[2].(map[string]any)["title"])
}

func TestServer_CreateValidation(t *testing.T) {
	h := newHarness(t, Options{})
	token := h.token(t)

	resp, body := h.do(t, http.MethodPost, "/books", token, map[string]any{"title": "Beloved"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, RequiredFieldsMessage, body["message"])
	assert.Len(t, body["errors"], 2)
	assert.Empty(t, h.sb.Repo().List())
}

func TestServer_CreateRejectsMalformedJSON(t *testing.T) {
	h := newHarness(t, Options{})
	token := h.token(t)

	req, err := http.NewRequest(http.MethodPost, h.srv.URL+"/books", bytes.NewBufferString("{"))
	require.NoError(t, err)
	req.Header.Set(books.CSRFHeader, token)
	resp, err := h.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_UpdateAndDelete(t *testing.T) {
	h := newHarness(t, Options{Seed: seed})
	token := h.token(t)
	id := h.sb.Repo().List()[0].ID

	resp, body := h.do(t, http.MethodPut, "/books/"+id, token, map[string]any{
		"title": "Dune Messiah", "author": "Frank Herbert", "publishYear": "1969",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Dune Messiah", body["title"])
	assert.Equal(t, id, body["_id"])

	resp, body = h.do(t, http.MethodPut, "/books/99", token, seed[0])
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Book not found", body["message"])

	resp, body = h.do(t, http.MethodDelete, "/books/"+id, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Book deleted successfully", body["message"])
	assert.Len(t, h.sb.Repo().List(), 1)

	resp, _ = h.do(t, http.MethodDelete, "/books/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_RequestID(t *testing.T) {
	h := newHarness(t, Options{})

	resp, _ := h.do(t, http.MethodGet, "/books", "", nil)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req, err := http.NewRequest(http.MethodGet, h.srv.URL+"/books", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err = h.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))
}

func TestServer_RateLimit(t *testing.T) {
	h := newHarness(t, Options{RPS: 0.001, Burst: 1})

	resp, _ := h.do(t, http.MethodGet, "/books", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := h.do(t, http.MethodGet, "/books", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Too many requests", body["message"])
}

func TestServer_Latency(t *testing.T) {
	h := newHarness(t, Options{Latency: 30 * time.Millisecond})

	start := time.Now()
	resp, _ := h.do(t, http.MethodGet, "/books", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestServer_WithBooksClient(t *testing.T) {
	h := newHarness(t, Options{Seed: seed})
	ctx := context.Background()

	client, err := books.NewClient(h.srv.URL)
	require.NoError(t, err)
	require.NotEmpty(t, client.CSRF().Fetch(ctx))

	list, err := client.ListBooks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, client.CreateBook(ctx, books.Draft{Title: "Beloved", Author: "Toni Morrison", PublishYear: "1987"}))
	list, err = client.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	require.NoError(t, client.UpdateBook(ctx, list[0].ID, books.Draft{Title: "Dune", Author: "F. Herbert", PublishYear: "1965"}))
	updated, err := client.GetBook(ctx, list[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "F. Herbert", updated.Author)

	err = client.CreateBook(ctx, books.Draft{Title: "No author"})
	assert.ErrorIs(t, err, books.ErrValidation)
	assert.Equal(t, RequiredFieldsMessage, books.Message(err))

	assert.ErrorIs(t, client.DeleteBook(ctx, "99"), books.ErrNotFound)
	require.NoError(t, client.DeleteBook(ctx, list[1].ID))

	_, err = client.GetBook(ctx, list[1].ID)
	assert.ErrorIs(t, err, books.ErrNotFound)
}
