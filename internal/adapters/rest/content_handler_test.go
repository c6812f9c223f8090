package rest_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchugh/liveblog/internal/adapters/blob"
	"github.com/mchugh/liveblog/internal/adapters/memory"
	"github.com/mchugh/liveblog/internal/adapters/rest"
	"github.com/mchugh/liveblog/internal/content/application"
	"github.com/mchugh/liveblog/internal/platform/eventbus"
)

// itemBody mirrors the item wire shape for assertions.
type itemBody struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Author    string  `json:"author"`
	Category  string  `json:"category"`
	AssetURL  *string `json:"asset_url"`
	AssetName *string `json:"asset_name"`
	Views     int64   `json:"views"`
	Likes     int64   `json:"likes"`
	Published bool    `json:"published"`
}

type testEnv struct {
	router *chi.Mux
	fs     afero.Fs
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := &mockLogger{}
	fs := afero.NewMemMapFs()
	store, err := blob.NewFileStore(fs, "media", "/media", log)
	require.NoError(t, err)

	service := application.NewContentService(
		memory.NewContentRepository(),
		store,
		eventbus.NewBus(log),
		log,
	)

	base := rest.NewBaseHandler(log)
	content := rest.NewContentHandler(base, service)
	media := rest.NewMediaHandler(base, store)

	router := chi.NewRouter()
	router.Route("/api/v1/posts", func(r chi.Router) {
		r.Get("/", content.ListItems)
		r.Post("/", content.CreateItem)
		r.Get("/{id}", content.GetItem)
		r.Put("/{id}", content.UpdateItem)
		r.Delete("/{id}", content.DeleteItem)
		r.Post("/{id}/like", content.LikeItem)
		r.Post("/{id}/view", content.RecordView)
	})
	router.Get("/api/v1/stats", content.GetStats)
	router.Get("/media/{name}", media.ServeAsset)

	return &testEnv{router: router, fs: fs}
}

func (e *testEnv) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createItem(t *testing.T, title string) itemBody {
	t.Helper()
	payload := fmt.Sprintf(`{"title":%q,"body":"body text","author":"reporter"}`, title)
	rec := e.do(t, http.MethodPost, "/api/v1/posts", strings.NewReader(payload), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var item itemBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	return item
}

func TestCreateItemJSON(t *testing.T) {
	env := newTestEnv(t)

	item := env.createItem(t, "First update")

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "First update", item.Title)
	assert.Equal(t, "reporter", item.Author)
	assert.Nil(t, item.AssetURL)
	assert.Zero(t, item.Views)
	assert.Zero(t, item.Likes)
}

func TestCreateItemRejectsMissingTitle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/posts",
		strings.NewReader(`{"body":"text","author":"reporter"}`), "application/json")

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body["error"])
}

func TestCreateItemMultipartWithImage(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Photo update"))
	require.NoError(t, mw.WriteField("body", "see attached"))
	require.NoError(t, mw.WriteField("author", "photographer"))
	part, err := mw.CreateFormFile("image", "Scene Photo.PNG")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec := env.do(t, http.MethodPost, "/api/v1/posts", &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var item itemBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.NotNil(t, item.AssetURL)
	require.NotNil(t, item.AssetName)
	assert.Equal(t, "/media/"+*item.AssetName, *item.AssetURL)

	// The stored blob is servable through the media route.
	mediaRec := env.do(t, http.MethodGet, *item.AssetURL, nil, "")
	require.Equal(t, http.StatusOK, mediaRec.Code)
	assert.Equal(t, "png-bytes", mediaRec.Body.String())
	assert.Equal(t, "image/png", mediaRec.Header().Get("Content-Type"))
}

func TestGetItemNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/posts/550e8400-e29b-41d4-a716-446655440000", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_found", body["error"])
}

func TestGetItemRejectsMalformedID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/posts/not-a-uuid", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "validation_error", body["error"])
}

func TestListItemsNewestFirst(t *testing.T) {
	env := newTestEnv(t)

	env.createItem(t, "first")
	env.createItem(t, "second")
	env.createItem(t, "third")

	rec := env.do(t, http.MethodGet, "/api/v1/posts", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []itemBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, "third", items[0].Title)
	assert.Equal(t, "second", items[1].Title)
	assert.Equal(t, "first", items[2].Title)
}

func TestUpdateItemMergesFields(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, "before")

	rec := env.do(t, http.MethodPut, "/api/v1/posts/"+item.ID,
		strings.NewReader(`{"title":"after"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated itemBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "body text", updated.Body, "omitted fields stay unchanged")
	assert.Equal(t, "reporter", updated.Author)
}

func TestUpdateItemTogglesPublished(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, "draft me")

	rec := env.do(t, http.MethodPut, "/api/v1/posts/"+item.ID,
		strings.NewReader(`{"published":false}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated itemBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.False(t, updated.Published)
	assert.Equal(t, "draft me", updated.Title, "omitted fields stay unchanged")

	// An update that leaves the field out must not flip it back.
	rec = env.do(t, http.MethodPut, "/api/v1/posts/"+item.ID,
		strings.NewReader(`{"title":"still a draft"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.False(t, updated.Published)
}

func TestDeleteItem(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, "short-lived")

	rec := env.do(t, http.MethodDelete, "/api/v1/posts/"+item.ID, nil, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/posts/"+item.ID, nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikeItemReturnsUpdatedItem(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, "likeable")

	rec := env.do(t, http.MethodPost, "/api/v1/posts/"+item.ID+"/like", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var liked itemBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &liked))
	assert.Equal(t, int64(1), liked.Likes)
}

func TestRecordViewIsSilentForUnknownID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/posts/550e8400-e29b-41d4-a716-446655440000/view", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRecordViewIncrementsCounter(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, "viewable")

	rec := env.do(t, http.MethodPost, "/api/v1/posts/"+item.ID+"/view", nil, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/posts/"+item.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var viewed itemBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &viewed))
	assert.Equal(t, int64(1), viewed.Views)
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	a := env.createItem(t, "a")
	b := env.createItem(t, "b")

	env.do(t, http.MethodPost, "/api/v1/posts/"+a.ID+"/like", nil, "")
	env.do(t, http.MethodPost, "/api/v1/posts/"+a.ID+"/view", nil, "")
	env.do(t, http.MethodPost, "/api/v1/posts/"+b.ID+"/view", nil, "")

	rec := env.do(t, http.MethodGet, "/api/v1/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats["total_items"])
	assert.Equal(t, int64(2), stats["total_views"])
	assert.Equal(t, int64(1), stats["total_likes"])
}

func TestServeAssetNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/media/missing.png", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
