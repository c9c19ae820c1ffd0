package videos_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mini-rec/backend/internal/auth"
	"github.com/mini-rec/backend/internal/middleware"
	"github.com/mini-rec/backend/internal/videos"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeMetadataStore, *fakeBlobStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newFakeMetadataStore()
	blobs := newFakeBlobStore()
	service := videos.NewService(store, blobs, nil)
	handler := videos.NewHandler(service, nil)

	verifier := &auth.StaticVerifier{Tokens: map[string]string{
		"token-u": "user-u",
		"token-v": "user-v",
	}}

	router := gin.New()
	api := router.Group("")
	api.Use(middleware.Auth(verifier))
	handler.Register(api)
	return router, store, blobs
}

func doRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func uploadRequest(t *testing.T, token, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("filename", filename))

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func decodeView(t *testing.T, body io.Reader) videos.RecordingView {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	var view videos.RecordingView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	return view
}

func TestRoutesRequireBearerToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"unknown token", "Bearer forged"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/videos", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := doRequest(router, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestUploadRenameListDeleteFlow(t *testing.T) {
	router, _, _ := newTestRouter(t)

	// Upload as user U.
	w := doRequest(router, uploadRequest(t, "token-u", "clip.webm", "video/webm", []byte("webm bytes")))
	require.Equal(t, http.StatusCreated, w.Code)
	uploaded := decodeView(t, w.Body)
	assert.Equal(t, "clip.webm", uploaded.Filename)
	assert.NotEmpty(t, uploaded.S3URL)

	// Rename it.
	body := bytes.NewBufferString(`{"filename":"trip.webm"}`)
	req := httptest.NewRequest(http.MethodPatch, "/videos/"+uploaded.ID.String(), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token-u")
	w = doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)
	renamed := decodeView(t, w.Body)
	assert.Equal(t, "trip.webm", renamed.Filename)
	assert.Equal(t, uploaded.ID, renamed.ID)

	// List shows the renamed record.
	req = httptest.NewRequest(http.MethodGet, "/videos", nil)
	req.Header.Set("Authorization", "Bearer token-u")
	w = doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	var views []videos.RecordingView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "trip.webm", views[0].Filename)

	// User V cannot delete U's recording.
	req = httptest.NewRequest(http.MethodDelete, "/videos/"+uploaded.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer token-v")
	w = doRequest(router, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// U can.
	req = httptest.NewRequest(http.MethodDelete, "/videos/"+uploaded.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer token-u")
	w = doRequest(router, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUploadRejectsNonVideoContentType(t *testing.T) {
	router, store, blobs := newTestRouter(t)

	w := doRequest(router, uploadRequest(t, "token-u", "pic.png", "image/png", []byte("png bytes")))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Zero(t, blobs.putCalls)
	assert.Empty(t, store.recs)
}

func TestUploadRequiresFilenameAndFile(t *testing.T) {
	router, _, _ := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("filename", "clip.webm"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/videos/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer token-u")
	w := doRequest(router, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenameUnknownIDIsNotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body := bytes.NewBufferString(`{"filename":"x.webm"}`)
	req := httptest.NewRequest(http.MethodPatch, "/videos/not-a-uuid", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token-u")
	w := doRequest(router, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListUpstreamFailureIs503(t *testing.T) {
	router, _, blobs := newTestRouter(t)

	w := doRequest(router, uploadRequest(t, "token-u", "clip.webm", "video/webm", []byte("webm bytes")))
	require.Equal(t, http.StatusCreated, w.Code)

	blobs.failSign = true
	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	req.Header.Set("Authorization", "Bearer token-u")
	w = doRequest(router, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
