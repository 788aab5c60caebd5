package uploads_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artograd/backend/internal/authz"
	"github.com/artograd/backend/internal/models"
	"github.com/artograd/backend/internal/testutil"
	"github.com/artograd/backend/internal/uploads"
	"github.com/artograd/backend/pkg/apperror"
)

type object struct {
	contentType string
	data        []byte
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string]object
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string]object{}}
}

func (m *memStorage) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = object{contentType: contentType, data: data}
	return "https://cdn.test/" + key, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

var artist = authz.Principal{Username: "artist1", Role: models.RoleArtist}

func TestFileType(t *testing.T) {
	assert.Equal(t, uploads.TypeIframe, uploads.FileType("pdf"))
	assert.Equal(t, uploads.TypeImage, uploads.FileType("JPG"))
	assert.Equal(t, uploads.TypeImage, uploads.FileType("heic"))
	assert.Equal(t, uploads.TypeAttachment, uploads.FileType("docx"))
	assert.Equal(t, uploads.TypeAttachment, uploads.FileType(""))
	assert.Equal(t, "png", uploads.Extension("Photo.PNG"))
}

func TestThumbnailFitsBox(t *testing.T) {
	snap, contentType, err := uploads.Thumbnail(pngBytes(t, 1000, 500))
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	cfg, err := png.DecodeConfig(bytes.NewReader(snap))
	require.NoError(t, err)
	assert.Equal(t, 286, cfg.Width)
	assert.Equal(t, 143, cfg.Height)

	snap, _, err = uploads.Thumbnail(pngBytes(t, 100, 1000))
	require.NoError(t, err)
	cfg, err = png.DecodeConfig(bytes.NewReader(snap))
	require.NoError(t, err)
	assert.Equal(t, 33, cfg.Width)
	assert.Equal(t, 336, cfg.Height)

	_, _, err = uploads.Thumbnail([]byte("<svg/>"))
	assert.ErrorIs(t, err, uploads.ErrNotDecodable)
}

func TestUploadImageStoresSnap(t *testing.T) {
	store := newMemStorage()
	svc := uploads.NewService(store, testutil.Authorizer(t), zap.NewNop())

	info, err := svc.Upload(context.Background(), artist, "proposals", "t1", "sketch.png", pngBytes(t, 800, 800))
	require.NoError(t, err)

	assert.Equal(t, uploads.TypeImage, info.Type)
	assert.Equal(t, "png", info.Extension)
	assert.Equal(t, "sketch.png", info.Name)
	assert.Equal(t, "https://cdn.test/proposals/t1/"+info.ID+".png", info.Path)
	assert.Equal(t, "https://cdn.test/proposals/t1/snaps/"+info.ID+".png", info.SnapPath)
	require.Len(t, store.objects, 2)
	assert.Equal(t, "image/png", store.objects["proposals/t1/"+info.ID+".png"].contentType)
}

func TestUploadUndecodableImageReusesOriginal(t *testing.T) {
	store := newMemStorage()
	svc := uploads.NewService(store, testutil.Authorizer(t), zap.NewNop())

	info, err := svc.Upload(context.Background(), artist, "tenders", "t1", "logo.svg", []byte("<svg/>"))
	require.NoError(t, err)
	assert.Equal(t, info.Path, info.SnapPath)
	assert.Len(t, store.objects, 1)
}

func TestUploadHugeImageReusesOriginal(t *testing.T) {
	// Re-declare a 1x1 PNG as 30000x30000 and fix up the IHDR checksum.
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()
	binary.BigEndian.PutUint32(data[16:], 30000)
	binary.BigEndian.PutUint32(data[20:], 30000)
	binary.BigEndian.PutUint32(data[29:], crc32.ChecksumIEEE(data[12:29]))

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 30000, cfg.Height)

	store := newMemStorage()
	svc := uploads.NewService(store, testutil.Authorizer(t), zap.NewNop())
	info, err := svc.Upload(context.Background(), artist, "tenders", "t1", "huge.png", data)
	require.NoError(t, err)
	assert.Equal(t, info.Path, info.SnapPath)
	assert.Len(t, store.objects, 1)
}

func TestUploadDocument(t *testing.T) {
	store := newMemStorage()
	svc := uploads.NewService(store, testutil.Authorizer(t), zap.NewNop())

	info, err := svc.Upload(context.Background(), artist, "tenders", "t1", "brief.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, uploads.TypeIframe, info.Type)
	assert.Empty(t, info.SnapPath)
	assert.Equal(t, "application/pdf", store.objects["tenders/t1/"+info.ID+".pdf"].contentType)
}

func TestUploadRequiresUser(t *testing.T) {
	svc := uploads.NewService(newMemStorage(), testutil.Authorizer(t), zap.NewNop())
	_, err := svc.Upload(context.Background(), authz.Principal{}, "tenders", "t1", "a.pdf", []byte("x"))
	assert.Equal(t, http.StatusForbidden, apperror.StatusOf(err))
}

func multipartRequest(t *testing.T, path, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadEndpoint(t *testing.T) {
	store := newMemStorage()
	h := uploads.NewHandler(uploads.NewService(store, testutil.Authorizer(t), zap.NewNop()), zap.NewNop())
	r := testutil.Router(h.RegisterRoutes)

	req := multipartRequest(t, "/uploadFile/artobjects/a1", "notes.txt", []byte("hello"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = multipartRequest(t, "/uploadFile/artobjects/a1", "notes.txt", []byte("hello"))
	req.Header.Set("Authorization", "Bearer "+testutil.Token(t, "artist1", models.RoleArtist))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var info models.FileInfo
	testutil.Decode(t, w, &info)
	assert.Equal(t, uploads.TypeAttachment, info.Type)
	assert.True(t, strings.HasPrefix(info.Path, "https://cdn.test/artobjects/a1/"))

	req = multipartRequest(t, "/uploadFile/artobjects/a1", "", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.Token(t, "artist1", models.RoleArtist))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
