package media_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"ms-events/internal/apperror"
	"ms-events/internal/logger"
	"ms-events/internal/media"
	"ms-events/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const baseURL = "https://cdn.example.com/events-media"

// MockStore records what the service hands to the bucket.
type MockStore struct {
	mock.Mock
	objects map[string][]byte
}

func newMockStore() *MockStore {
	return &MockStore{objects: map[string][]byte{}}
}

func (m *MockStore) BaseURL() string { return baseURL }

func (m *MockStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	data, _ := io.ReadAll(body)
	args := m.Called(key, contentType, size)
	if args.Error(0) == nil {
		m.objects[key] = data
	}
	return args.Error(0)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	return m.Called(key).Error(0)
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// fileHeaders builds real multipart headers by round-tripping a form.
func fileHeaders(t *testing.T, field string, files map[string][]byte) []*multipart.FileHeader {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field]
}

func TestUploadSingle(t *testing.T) {
	store := newMockStore()
	store.On("Put", mock.Anything, "image/png", int64(len(pngBytes))).Return(nil)
	svc := media.NewService(store, logger.Nop())

	fh := fileHeaders(t, "file", map[string][]byte{"banner.PNG": pngBytes})[0]
	result, err := svc.UploadSingle(context.Background(), fh)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Key, "uploads/"))
	assert.True(t, strings.HasSuffix(result.Key, ".png"))
	assert.Equal(t, baseURL+"/"+result.Key, result.URL)
	assert.Equal(t, "image/png", result.ContentType)
	assert.Equal(t, pngBytes, store.objects[result.Key])
}

func TestUploadSingle_Missing(t *testing.T) {
	svc := media.NewService(newMockStore(), logger.Nop())
	_, err := svc.UploadSingle(context.Background(), nil)
	assert.True(t, apperror.Is(err, apperror.Validation))
}

func TestUploadMultiple(t *testing.T) {
	store := newMockStore()
	store.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	svc := media.NewService(store, logger.Nop())

	files := fileHeaders(t, "files", map[string][]byte{"a.png": pngBytes, "notes.txt": []byte("hello")})
	result, err := svc.UploadMultiple(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.NotEqual(t, result[0].Key, result[1].Key)

	_, err = svc.UploadMultiple(context.Background(), nil)
	assert.True(t, apperror.Is(err, apperror.Validation))
}

func TestUpload_StoreFailure(t *testing.T) {
	store := newMockStore()
	store.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket unreachable"))
	svc := media.NewService(store, logger.Nop())

	fh := fileHeaders(t, "file", map[string][]byte{"a.png": pngBytes})[0]
	_, err := svc.UploadSingle(context.Background(), fh)
	assert.True(t, apperror.Is(err, apperror.Internal))
}

func TestRemove(t *testing.T) {
	store := newMockStore()
	store.On("Delete", "uploads/abc.png").Return(nil).Once()
	svc := media.NewService(store, logger.Nop())
	ctx := context.Background()

	require.NoError(t, svc.Remove(ctx, models.MediaRemoveRequest{FileURL: baseURL + "/uploads/abc.png"}))
	store.AssertExpectations(t)

	for _, bad := range []string{
		"",
		"not a url",
		"https://elsewhere.example.com/uploads/abc.png",
		baseURL + "/private/abc.png",
		baseURL + "/uploads/",
		baseURL + "/uploads/../secret",
	} {
		err := svc.Remove(ctx, models.MediaRemoveRequest{FileURL: bad})
		assert.True(t, apperror.Is(err, apperror.Validation), "url %q", bad)
	}
	store.AssertNumberOfCalls(t, "Delete", 1)
}

func TestUnavailableStore(t *testing.T) {
	svc := media.NewService(media.UnavailableStore{Err: errors.New("no bucket")}, logger.Nop())

	fh := fileHeaders(t, "file", map[string][]byte{"a.png": pngBytes})[0]
	_, err := svc.UploadSingle(context.Background(), fh)
	assert.True(t, apperror.Is(err, apperror.Internal))
}
