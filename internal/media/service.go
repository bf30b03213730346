package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"ms-events/internal/apperror"
	"ms-events/internal/logger"
	"ms-events/internal/models"
	"ms-events/internal/validation"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	keyPrefix      = "uploads/"
	MaxFileSize    = 5 << 20
	MaxFilesPerReq = 10
)

// ObjectStore is where uploaded bytes end up.
type ObjectStore interface {
	BaseURL() string
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
}

type Service struct {
	Store  ObjectStore
	logger *logger.Logger
}

func NewService(store ObjectStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{Store: store, logger: log}
}

func (s *Service) UploadSingle(ctx context.Context, fh *multipart.FileHeader) (*models.UploadedFile, error) {
	if fh == nil {
		return nil, apperror.NewValidation("file is required",
			apperror.FieldError{Field: "file", Message: "file is required"})
	}
	return s.upload(ctx, fh)
}

// UploadMultiple stops at the first failure; files stored before it stay stored.
func (s *Service) UploadMultiple(ctx context.Context, files []*multipart.FileHeader) ([]models.UploadedFile, error) {
	if len(files) == 0 {
		return nil, apperror.NewValidation("files are required",
			apperror.FieldError{Field: "files", Message: "files are required"})
	}
	if len(files) > MaxFilesPerReq {
		return nil, apperror.NewValidation(fmt.Sprintf("at most %d files per request", MaxFilesPerReq))
	}

	uploaded := make([]models.UploadedFile, 0, len(files))
	for _, fh := range files {
		f, err := s.upload(ctx, fh)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, *f)
	}
	return uploaded, nil
}

func (s *Service) upload(ctx context.Context, fh *multipart.FileHeader) (*models.UploadedFile, error) {
	if fh.Size > MaxFileSize {
		return nil, apperror.NewValidation(fmt.Sprintf("%s exceeds the %d MB limit", fh.Filename, MaxFileSize>>20))
	}

	src, err := fh.Open()
	if err != nil {
		return nil, apperror.Wrap(apperror.Validation, "unreadable file", err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, apperror.Wrap(apperror.Validation, "unreadable file", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, apperror.NewInternal("failed to read file", err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = mtype.Extension()
	}
	key := keyPrefix + uuid.NewString() + ext

	if err := s.Store.Put(ctx, key, mtype.String(), src, fh.Size); err != nil {
		s.logger.Error("MEDIA", fmt.Sprintf("Upload %s failed: %v", fh.Filename, err))
		return nil, apperror.NewInternal("failed to upload file", err)
	}

	return &models.UploadedFile{
		Key:         key,
		URL:         s.Store.BaseURL() + "/" + key,
		ContentType: mtype.String(),
		Size:        fh.Size,
	}, nil
}

// Remove deletes an object previously returned by an upload.
func (s *Service) Remove(ctx context.Context, req models.MediaRemoveRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	key, ok := s.keyFromURL(req.FileURL)
	if !ok {
		return apperror.NewValidation("fileUrl is not a managed upload",
			apperror.FieldError{Field: "fileUrl", Message: "fileUrl is not a managed upload"})
	}
	if err := s.Store.Delete(ctx, key); err != nil {
		s.logger.Error("MEDIA", fmt.Sprintf("Delete %s failed: %v", key, err))
		return apperror.NewInternal("failed to remove file", err)
	}
	s.logger.Info("MEDIA", fmt.Sprintf("Removed %s", key))
	return nil
}

func (s *Service) keyFromURL(fileURL string) (string, bool) {
	key, found := strings.CutPrefix(fileURL, s.Store.BaseURL()+"/")
	if !found || !strings.HasPrefix(key, keyPrefix) || strings.Contains(key, "..") || len(key) == len(keyPrefix) {
		return "", false
	}
	return key, true
}
