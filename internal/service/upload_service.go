package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const MaxUploadBytes = 5 * 1024 * 1024

var (
	ErrUploadTooLarge      = errors.New("file exceeds the 5MB upload limit")
	ErrUploadEmpty         = errors.New("file is empty")
	ErrUploadTypeForbidden = errors.New("file type is not allowed")
)

var allowedUploadTypes = map[string]struct{}{
	"jpg": {}, "png": {}, "gif": {}, "webp": {}, "mp4": {}, "mov": {}, "webm": {},
}

// MediaUploader stores a composer upload and returns the media item that
// points at it.
type MediaUploader interface {
	Upload(ctx context.Context, filename string, data []byte) (models.MediaItem, error)
}

type uploadedFile struct {
	key       string
	extension string
	mime      string
}

// inspectUpload enforces the size cap and content sniffing shared by every
// upload target.
func inspectUpload(data []byte) (uploadedFile, error) {
	if len(data) == 0 {
		return uploadedFile{}, ErrUploadEmpty
	}
	if len(data) > MaxUploadBytes {
		return uploadedFile{}, ErrUploadTooLarge
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		return uploadedFile{}, ErrUploadTypeForbidden
	}
	if _, ok := allowedUploadTypes[kind.Extension]; !ok {
		return uploadedFile{}, fmt.Errorf("%w: %s", ErrUploadTypeForbidden, kind.Extension)
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return uploadedFile{}, err
	}

	return uploadedFile{
		key:       fmt.Sprintf("%s.%s", id, kind.Extension),
		extension: kind.Extension,
		mime:      kind.MIME.Value,
	}, nil
}

func (f uploadedFile) mediaType() string {
	if strings.HasPrefix(f.mime, "video/") {
		return models.MediaTypeVideo
	}
	return models.MediaTypeImage
}

type backendUploader struct {
	backend BackendService
}

// NewBackendUploader sends uploads through the backend's base64 endpoint.
func NewBackendUploader(backend BackendService) MediaUploader {
	return &backendUploader{backend: backend}
}

func (u *backendUploader) Upload(ctx context.Context, filename string, data []byte) (models.MediaItem, error) {
	file, err := inspectUpload(data)
	if err != nil {
		return models.MediaItem{}, err
	}
	if filename == "" {
		filename = file.key
	}

	url, err := u.backend.UploadBase64(ctx, transfer.UploadRequest{
		Filename:    filename,
		ContentType: file.mime,
		Base64Data:  base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("error uploading file: %w", err)
	}
	return models.MediaItem{URL: url, Type: file.mediaType()}, nil
}

type r2Uploader struct {
	r2 *R2Service
}

// NewR2Uploader writes uploads straight to the R2 bucket.
func NewR2Uploader(r2 *R2Service) MediaUploader {
	return &r2Uploader{r2: r2}
}

func (u *r2Uploader) Upload(ctx context.Context, _ string, data []byte) (models.MediaItem, error) {
	file, err := inspectUpload(data)
	if err != nil {
		return models.MediaItem{}, err
	}

	url, err := u.r2.UploadToR2(ctx, file.key, data, file.mime)
	if err != nil {
		return models.MediaItem{}, fmt.Errorf("error uploading file: %w", err)
	}
	return models.MediaItem{URL: url, Type: file.mediaType()}, nil
}
