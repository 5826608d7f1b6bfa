package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSample = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

type uploadBackend struct {
	BackendService
	got transfer.UploadRequest
	url string
	err error
}

func (b *uploadBackend) UploadBase64(_ context.Context, req transfer.UploadRequest) (string, error) {
	b.got = req
	return b.url, b.err
}

type stubObjectPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (p *stubObjectPutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	p.input = params
	if params.Body != nil {
		p.body, _ = io.ReadAll(params.Body)
	}
	return &s3.PutObjectOutput{}, p.err
}

func TestInspectUpload(t *testing.T) {
	file, err := inspectUpload(pngSample)
	require.NoError(t, err)
	assert.Equal(t, "png", file.extension)
	assert.Equal(t, "image/png", file.mime)
	assert.True(t, strings.HasSuffix(file.key, ".png"))
	assert.Equal(t, models.MediaTypeImage, file.mediaType())

	_, err = inspectUpload(nil)
	assert.ErrorIs(t, err, ErrUploadEmpty)

	_, err = inspectUpload(append(pngSample, make([]byte, MaxUploadBytes)...))
	assert.ErrorIs(t, err, ErrUploadTooLarge)

	_, err = inspectUpload([]byte("just some text, not media"))
	assert.ErrorIs(t, err, ErrUploadTypeForbidden)

	_, err = inspectUpload([]byte("%PDF-1.4\n%%EOF"))
	assert.ErrorIs(t, err, ErrUploadTypeForbidden)
}

func TestUploadedFile_MediaType(t *testing.T) {
	assert.Equal(t, models.MediaTypeVideo, uploadedFile{mime: "video/mp4"}.mediaType())
	assert.Equal(t, models.MediaTypeImage, uploadedFile{mime: "image/webp"}.mediaType())
}

func TestBackendUploader(t *testing.T) {
	backend := &uploadBackend{url: "https://cdn/a.png"}
	uploader := NewBackendUploader(backend)

	item, err := uploader.Upload(context.Background(), "", pngSample)
	require.NoError(t, err)

	assert.Equal(t, models.MediaItem{URL: "https://cdn/a.png", Type: models.MediaTypeImage}, item)
	assert.True(t, strings.HasSuffix(backend.got.Filename, ".png"))
	assert.Equal(t, "image/png", backend.got.ContentType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(pngSample), backend.got.Base64Data)
}

func TestBackendUploader_KeepsFilenameAndWrapsErrors(t *testing.T) {
	backendErr := &models.NetworkError{StatusCode: 500, Message: "bucket down"}
	backend := &uploadBackend{err: backendErr}

	_, err := NewBackendUploader(backend).Upload(context.Background(), "photo.png", pngSample)

	assert.ErrorIs(t, err, backendErr)
	assert.Equal(t, "photo.png", backend.got.Filename)
}

func TestR2Uploader(t *testing.T) {
	putter := &stubObjectPutter{}
	r2 := NewR2ServiceWithClient(putter, "media", "https://media.example.com/")

	item, err := NewR2Uploader(r2).Upload(context.Background(), "ignored.png", pngSample)
	require.NoError(t, err)

	key := aws.ToString(putter.input.Key)
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "media", aws.ToString(putter.input.Bucket))
	assert.Equal(t, "image/png", aws.ToString(putter.input.ContentType))
	assert.Equal(t, pngSample, putter.body)
	assert.Equal(t, "https://media.example.com/"+key, item.URL)
	assert.Equal(t, models.MediaTypeImage, item.Type)
}

func TestR2Uploader_PutFailure(t *testing.T) {
	putErr := errors.New("access denied")
	r2 := NewR2ServiceWithClient(&stubObjectPutter{err: putErr}, "media", "https://media.example.com")

	_, err := NewR2Uploader(r2).Upload(context.Background(), "", pngSample)
	assert.ErrorIs(t, err, putErr)
}

func TestR2Uploader_RejectsBeforePut(t *testing.T) {
	putter := &stubObjectPutter{}
	r2 := NewR2ServiceWithClient(putter, "media", "https://media.example.com")

	_, err := NewR2Uploader(r2).Upload(context.Background(), "", []byte("plain text"))
	assert.ErrorIs(t, err, ErrUploadTypeForbidden)
	assert.Nil(t, putter.input)
}
