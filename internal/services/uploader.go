package services

import (
	"context"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/kapilnath546/study-buddies/internal/apperror"
	"github.com/rs/zerolog/log"
)

// Uploader writes media (avatars, post images) to the storage bucket and
// returns a public URL for the stored object.
type Uploader struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewUploader creates a new Uploader for the given bucket
func NewUploader(bucket *storage.BucketHandle, bucketName string) *Uploader {
	return &Uploader{bucket: bucket, bucketName: bucketName}
}

// Upload stores the content under a generated object name inside the given
// folder and returns the public URL. Any failure is surfaced as a storage
// error; the caller aborts the write that depended on the URL.
func (u *Uploader) Upload(ctx context.Context, folder, filename, contentType string, content io.Reader) (string, error) {
	objectName := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), path.Ext(filename))

	w := u.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, content); err != nil {
		w.Close()
		log.Error().Err(err).Str("object", objectName).Msg("Upload write failed")
		return "", apperror.ErrStorage
	}
	if err := w.Close(); err != nil {
		log.Error().Err(err).Str("object", objectName).Msg("Upload close failed")
		return "", apperror.ErrStorage
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", u.bucketName, objectName), nil
}
