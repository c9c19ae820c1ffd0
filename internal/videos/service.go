// Package videos implements the recording use-cases: list, upload,
// rename, delete. The service enforces ownership on every mutation and
// keeps the Postgres row and the S3 object consistent with each other.
package videos

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mini-rec/backend/internal/models"
	"github.com/mini-rec/backend/pkg/storage"
)

// MetadataStore is the persistence port. Owner scoping is part of every
// method contract, not an optional filter.
type MetadataStore interface {
	Create(ctx context.Context, rec *models.Recording) error
	ListByOwner(ctx context.Context, owner string) ([]models.Recording, error)
	GetOwned(ctx context.Context, id uuid.UUID, owner string) (*models.Recording, error)
	Rename(ctx context.Context, id uuid.UUID, owner, filename string) (*models.Recording, error)
	Delete(ctx context.Context, id uuid.UUID, owner string) (bool, error)
}

// BlobStore is the object-store port. Put returns the storage key only
// after a confirmed write.
type BlobStore interface {
	Put(ctx context.Context, owner, contentType string, body io.Reader, contentLength int64) (string, error)
	Delete(ctx context.Context, key string) error
	SignedDownloadURL(ctx context.Context, key string) (string, time.Duration, error)
}

// RecordingView is the API shape of a recording, with a freshly minted
// download URL.
type RecordingView struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	S3URL     string    `json:"s3_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Service orchestrates the metadata store and the blob store.
type Service struct {
	store  MetadataStore
	blobs  BlobStore
	logger *zap.Logger
}

// NewService creates the recording service.
func NewService(store MetadataStore, blobs BlobStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, blobs: blobs, logger: logger}
}

func (s *Service) view(ctx context.Context, rec *models.Recording) (*RecordingView, error) {
	url, _, err := s.blobs.SignedDownloadURL(ctx, rec.S3Key)
	if err != nil {
		return nil, fmt.Errorf("%w: presign %s: %v", ErrUpstreamUnavailable, rec.S3Key, err)
	}
	return &RecordingView{
		ID:        rec.ID,
		Filename:  rec.Filename,
		S3URL:     url,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// List returns the caller's recordings, each with a fresh download URL.
// A mint failure for any row fails the whole call; no silent omission.
func (s *Service) List(ctx context.Context, owner string) ([]RecordingView, error) {
	recs, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list: %v", ErrMetadataWrite, err)
	}
	views := make([]RecordingView, 0, len(recs))
	for i := range recs {
		v, err := s.view(ctx, &recs[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// Upload writes the blob first, then inserts the metadata row. The row
// never exists without a confirmed blob; if the insert fails the blob is
// deleted best-effort so storage does not leak.
func (s *Service) Upload(ctx context.Context, owner, filename, contentType string, body io.Reader, contentLength int64) (*RecordingView, error) {
	if _, ok := storage.ExtForContentType(contentType); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
	}

	key, err := s.blobs.Put(ctx, owner, contentType, body, contentLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	rec := &models.Recording{
		UserUID:  owner,
		Filename: filename,
		S3Key:    key,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		// Compensate: the blob exists but the row never will.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Error("compensating blob delete failed",
				zap.String("s3_key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("%w: %v", ErrMetadataWrite, err)
	}

	s.logger.Info("recording uploaded",
		zap.String("user_uid", owner),
		zap.String("recording_id", rec.ID.String()),
		zap.String("s3_key", key),
		zap.Int64("size", contentLength))
	return s.view(ctx, rec)
}

// Rename updates only the filename of an owned recording.
func (s *Service) Rename(ctx context.Context, owner string, id uuid.UUID, filename string) (*RecordingView, error) {
	rec, err := s.store.Rename(ctx, id, owner, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: rename: %v", ErrMetadataWrite, err)
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	return s.view(ctx, rec)
}

// Delete removes the blob first, then the row. A transport error on the
// blob delete aborts before the row delete so a blob can never be
// orphaned; a crash between the two steps leaves an orphaned row, which
// is the accepted asymmetry.
func (s *Service) Delete(ctx context.Context, owner string, id uuid.UUID) error {
	rec, err := s.store.GetOwned(ctx, id, owner)
	if err != nil {
		return fmt.Errorf("%w: get: %v", ErrMetadataWrite, err)
	}
	if rec == nil {
		return ErrNotFound
	}

	if err := s.blobs.Delete(ctx, rec.S3Key); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageDelete, err)
	}

	deleted, err := s.store.Delete(ctx, id, owner)
	if err != nil {
		// Blob is gone, row survived. Surface the failure; the row now
		// points at nothing until the delete is retried.
		s.logger.Error("row delete failed after blob delete",
			zap.String("recording_id", id.String()),
			zap.String("s3_key", rec.S3Key), zap.Error(err))
		return fmt.Errorf("%w: delete: %v", ErrMetadataWrite, err)
	}
	if !deleted {
		return ErrNotFound
	}
	s.logger.Info("recording deleted",
		zap.String("user_uid", owner), zap.String("recording_id", id.String()))
	return nil
}
