package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/medtrace/pathlab-backend/internal/logger"
	"github.com/medtrace/pathlab-backend/internal/repos"
	"github.com/medtrace/pathlab-backend/internal/types"
)

// BucketService stores report PDFs, report HTML and sample images in GCS and
// records a storage_object row for every blob written.
type BucketService interface {
	Upload(ctx context.Context, tx *gorm.DB, in UploadInput) (*types.StorageObject, error)
	DeleteFile(ctx context.Context, key string) error
	// SignedURL grants time-limited read access; report downloads and
	// image views go through this instead of public objects.
	SignedURL(key string, ttl time.Duration) (string, error)
	GetPublicURL(key string) string
}

type UploadInput struct {
	TenantID    uuid.UUID
	Key         string
	ContentType string
	Body        io.Reader
	CreatedBy   uuid.UUID
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	storageRepo   repos.StorageObjectRepo
	bucketName    string
	cdnDomain     string
}

func NewBucketService(log *logger.Logger, storageRepo repos.StorageObjectRepo) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")
	bucket := os.Getenv("GCS_BUCKET_NAME")
	if bucket == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
	}
	cdnDomain := os.Getenv("CDN_DOMAIN")
	saPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")
	if saPath == "" {
		serviceLog.Warn("GOOGLE_APPLICATION_CREDENTIALS_JSON not set, falling back to ambient ADC")
	}
	ctx := context.Background()
	var stClient *storage.Client
	var err error
	if saPath != "" {
		stClient, err = storage.NewClient(ctx, option.WithCredentialsFile(saPath), option.WithScopes(storage.ScopeReadWrite))
	} else {
		stClient, err = storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &bucketService{
		log:           serviceLog,
		storageClient: stClient,
		storageRepo:   storageRepo,
		bucketName:    bucket,
		cdnDomain:     cdnDomain,
	}, nil
}

func (bs *bucketService) Upload(ctx context.Context, tx *gorm.DB, in UploadInput) (*types.StorageObject, error) {
	uploadCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.bucketName).Object(in.Key).NewWriter(uploadCtx)
	if in.ContentType != "" {
		w.ContentType = in.ContentType
	}
	written, err := io.Copy(w, in.Body)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close GCS writer: %w", err)
	}

	var createdBy *uuid.UUID
	if in.CreatedBy != uuid.Nil {
		createdBy = &in.CreatedBy
	}
	obj := &types.StorageObject{
		TenantID:    in.TenantID,
		Bucket:      bs.bucketName,
		Key:         in.Key,
		ContentType: in.ContentType,
		SizeBytes:   written,
		ETag:        w.Attrs().Etag,
		CreatedBy:   createdBy,
	}
	if _, err := bs.storageRepo.Create(ctx, tx, obj); err != nil {
		// Blob without a row is unreachable garbage; best effort cleanup.
		_ = bs.DeleteFile(ctx, in.Key)
		return nil, err
	}
	return obj, nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	o := bs.storageClient.Bucket(bs.bucketName).Object(key)
	if err := o.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q: %w", key, err)
	}
	return nil
}

func (bs *bucketService) SignedURL(key string, ttl time.Duration) (string, error) {
	url, err := bs.storageClient.Bucket(bs.bucketName).SignedURL(key, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %q: %w", key, err)
	}
	return url, nil
}

func (bs *bucketService) GetPublicURL(key string) string {
	if bs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}
