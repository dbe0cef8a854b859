package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/ostrauer/briefshelf-backend/internal/pkg/logger"
)

// BucketService stores binary assets (cover images) for the catalog. If the
// target bucket does not exist yet it is provisioned on first use.
type BucketService interface {
	UploadFile(ctx context.Context, key string, file io.Reader) error
	DeleteFile(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucketName    string
	projectID     string
	cdnDomain     string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
	serviceLog := log.With("service", "BucketService")

	bucketName := strings.TrimSpace(os.Getenv("COVER_GCS_BUCKET_NAME"))
	if bucketName == "" {
		return nil, fmt.Errorf("missing env var COVER_GCS_BUCKET_NAME")
	}
	projectID := strings.TrimSpace(os.Getenv("GCP_PROJECT_ID"))
	cdnDomain := strings.TrimSpace(os.Getenv("COVER_CDN_DOMAIN"))

	ctx := context.Background()
	opts := ClientOptionsFromEnv()
	opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	stClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &bucketService{
		log:           serviceLog,
		storageClient: stClient,
		bucketName:    bucketName,
		projectID:     projectID,
		cdnDomain:     cdnDomain,
	}, nil
}

func (bs *bucketService) UploadFile(ctx context.Context, key string, file io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		if !isBucketMissing(err) {
			return fmt.Errorf("failed to close GCS writer: %w", err)
		}
		if provErr := bs.provisionBucket(ctx); provErr != nil {
			return fmt.Errorf("bucket %q absent and auto-provision failed: %w", bs.bucketName, provErr)
		}
		// Writer is single-use; the caller's reader may be consumed too, so
		// retry only works when the copy above buffered nothing. Callers pass
		// bytes.Reader values, which we can rewind.
		if seeker, ok := file.(io.Seeker); ok {
			if _, serr := seeker.Seek(0, io.SeekStart); serr != nil {
				return fmt.Errorf("rewind upload after bucket provision: %w", serr)
			}
		}
		w2 := bs.storageClient.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
		if ct := contentTypeForKey(key); ct != "" {
			w2.ContentType = ct
		}
		if _, err := io.Copy(w2, file); err != nil {
			_ = w2.Close()
			return fmt.Errorf("failed to write data to GCS: %w", err)
		}
		if err := w2.Close(); err != nil {
			return fmt.Errorf("failed to close GCS writer: %w", err)
		}
	}
	return nil
}

func (bs *bucketService) DeleteFile(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := bs.storageClient.Bucket(bs.bucketName).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete object %q: %w", key, err)
	}
	return nil
}

func (bs *bucketService) GetPublicURL(key string) string {
	if bs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", strings.TrimSuffix(bs.cdnDomain, "/"), key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}

func (bs *bucketService) provisionBucket(ctx context.Context) error {
	if bs.projectID == "" {
		return fmt.Errorf("missing GCP_PROJECT_ID")
	}
	bs.log.Warn("cover bucket missing, provisioning", "bucket", bs.bucketName)
	err := bs.storageClient.Bucket(bs.bucketName).Create(ctx, bs.projectID, nil)
	if err != nil {
		var apiErr *googleapi.Error
		// 409: someone else provisioned it first. Fine.
		if errors.As(err, &apiErr) && apiErr.Code == 409 {
			return nil
		}
		return err
	}
	return nil
}

func isBucketMissing(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, storage.ErrBucketNotExist) {
		return true
	}
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 404
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	default:
		return ""
	}
}
