package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bryanwahyu/drive-sentinel/internal/domain/files"
	domain "github.com/bryanwahyu/drive-sentinel/internal/domain/scan"
)

// DriveRoot is the target id that addresses the whole bucket.
const DriveRoot = "drive"

// maxFetchBytes bounds a single content download.
const maxFetchBytes = 10 << 20

// Store adapts an S3-compatible bucket to the FileStore port. Object keys
// double as file ids; "folders" are key prefixes.
type Store struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Store{client: cli, bucketName: bucket, region: region}, nil
}

// ListChildren lists one level under folderID. Sub-prefixes come back as
// folder records so the orchestrator can recurse.
func (s *Store) ListChildren(ctx context.Context, folderID string) ([]files.FileRecord, error) {
	prefix := folderPrefix(folderID)

	var out []files.FileRecord
	opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: false}
	for obj := range s.client.ListObjects(ctx, s.bucketName, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects %q: %w", prefix, obj.Err)
		}
		if obj.Key == prefix {
			// the folder placeholder object itself
			continue
		}
		if strings.HasSuffix(obj.Key, "/") {
			out = append(out, files.FileRecord{
				ID:       strings.TrimSuffix(obj.Key, "/"),
				Name:     path.Base(strings.TrimSuffix(obj.Key, "/")),
				MimeType: files.MimeTypeFolder,
			})
			continue
		}
		out = append(out, files.FileRecord{
			ID:           obj.Key,
			Name:         path.Base(obj.Key),
			MimeType:     obj.ContentType, // often empty in listings; bucketing falls back to extension
			ModifiedTime: obj.LastModified.UTC().Format(time.RFC3339),
			Size:         obj.Size,
			Owners:       ownerOf(obj),
		})
	}
	return out, nil
}

// GetContent downloads at most maxFetchBytes of the object body.
func (s *Store) GetContent(ctx context.Context, fileID string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, fileID, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", fileID, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, maxFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", fileID, err)
	}
	return data, nil
}

// IsAvailable checks reachability and bucket existence.
func (s *Store) IsAvailable(ctx context.Context) bool {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	return err == nil && exists
}

// SaveSnapshot uploads the completed report as a JSON dump for offline
// inspection, implementing the SnapshotStore port.
func (s *Store) SaveSnapshot(ctx context.Context, report *domain.Report, scanID string) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	key := fmt.Sprintf("scans/%s/%s.json", sanitizeTarget(report.TargetID), scanID)
	_, err = s.client.PutObject(ctx, s.bucketName, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", err
	}

	// URL publik (jika bucket public), kalau private harus generate presigned URL
	url := fmt.Sprintf("http://%s/%s/%s", s.client.EndpointURL().Host, s.bucketName, key)
	return url, nil
}

func folderPrefix(folderID string) string {
	if folderID == "" || folderID == DriveRoot {
		return ""
	}
	return strings.TrimSuffix(folderID, "/") + "/"
}

func sanitizeTarget(targetID string) string {
	if targetID == "" {
		return DriveRoot
	}
	return strings.ReplaceAll(targetID, "/", "_")
}

func ownerOf(obj minio.ObjectInfo) []string {
	if obj.Owner.DisplayName == "" {
		return nil
	}
	return []string{obj.Owner.DisplayName}
}
