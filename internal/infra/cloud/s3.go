// Where: internal/infra/cloud/s3.go
// What: Deployment bucket artifact store.
// Why: Upload packaged artifacts under the deployment key prefix and list past deployments.
package cloud

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var errBucketRequired = errors.New("deployment bucket is required")

// S3API is the subset of the S3 client used by ArtifactStore.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// ArtifactStore writes and lists deployment artifacts in one bucket.
type ArtifactStore struct {
	client S3API
	bucket string
}

// NewArtifactStore binds client to bucket.
func NewArtifactStore(client S3API, bucket string) (*ArtifactStore, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errBucketRequired
	}
	if client == nil {
		return nil, fmt.Errorf("s3 client is nil")
	}
	return &ArtifactStore{client: client, bucket: bucket}, nil
}

// Bucket returns the bucket name.
func (s *ArtifactStore) Bucket() string {
	return s.bucket
}

// UploadDir uploads every regular file directly inside dir to keyPrefix.
// It returns the uploaded keys in name order.
func (s *ArtifactStore) UploadDir(ctx context.Context, dir, keyPrefix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read package dir: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key := path.Join(keyPrefix, entry.Name())
		if err := s.putFile(ctx, filepath.Join(dir, entry.Name()), key); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *ArtifactStore) putFile(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// ListDeployments returns the deployment directory names under prefix, oldest first.
func (s *ArtifactStore) ListDeployments(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	var names []string
	var token *string
	for {
		resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			Delimiter:         aws.String("/"),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list deployments: %w", err)
		}
		for _, cp := range resp.CommonPrefixes {
			if cp.Prefix == nil {
				continue
			}
			name := strings.TrimSuffix(strings.TrimPrefix(*cp.Prefix, prefix), "/")
			if name != "" {
				names = append(names, name)
			}
		}
		if resp.IsTruncated == nil || !*resp.IsTruncated {
			break
		}
		token = resp.NextContinuationToken
	}
	sort.Strings(names)
	return names, nil
}
