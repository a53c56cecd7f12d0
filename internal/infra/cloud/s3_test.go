// Where: internal/infra/cloud/s3_test.go
// What: Tests for the deployment artifact store.
// Why: Uploaded keys must land under the deployment prefix the template references.
package cloud

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type fakeS3 struct {
	puts  map[string]string
	pages []*s3.ListObjectsV2Output
	calls int
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.puts == nil {
		f.puts = map[string]string{}
	}
	f.puts[*in.Bucket+"/"+*in.Key] = string(data)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, _ *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func TestUploadDirUsesKeyPrefix(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{"a.json": "A", "b.zip": "B"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	fake := &fakeS3{}
	store, err := NewArtifactStore(fake, "bucket")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	keys, err := store.UploadDir(context.Background(), dir, "serverless/orders/dev/1")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	want := []string{"serverless/orders/dev/1/a.json", "serverless/orders/dev/1/b.zip"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("unexpected keys: %v", keys)
	}
	if fake.puts["bucket/serverless/orders/dev/1/b.zip"] != "B" {
		t.Fatalf("unexpected uploads: %v", fake.puts)
	}
}

func TestListDeploymentsPaginates(t *testing.T) {
	fake := &fakeS3{pages: []*s3.ListObjectsV2Output{
		{
			CommonPrefixes:        []s3types.CommonPrefix{{Prefix: aws.String("serverless/orders/dev/2/")}},
			IsTruncated:           aws.Bool(true),
			NextContinuationToken: aws.String("next"),
		},
		{
			CommonPrefixes: []s3types.CommonPrefix{{Prefix: aws.String("serverless/orders/dev/1/")}},
			IsTruncated:    aws.Bool(false),
		},
	}}
	store, _ := NewArtifactStore(fake, "bucket")
	names, err := store.ListDeployments(context.Background(), "serverless/orders/dev")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"1", "2"}) {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestNewArtifactStoreRequiresBucket(t *testing.T) {
	if _, err := NewArtifactStore(&fakeS3{}, " "); err == nil {
		t.Fatalf("expected bucket error")
	}
}
