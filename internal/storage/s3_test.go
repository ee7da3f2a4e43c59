package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/MrSnakeDoc/startpage/internal/domain"
)

type fakeObjects struct {
	objects map[string][]byte
	getErr  error
	headErr error
	puts    []*s3.PutObjectInput
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	return &s3.HeadBucketOutput{}, f.headErr
}

type fakeUploader struct {
	objects *fakeObjects
}

func (u *fakeUploader) Upload(ctx context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if _, err := u.objects.PutObject(ctx, in); err != nil {
		return nil, err
	}
	return &manager.UploadOutput{Key: in.Key}, nil
}

func newTestS3(cfg domain.S3Config) (*S3Adapter, *fakeObjects) {
	objects := &fakeObjects{objects: map[string][]byte{}}
	cfg = *domain.StorageConfig{Type: domain.StorageS3, S3: &cfg}.WithDefaults().S3
	a := newS3Adapter(objects, &fakeUploader{objects: objects}, cfg, Options{
		Now: func() time.Time { return time.UnixMilli(42) },
	})
	return a, objects
}

func TestS3LoadMissingKey(t *testing.T) {
	a, _ := newTestS3(domain.S3Config{Endpoint: "http://minio:9000", Bucket: "b"})

	doc, err := a.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc != nil {
		t.Errorf("Load() = %+v, want nil for a missing key", doc)
	}
}

func TestS3NotFoundCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"typed NoSuchKey", &types.NoSuchKey{}, true},
		{"typed NotFound", &types.NotFound{}, true},
		{"generic NoSuchKey code", &smithy.GenericAPIError{Code: "NoSuchKey"}, true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"plain error", errors.New("dial tcp: refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNoSuchKey(tt.err); got != tt.want {
				t.Errorf("isNoSuchKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestS3SaveAndLoad(t *testing.T) {
	a, objects := newTestS3(domain.S3Config{Endpoint: "http://minio:9000", Bucket: "b", Key: "start/data.json"})
	ctx := context.Background()

	if err := a.Save(ctx, testDoc()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if aws.ToString(objects.puts[0].ContentType) != "application/json" {
		t.Errorf("ContentType = %q", aws.ToString(objects.puts[0].ContentType))
	}

	doc, err := a.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc == nil || !domain.Equal(*doc, testDoc()) {
		t.Errorf("Load() = %+v, want saved document", doc)
	}
}

func TestS3LoadErrors(t *testing.T) {
	a, objects := newTestS3(domain.S3Config{Endpoint: "http://minio:9000", Bucket: "b"})

	objects.objects["data.json"] = []byte("{broken")
	doc, err := a.Load(context.Background())
	if err != nil || doc != nil {
		t.Errorf("Load() = %v, %v; want nil, nil for unparsable content", doc, err)
	}

	for _, content := range []string{"null", "{}"} {
		objects.objects["data.json"] = []byte(content)
		if doc, err := a.Load(context.Background()); err != nil || doc != nil {
			t.Errorf("Load(%s) = %v, %v; want nil, nil", content, doc, err)
		}
	}

	objects.getErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}
	if _, err := a.Load(context.Background()); err == nil {
		t.Error("Load() should surface access errors")
	}
}

func TestS3TestConnection(t *testing.T) {
	a, objects := newTestS3(domain.S3Config{Endpoint: "http://minio:9000", Bucket: "b"})
	if err := a.TestConnection(context.Background()); err != nil {
		t.Errorf("TestConnection() error = %v", err)
	}
	objects.headErr = &types.NotFound{}
	if err := a.TestConnection(context.Background()); err == nil {
		t.Error("TestConnection() should fail when the bucket is missing")
	}
}

func TestS3UploadURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.S3Config
		want string
	}{
		{
			name: "public base url",
			cfg:  domain.S3Config{Endpoint: "http://minio:9000", Bucket: "b", PublicURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/wallpapers/42-sunset.jpg",
		},
		{
			name: "endpoint fallback",
			cfg:  domain.S3Config{Endpoint: "http://minio:9000/", Bucket: "b"},
			want: "http://minio:9000/b/wallpapers/42-sunset.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, objects := newTestS3(tt.cfg)

			var last int64
			url, err := a.UploadFile(context.Background(), strings.NewReader("jpeg"), 4, "sunset.jpg", "image/jpeg",
				func(sent, _ int64) { last = sent })
			if err != nil {
				t.Fatalf("UploadFile() error = %v", err)
			}
			if url != tt.want {
				t.Errorf("UploadFile() = %q, want %q", url, tt.want)
			}
			if string(objects.objects["wallpapers/42-sunset.jpg"]) != "jpeg" {
				t.Error("asset not stored under wallpapers/")
			}
			if last != 4 {
				t.Errorf("progress ended at %d, want 4", last)
			}
		})
	}
}
