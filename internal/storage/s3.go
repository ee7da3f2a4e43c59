package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/MrSnakeDoc/startpage/internal/domain"
	"github.com/MrSnakeDoc/startpage/internal/logger"
	"github.com/MrSnakeDoc/startpage/internal/utils"
)

const s3WallpaperPrefix = "wallpapers"

// objectAPI is the part of *s3.Client the adapter uses.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// uploaderAPI is the part of *manager.Uploader the adapter uses.
type uploaderAPI interface {
	Upload(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Adapter keeps the document as one object in an S3-compatible bucket.
// Saves are unconditional PUTs: last writer wins.
type S3Adapter struct {
	objects  objectAPI
	uploader uploaderAPI
	cfg      domain.S3Config
	opts     Options
	log      logger.Logger
}

var (
	_ Adapter          = (*S3Adapter)(nil)
	_ ConnectionTester = (*S3Adapter)(nil)
	_ Uploader         = (*S3Adapter)(nil)
)

// NewS3Adapter builds a path-style client against the configured endpoint
// with static credentials.
func NewS3Adapter(ctx context.Context, cfg domain.S3Config, opts Options) (*S3Adapter, error) {
	opts = opts.withDefaults()

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		config.WithHTTPClient(opts.HTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("s3: failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return newS3Adapter(client, manager.NewUploader(client), cfg, opts), nil
}

func newS3Adapter(objects objectAPI, uploader uploaderAPI, cfg domain.S3Config, opts Options) *S3Adapter {
	opts = opts.withDefaults()
	return &S3Adapter{objects: objects, uploader: uploader, cfg: cfg, opts: opts, log: opts.Logger}
}

func (a *S3Adapter) Type() domain.StorageType { return domain.StorageS3 }

func (a *S3Adapter) Load(ctx context.Context) (*domain.DataSchema, error) {
	out, err := a.objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(a.cfg.Key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("s3: failed to read %s: %w", a.location(), err)
	}
	defer utils.Close(out.Body)

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3: failed to read %s: %w", a.location(), err)
	}
	return decodeRemote(a.log, a.location(), data), nil
}

func (a *S3Adapter) Save(ctx context.Context, doc domain.DataSchema) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}

	_, err = a.objects.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(a.cfg.Bucket),
		Key:          aws.String(a.cfg.Key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return fmt.Errorf("s3: failed to write %s: %w", a.location(), err)
	}

	a.log.Info("document saved", logger.String("location", a.location()), logger.Int("bytes", len(data)))
	return nil
}

func (a *S3Adapter) TestConnection(ctx context.Context) error {
	if _, err := a.objects.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.cfg.Bucket)}); err != nil {
		return fmt.Errorf("s3: cannot access bucket %s at %s: %w", a.cfg.Bucket, a.cfg.Endpoint, err)
	}
	return nil
}

// UploadFile streams the asset through the multipart upload manager.
func (a *S3Adapter) UploadFile(ctx context.Context, r io.Reader, size int64, filename, contentType string, onProgress ProgressFunc) (string, error) {
	key := path.Join(s3WallpaperPrefix, assetName(a.opts.Now(), filename))

	in := &s3.PutObjectInput{
		Bucket: aws.String(a.cfg.Bucket),
		Key:    aws.String(key),
		Body:   &countingReader{r: r, total: size, onProgress: onProgress},
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := a.uploader.Upload(ctx, in); err != nil {
		return "", fmt.Errorf("s3: failed to upload %s: %w", key, err)
	}
	return a.PublicURL(key), nil
}

// PublicURL is publicUrl/key when a public base is configured, otherwise
// endpoint/bucket/key.
func (a *S3Adapter) PublicURL(key string) string {
	if a.cfg.PublicURL != "" {
		return a.cfg.PublicURL + "/" + key
	}
	return a.cfg.Endpoint + "/" + a.cfg.Bucket + "/" + key
}

func (a *S3Adapter) location() string {
	return a.cfg.Bucket + "/" + a.cfg.Key
}

// isNoSuchKey reports whether err means "the object is not there".
func isNoSuchKey(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
