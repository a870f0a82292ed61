package backup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the slice of the S3 client the uploader needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader ships snapshot files to a bucket under backups/.
type Uploader struct {
	client PutObjectAPI
	bucket string
	now    func() time.Time
}

// NewS3Uploader builds an uploader from the default AWS credential chain.
func NewS3Uploader(ctx context.Context, region, bucket string) (*Uploader, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewUploader(s3.NewFromConfig(cfg), bucket), nil
}

// NewUploader wraps an existing client.
func NewUploader(client PutObjectAPI, bucket string) *Uploader {
	return &Uploader{client: client, bucket: bucket, now: time.Now}
}

// Upload puts the file at path into the bucket and returns its key.
func (u *Uploader) Upload(ctx context.Context, path, checksum string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	key := fmt.Sprintf("backups/%s/%s", u.now().UTC().Format("2006-01-02"), filepath.Base(path))
	in := &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/vnd.sqlite3"),
	}
	if checksum != "" {
		in.Metadata = map[string]string{"sha256": checksum}
	}
	if _, err := u.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("upload %s to s3://%s: %w", key, u.bucket, err)
	}
	return key, nil
}
