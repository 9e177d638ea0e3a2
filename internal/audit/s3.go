package audit

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	now = time.Now
)

// S3Settings locates the archive bucket.
type S3Settings struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

// NewS3Client builds an S3 client for an S3-compatible endpoint.
func NewS3Client(ctx context.Context, st S3Settings) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(st.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			st.AccessKey,
			st.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if st.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(st.BaseEndpoint)
		}
		o.UsePathStyle = true
	}), nil
}

// Uploader is the part of *s3.Client the archive uses.
type Uploader interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive buffers audit lines and uploads them as one object per batch.
type S3Archive struct {
	client    Uploader
	bucket    string
	prefix    string
	batchSize int

	mu  sync.Mutex
	buf []string
}

func NewS3Archive(client Uploader, bucket, prefix string, batchSize int) *S3Archive {
	if batchSize < 1 {
		batchSize = 1
	}
	return &S3Archive{
		client:    client,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		batchSize: batchSize,
	}
}

// Write buffers the record and uploads the batch once it is full.
func (a *S3Archive) Write(ctx context.Context, r Record) error {
	if r.Time.IsZero() {
		r.Time = now()
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.buf = append(a.buf, r.Time.UTC().Format(time.RFC3339)+" "+r.String())
	if len(a.buf) < a.batchSize {
		return nil
	}
	return a.flushLocked(ctx)
}

// Flush uploads whatever is buffered.
func (a *S3Archive) Flush(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flushLocked(ctx)
}

// Pending is the number of buffered lines.
func (a *S3Archive) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buf)
}

// flushLocked keeps the buffer when the upload fails so the next flush
// retries it.
func (a *S3Archive) flushLocked(ctx context.Context) error {
	if len(a.buf) == 0 {
		return nil
	}
	body := strings.Join(a.buf, "\n") + "\n"
	key := a.objectKey()

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader([]byte(body)),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return fmt.Errorf("audit upload %s: %w", key, err)
	}
	a.buf = a.buf[:0]
	return nil
}

func (a *S3Archive) objectKey() string {
	d := now()
	key := fmt.Sprintf("%d/%d/%d/%v.log", d.Year(), d.Month(), d.Day(), uuid.New())
	if a.prefix == "" {
		return key
	}
	return a.prefix + "/" + key
}
