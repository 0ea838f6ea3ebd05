package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// ErrInvalidS3URI is returned for s3:// names without both a bucket and a key.
var ErrInvalidS3URI = errors.New("source: invalid s3 uri")

// S3API is the subset of the S3 client used to fetch objects.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Opener fetches s3://bucket/key objects into memory.
type S3Opener struct {
	client S3API
}

var _ Opener = (*S3Opener)(nil)

// NewS3Opener returns an opener using client.
func NewS3Opener(client S3API) *S3Opener {
	return &S3Opener{client: client}
}

// NewDefaultS3Opener builds a client from the default AWS configuration chain
// (environment, shared config files, instance metadata).
func NewDefaultS3Opener(ctx context.Context) (*S3Opener, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return NewS3Opener(s3.NewFromConfig(cfg)), nil
}

// Open implements Opener.
func (o *S3Opener) Open(ctx context.Context, name string) (Buffer, error) {
	bucket, key, err := ParseS3URI(name)
	if err != nil {
		return nil, openError(name, err)
	}

	out, err := o.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, openError(name, err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if out.ContentLength != nil && *out.ContentLength > 0 {
		buf.Grow(int(*out.ContentLength))
	}
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, openError(name, err)
	}

	return memBuffer(buf.Bytes()), nil
}

// ParseS3URI splits s3://bucket/key into its bucket and key.
func ParseS3URI(name string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(name, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidS3URI, name)
	}

	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidS3URI, name)
	}

	return bucket, key, nil
}
