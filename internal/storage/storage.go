// Package storage replicates snapshot archives to S3-compatible object
// storage. The uploader is strictly additive: a failed upload never
// deletes or invalidates the local archive, which remains the durable
// fallback.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/gabriel-vasile/mimetype"
)

// DefaultContentType is used when content type detection fails.
const DefaultContentType = "application/octet-stream"

// S3API is the narrow slice of the AWS S3 client used by the uploader.
// Tests substitute a fake; production uses *s3.Client.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Target identifies the remote destination for one run. It is
// recomputed every run and never persisted.
type Target struct {
	Bucket string
	Prefix string
	Key    string
}

// URI returns the canonical s3:// URI for the target.
func (t Target) URI() string {
	return fmt.Sprintf("s3://%s/%s", t.Bucket, t.Key)
}

// Client uploads snapshot archives to a configured bucket.
type Client struct {
	api    S3API
	bucket string
	prefix string
}

// New constructs an upload client for the given bucket and key prefix.
// It resolves AWS configuration and credentials eagerly so that
// "bucket configured but capability broken" surfaces as an explicit
// ErrClientUnavailable before anything is sent, rather than as a vague
// mid-upload failure.
func New(ctx context.Context, bucket, prefix, region string) (*Client, error) {
	if bucket == "" {
		return nil, NewError("client", errors.New("bucket cannot be empty"))
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, NewError("client", fmt.Errorf("%w: %w", ErrClientUnavailable, err)).WithBucket(bucket)
	}

	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return nil, NewError("client", fmt.Errorf("%w: no resolvable credentials: %w", ErrClientUnavailable, err)).
			WithBucket(bucket)
	}

	return &Client{
		api:    s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// NewWithAPI constructs a client over an existing S3 API
// implementation. Used by tests and by callers that manage their own
// AWS configuration.
func NewWithAPI(api S3API, bucket, prefix string) *Client {
	return &Client{api: api, bucket: bucket, prefix: prefix}
}

// TargetFor computes the remote destination for an archive:
// key = prefix/tag/basename(archivePath).
func (c *Client) TargetFor(archivePath, tagName string) Target {
	return Target{
		Bucket: c.bucket,
		Prefix: c.prefix,
		Key:    path.Join(c.prefix, tagName, filepath.Base(archivePath)),
	}
}

// Upload copies the archive to the bucket and returns the canonical
// remote URI. The local file is never touched beyond reading.
func (c *Client) Upload(ctx context.Context, archivePath, tagName string) (string, error) {
	target := c.TargetFor(archivePath, tagName)

	f, err := os.Open(archivePath)
	if err != nil {
		return "", NewError("upload", err).WithBucket(c.bucket).WithKey(target.Key)
	}
	defer f.Close()

	_, err = c.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(target.Key),
		Body:        f,
		ContentType: aws.String(detectContentType(archivePath)),
	})
	if err != nil {
		return "", NewError("upload", classify(err)).WithBucket(c.bucket).WithKey(target.Key)
	}

	return target.URI(), nil
}

// classify maps AWS API errors onto the package sentinels so callers
// can distinguish credential problems from transient network failures.
func classify(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken", "TokenRefreshRequired":
			return fmt.Errorf("%w: %w", ErrAccessDenied, err)
		}
	}
	return err
}

// detectContentType sniffs the archive content type, falling back to
// the generic default.
func detectContentType(archivePath string) string {
	mt, err := mimetype.DetectFile(archivePath)
	if err != nil {
		return DefaultContentType
	}
	return mt.String()
}
