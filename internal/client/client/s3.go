package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/mediavault/internal/client/metrics"
	"github.com/dmitrijs2005/mediavault/internal/logging"
)

// objectGetter is the part of *s3.Client that S3Source uses.
type objectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Options locates a bucket holding a mirror of the server's data directory.
type S3Options struct {
	Bucket string
	// Prefix is prepended to every object key, e.g. "data/".
	Prefix string
	Region string
	// BaseEndpoint overrides the AWS endpoint (MinIO and friends). Path-style
	// addressing is used when it is set.
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// S3Source implements DataSource on top of S3-compatible storage.
type S3Source struct {
	api     objectGetter
	bucket  string
	prefix  string
	logger  logging.Logger
	metrics *metrics.Collector
}

// NewS3Source builds an S3 client from opts. Static credentials are used when
// an access key is given; otherwise the default AWS credential chain applies.
func NewS3Source(ctx context.Context, opts S3Options, logger logging.Logger, m *metrics.Collector) (*S3Source, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	api := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Source(api, opts.Bucket, opts.Prefix, logger, m), nil
}

func newS3Source(api objectGetter, bucket, prefix string, logger logging.Logger, m *metrics.Collector) *S3Source {
	return &S3Source{api: api, bucket: bucket, prefix: prefix, logger: logger, metrics: m}
}

func (s *S3Source) objectKey(p string) string {
	if s.prefix == "" {
		return path.Clean(p)
	}
	return path.Join(s.prefix, p)
}

// Fetch implements DataSource with GetObject(bucket, prefix+path).
func (s *S3Source) Fetch(ctx context.Context, p string) ([]byte, error) {
	key := s.objectKey(p)
	start := time.Now()

	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(key),
		ResponseCacheControl: aws.String("no-cache"),
	})
	if err != nil {
		err = s.mapError(key, err)
		s.metrics.ObserveRequest("s3_fetch", outcomeOf(err), time.Since(start))
		s.logger.Debug(ctx, "s3 fetch failed", "bucket", s.bucket, "key", key, "error", err)
		return nil, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		s.metrics.ObserveRequest("s3_fetch", metrics.OutcomeError, time.Since(start))
		return nil, fmt.Errorf("%w: reading s3://%s/%s: %w", ErrNetworkFailure, s.bucket, key, err)
	}

	s.metrics.ObserveRequest("s3_fetch", metrics.OutcomeOK, time.Since(start))
	return data, nil
}

func (s *S3Source) mapError(key string, err error) error {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return &StatusError{Method: http.MethodGet, Path: key, StatusCode: http.StatusNotFound}
	}

	var withStatus interface{ HTTPStatusCode() int }
	if errors.As(err, &withStatus) {
		return &StatusError{Method: http.MethodGet, Path: key, StatusCode: withStatus.HTTPStatusCode(), Body: err.Error()}
	}

	return fmt.Errorf("%w: s3://%s/%s: %w", ErrNetworkFailure, s.bucket, key, err)
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, ErrServerRejected):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
