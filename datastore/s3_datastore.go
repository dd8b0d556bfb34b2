package datastore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/danthegoodman1/bikeshare/utils"
	"github.com/rs/zerolog"
)

type (
	S3DataStore struct {
		session *session.Session
		// MaxElapsed bounds the retries of a single read
		MaxElapsed time.Duration
	}
)

func NewS3DataStore(region, endpoint string) (*S3DataStore, error) {
	s3Config := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	if endpoint != "" {
		s3Config.Endpoint = aws.String(endpoint)
		s3Config.S3ForcePathStyle = aws.Bool(true)
	}

	s3Session, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("error making new session: %w", err)
	}

	return &S3DataStore{
		session:    s3Session,
		MaxElapsed: time.Second * 30,
	}, nil
}

// ParseS3Location splits s3://bucket/key into bucket and key.
func ParseS3Location(location string) (bucket, key string, err error) {
	if !IsS3Location(location) {
		return "", "", ErrBadS3Location
	}
	rest := strings.TrimPrefix(location, S3Scheme)
	slash := strings.Index(rest, "/")
	if slash <= 0 || slash == len(rest)-1 {
		return "", "", fmt.Errorf("%w: %s", ErrBadS3Location, location)
	}
	return rest[:slash], rest[slash+1:], nil
}

func (sds *S3DataStore) ReadObject(ctx context.Context, location string) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	bucket, key, err := ParseS3Location(location)
	if err != nil {
		return nil, err
	}

	downloader := s3manager.NewDownloader(sds.session)

	var b []byte
	s := time.Now()
	err = utils.Retry(ctx, sds.MaxElapsed, func(ctx context.Context) error {
		buf := &aws.WriteAtBuffer{}
		_, err := downloader.DownloadWithContext(ctx, buf, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			var aerr awserr.Error
			if errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == s3.ErrCodeNoSuchBucket) {
				return fmt.Errorf("%w: %s", ErrObjectNotFound, location)
			}
			return fmt.Errorf("error downloading from s3: %w", err)
		}
		b = buf.Bytes()
		return nil
	})
	if err != nil {
		return nil, err
	}

	d := time.Since(s)
	logger.Debug().Str("bucket", bucket).Str("key", key).Int("bytes", len(b)).Int64("durationNS", d.Nanoseconds()).Str("durationHuman", d.String()).Msg("downloaded dataset from s3")

	return b, nil
}

func (sds *S3DataStore) Shutdown(context.Context) error {
	return nil
}
