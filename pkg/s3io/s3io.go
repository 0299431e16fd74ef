// Package s3io reads objects from S3 as streams.
package s3io

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

var ErrInvalidS3Path = errors.New("path is not a valid s3 location")

// NewClient returns an S3 client configured from cfg and the environment.
func NewClient(cfg *aws.Config) s3iface.S3API {
	if cfg == nil {
		cfg = aws.NewConfig()
	}
	sess := session.Must(session.NewSessionWithOptions(session.Options{
		Config:            *cfg,
		SharedConfigState: session.SharedConfigEnable,
	}))
	return s3.New(sess)
}

func IsS3Path(path string) bool {
	_, _, err := parsePath(path)
	return err == nil
}

func parsePath(path string) (bucket, key string, err error) {
	u, err := url.Parse(path)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", ErrInvalidS3Path
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

type Info struct {
	Size int64
}

func Stat(ctx context.Context, path string, client s3iface.S3API) (Info, error) {
	bucket, key, err := parsePath(path)
	if err != nil {
		return Info{}, err
	}
	out, err := client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return Info{}, err
	}
	return Info{Size: aws.Int64Value(out.ContentLength)}, nil
}
