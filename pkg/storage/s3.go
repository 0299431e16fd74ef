package storage

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/brimdata/zavro/pkg/s3io"
	"github.com/brimdata/zavro/zqe"
)

type S3Engine struct {
	client s3iface.S3API
}

var _ Engine = (*S3Engine)(nil)
var _ Sizer = (*s3io.Reader)(nil)

func NewS3() *S3Engine {
	return NewS3WithConfig(nil)
}

func NewS3WithConfig(cfg *aws.Config) *S3Engine {
	return &S3Engine{client: s3io.NewClient(cfg)}
}

func NewS3WithClient(client s3iface.S3API) *S3Engine {
	return &S3Engine{client: client}
}

func (s *S3Engine) Get(ctx context.Context, u *URI) (Reader, error) {
	r, err := s3io.NewReader(ctx, u.String(), s.client)
	if err != nil {
		return nil, wrapErr(u, err)
	}
	return r, nil
}

func (s *S3Engine) Size(ctx context.Context, u *URI) (int64, error) {
	info, err := s3io.Stat(ctx, u.String(), s.client)
	return info.Size, wrapErr(u, err)
}

func wrapErr(u *URI, err error) error {
	if err != nil && s3io.IsNotFound(err) {
		return zqe.E(zqe.NotFound, "%s: not found", u)
	}
	return err
}
