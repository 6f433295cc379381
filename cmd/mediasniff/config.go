package main

import (
	"context"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/mediasniff/filestore"
	"github.com/rise-and-shine/mediasniff/filestore/boltwr"
	"github.com/rise-and-shine/mediasniff/filestore/miniowr"
	"github.com/rise-and-shine/mediasniff/filestore/s3wr"
	"github.com/rise-and-shine/mediasniff/identify"
	"github.com/rise-and-shine/mediasniff/logger"
	"github.com/rise-and-shine/mediasniff/tracing"
)

const (
	driverMinio = "minio"
	driverS3    = "s3"
	driverBolt  = "bolt"
)

// Config is the CLI configuration file layout.
type Config struct {
	Logger   logger.Config   `yaml:"logger"`
	Tracing  tracing.Config  `yaml:"tracing"`
	Identify identify.Config `yaml:"identify"`
	Store    StoreConfig     `yaml:"store"`
}

// StoreConfig selects and configures the blob store. Only the section named by
// Driver has to be present.
type StoreConfig struct {
	Driver string          `yaml:"driver" default:"bolt" validate:"oneof=minio s3 bolt"`
	Minio  *miniowr.Config `yaml:"minio"  validate:"required_if=Driver minio"`
	S3     *s3wr.Config    `yaml:"s3"     validate:"required_if=Driver s3"`
	Bolt   *boltwr.Config  `yaml:"bolt"   validate:"required_if=Driver bolt"`
}

type bucketCreator interface {
	EnsureBucket(ctx context.Context, bucket string) error
}

// openStore builds the store named by cfg.Driver. The returned close function
// releases resources held by the store.
func openStore(ctx context.Context, cfg StoreConfig) (filestore.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case driverMinio:
		client, err := miniowr.New(ctx, *cfg.Minio)
		if err != nil {
			return nil, nil, errx.Wrap(err)
		}
		return client, noop, nil
	case driverS3:
		client, err := s3wr.New(ctx, *cfg.S3)
		if err != nil {
			return nil, nil, errx.Wrap(err)
		}
		return client, noop, nil
	case driverBolt:
		client, err := boltwr.Open(ctx, *cfg.Bolt)
		if err != nil {
			return nil, nil, errx.Wrap(err)
		}
		return client, client.Close, nil
	default:
		return nil, nil, errx.New("unknown store driver",
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"driver": cfg.Driver}),
		)
	}
}
