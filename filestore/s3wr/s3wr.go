// Package s3wr provides an AWS SDK v2 implementation of the filestore.Store interface.
package s3wr

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/code19m/errx"

	"github.com/rise-and-shine/mediasniff/filestore"
	"github.com/rise-and-shine/mediasniff/logger"
	"github.com/rise-and-shine/mediasniff/val"
)

const (
	codeNoSuchKey          = "NoSuchKey"
	codeNotFound           = "NotFound"
	codeNoSuchBucket       = "NoSuchBucket"
	codeBucketAlreadyOwned = "BucketAlreadyOwnedByYou"
)

// Client implements the filestore.Store interface using the AWS S3 API.
type Client struct {
	client *s3.Client
	log    logger.Logger
}

// New creates a new S3 filestore client and creates the configured buckets that do
// not exist yet.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := val.ValidateSchema(cfg); err != nil {
		return nil, errx.Wrap(err)
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsConf, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errx.New("failed to load AWS config", errx.WithDetails(errx.D{"error": err.Error()}))
	}

	client := s3.NewFromConfig(awsConf, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// S3-compatible servers rarely understand the newer flexible checksums.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})

	c := &Client{
		client: client,
		log:    logger.Named("filestore.s3"),
	}

	for _, bucket := range cfg.Buckets {
		if err = c.EnsureBucket(ctx, bucket); err != nil {
			return nil, errx.Wrap(err)
		}
	}

	return c, nil
}

// EnsureBucket creates bucket when it does not exist.
func (c *Client) EnsureBucket(ctx context.Context, bucket string) error {
	ref := filestore.Ref(bucket, "")

	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
	if err == nil {
		return nil
	}
	if !isStatus(err, http.StatusNotFound) {
		return filestore.Classify(ctx, "bucket-exists", ref, err)
	}

	_, err = c.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
	if err != nil && apiCode(err) != codeBucketAlreadyOwned {
		return filestore.Classify(ctx, "make-bucket", ref, err)
	}
	c.log.With("bucket", bucket).Info("bucket created")
	return nil
}

// Put stores the content under ref. Content type is detected from the content.
func (c *Client) Put(ctx context.Context, ref filestore.BlobRef, reader io.Reader) (*filestore.FileInfo, error) {
	if err := ref.Validate(); err != nil {
		return nil, errx.Wrap(err)
	}

	data, contentType, err := filestore.ReadContent(reader)
	if err != nil {
		return nil, filestore.Classify(ctx, "put", ref, err)
	}

	out, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(ref.Bucket),
		Key:           aws.String(ref.Key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, c.wrapS3Error(ctx, "put", ref, err)
	}

	return &filestore.FileInfo{
		Ref:         ref,
		Size:        int64(len(data)),
		ContentType: contentType,
		ETag:        aws.ToString(out.ETag),
	}, nil
}

// Get opens the object stored under ref.
func (c *Client) Get(ctx context.Context, ref filestore.BlobRef) (*filestore.File, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	})
	if err != nil {
		return nil, c.wrapS3Error(ctx, "get", ref, err)
	}

	return &filestore.File{
		Content: out.Body,
		Info: filestore.FileInfo{
			Ref:          ref,
			Size:         aws.ToInt64(out.ContentLength),
			ContentType:  aws.ToString(out.ContentType),
			ETag:         aws.ToString(out.ETag),
			LastModified: aws.ToTime(out.LastModified),
		},
	}, nil
}

// Delete removes the object stored under ref. A missing key is not an error.
func (c *Client) Delete(ctx context.Context, ref filestore.BlobRef) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	})
	if err != nil {
		err = c.wrapS3Error(ctx, "delete", ref, err)
		if filestore.IsNotFound(err) {
			return nil
		}
		return err
	}
	return nil
}

// Exists checks if an object is stored under ref.
func (c *Client) Exists(ctx context.Context, ref filestore.BlobRef) (bool, error) {
	_, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(ref.Bucket),
		Key:    aws.String(ref.Key),
	})
	if err != nil {
		err = c.wrapS3Error(ctx, "exists", ref, err)
		if filestore.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// wrapS3Error converts SDK errors to filestore errors.
func (c *Client) wrapS3Error(ctx context.Context, op string, ref filestore.BlobRef, err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	switch {
	case errors.As(err, &noSuchKey), errors.As(err, &notFound):
		return filestore.NewNotFoundError(ref)
	}

	switch apiCode(err) {
	case codeNoSuchKey, codeNotFound:
		return filestore.NewNotFoundError(ref)
	case codeNoSuchBucket:
		return filestore.BucketNotFound(ref)
	}
	return filestore.Classify(ctx, op, ref, err)
}

func apiCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}

func isStatus(err error, status int) bool {
	var respErr interface{ HTTPStatusCode() int }
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == status
}
