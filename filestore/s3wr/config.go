package s3wr

// Config defines the configuration options for the AWS S3 client.
type Config struct {
	// Region is the AWS region of the buckets.
	Region string `yaml:"region" default:"us-east-1" validate:"required"`

	// Endpoint overrides the AWS endpoint, e.g. "http://localhost:9000" for an
	// S3-compatible server. Empty means the regional AWS endpoint.
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`

	// AccessKey and SecretKey select static credentials. When empty the default
	// AWS credential chain (environment, shared config, instance role) is used.
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key" mask:"true"`

	// PathStyle forces path-style addressing, required by most S3-compatible servers.
	PathStyle bool `yaml:"path_style" default:"false"`

	// Buckets are created at startup when missing.
	Buckets []string `yaml:"buckets" validate:"dive,bucket_name"`
}
