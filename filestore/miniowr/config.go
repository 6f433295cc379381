package miniowr

// Config defines the configuration options for MinIO client.
type Config struct {
	// Endpoint is the MinIO server endpoint (e.g., "localhost:9000").
	Endpoint string `yaml:"endpoint" validate:"required,hostname_port"`

	// AccessKey is the access key for authentication.
	AccessKey string `yaml:"access_key" validate:"required"`

	// SecretKey is the secret key for authentication.
	SecretKey string `yaml:"secret_key" validate:"required" mask:"true"`

	// Region is sent with every request. Setting it skips bucket location lookups.
	Region string `yaml:"region" default:"us-east-1"`

	// UseSSL enables HTTPS connection to MinIO server.
	UseSSL bool `yaml:"use_ssl" default:"false"`

	// PathStyle forces path-style bucket addressing.
	PathStyle bool `yaml:"path_style" default:"true"`

	// Buckets are created at startup when missing.
	Buckets []string `yaml:"buckets" validate:"dive,bucket_name"`
}
