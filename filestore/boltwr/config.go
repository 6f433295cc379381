package boltwr

import "time"

// Config defines the configuration options for the embedded bolt store.
type Config struct {
	// Path is the database file. It is created when missing.
	Path string `yaml:"path" validate:"required"`

	// OpenTimeout bounds the wait for the file lock held by another process.
	OpenTimeout time.Duration `yaml:"open_timeout" default:"1s"`

	// Buckets are created at startup when missing.
	Buckets []string `yaml:"buckets" validate:"dive,bucket_name"`
}
