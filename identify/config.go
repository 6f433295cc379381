package identify

import "time"

// Config defines the behaviour of an Identifier.
type Config struct {
	// Timeout bounds one identification, including retries. Zero disables it.
	Timeout time.Duration `yaml:"timeout" default:"30s"`

	// RetryAttempts is the total number of tries for storage IO failures.
	RetryAttempts uint `yaml:"retry_attempts" default:"3" validate:"min=1,max=10"`

	// RetryDelay is the base delay between tries.
	RetryDelay time.Duration `yaml:"retry_delay" default:"100ms"`

	// Workers bounds the parallelism of IdentifyMany.
	Workers int `yaml:"workers" default:"4" validate:"min=1,max=256"`
}
