package cfgloader

// Options holds configuration options for Load and MustLoad.
type Options struct {
	// Silent disables printing the loaded config.
	Silent bool

	// Path overrides the ./config/${ENVIRONMENT}.yaml lookup.
	Path string
}

// Option is a functional option for configuring Load behavior.
type Option func(*Options)

// WithSilent disables printing the loaded config.
func WithSilent() Option {
	return func(o *Options) {
		o.Silent = true
	}
}

// WithPath reads the configuration from path instead of the environment-based location.
// ENVIRONMENT is not required in that case.
func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}
