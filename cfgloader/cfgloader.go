// Package cfgloader provides a simple way to load and validate configuration at the start of an application.
package cfgloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"slices"

	"github.com/code19m/errx"
	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/mediasniff/logger"
	"github.com/rise-and-shine/mediasniff/val"
)

const (
	EnvProduction = "production"
	EnvStaging    = "staging"
	EnvDev        = "dev"
	EnvLocal      = "local"
	EnvTest       = "test"
)

// Error codes returned by Load.
const (
	CodeInvalidEnvironment = "CONFIG_INVALID_ENVIRONMENT"
	CodeConfigNotFound     = "CONFIG_NOT_FOUND"
	CodeConfigInvalid      = "CONFIG_INVALID"
)

// Load reads, expands, defaults and validates configuration of type T.
//
// Unless WithPath is given, the file is ./config/${ENVIRONMENT}.yaml and ENVIRONMENT
// must be one of production, staging, dev, local, test. A .env file in the working
// directory is loaded first when present, and ${VAR} references in the YAML are
// expanded from the environment.
//
// Struct tags:
//
//	type Config struct {
//	    Endpoint  string `yaml:"endpoint" validate:"required"`
//	    Region    string `yaml:"region" default:"us-east-1"`
//	    SecretKey string `yaml:"secret_key" mask:"true"` // printed as ****
//	}
//
// Defaults are applied after unmarshalling, so only zero-valued fields receive them.
func Load[T any](opts ...Option) (T, error) {
	var config T

	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}

	if reflect.ValueOf(&config).Elem().Kind() == reflect.Ptr {
		return config, errx.New("[cfgloader]: type parameter must not be a pointer")
	}

	_ = godotenv.Load()

	path := o.Path
	if path == "" {
		env, err := defineEnvironment()
		if err != nil {
			return config, err
		}
		path = buildConfigPath(env)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, errx.New(
			"[cfgloader]: config file not found",
			errx.WithCode(CodeConfigNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"path": path}),
		)
	}
	if err != nil {
		return config, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}

	data = []byte(os.ExpandEnv(string(data)))

	if err = yaml.Unmarshal(data, &config); err != nil {
		return config, errx.New(
			"[cfgloader]: failed to unmarshal config file",
			errx.WithCode(CodeConfigInvalid),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"path": path, "error": err.Error()}),
		)
	}

	if err = defaults.Set(&config); err != nil {
		return config, errx.Wrap(err, errx.WithCode(CodeConfigInvalid))
	}

	if err = val.ValidateSchema(config); err != nil {
		return config, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}

	if !o.Silent {
		printConfig(path, config)
	}

	return config, nil
}

// MustLoad is like Load but logs the error and exits the process on failure.
func MustLoad[T any](opts ...Option) T {
	config, err := Load[T](opts...)
	if err != nil {
		logger.Named("cfgloader").Errorx(err)
		os.Exit(1)
	}
	return config
}

func defineEnvironment() (string, error) {
	env := os.Getenv("ENVIRONMENT")
	if !slices.Contains([]string{EnvProduction, EnvStaging, EnvDev, EnvLocal, EnvTest}, env) {
		return "", errx.New(
			"[cfgloader]: ENVIRONMENT env variable is not set or invalid. Choices are: production, staging, dev, local, test",
			errx.WithCode(CodeInvalidEnvironment),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{"environment": env}),
		)
	}
	return env, nil
}

func buildConfigPath(env string) string {
	return fmt.Sprintf("./config/%s.yaml", env)
}
