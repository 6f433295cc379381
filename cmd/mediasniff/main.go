// Command mediasniff identifies the media type of stored objects and local files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/code19m/errx"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rise-and-shine/mediasniff/cfgloader"
	"github.com/rise-and-shine/mediasniff/filestore"
	"github.com/rise-and-shine/mediasniff/identify"
	"github.com/rise-and-shine/mediasniff/logger"
	"github.com/rise-and-shine/mediasniff/meta"
	"github.com/rise-and-shine/mediasniff/tracing"
	"github.com/rise-and-shine/mediasniff/val"
)

const (
	serviceName    = "mediasniff"
	serviceVersion = "0.1.0"

	envPrefix = "MEDIASNIFF"

	// needsStore marks commands that load the config file and open the store.
	needsStore = "needs-store"
)

//nolint:gochecknoglobals // the process-wide logger can be installed only once.
var loggerOnce sync.Once

type app struct {
	v *viper.Viper

	cfg        Config
	store      filestore.Store
	identifier *identify.Identifier
	closers    []func(context.Context) error
}

func main() {
	meta.SetServiceInfo(serviceName, serviceVersion)
	ctx := meta.WithServiceInfo(context.Background())
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "mediasniff",
		Short:         "Identify media types of stored objects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[needsStore] == "" {
				return nil
			}
			return a.setup(cmd.Context())
		},
	}

	root.PersistentFlags().String("config", "", "config file (default ./config/${ENVIRONMENT}.yaml)")
	root.PersistentFlags().String("driver", "", "store driver override: minio|s3|bolt")
	root.PersistentFlags().Bool("print-config", false, "log the loaded config with secrets masked")
	a.bind("config", root.PersistentFlags().Lookup("config"))
	a.bind("print-config", root.PersistentFlags().Lookup("print-config"))
	a.bind("driver", root.PersistentFlags().Lookup("driver"))

	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		newIdentifyCmd(a),
		newSniffCmd(),
		newPutCmd(a),
		newGetCmd(a),
		newDeleteCmd(a),
		newServeFakeCmd(),
	)
	return root
}

func (a *app) bind(key string, flag *pflag.Flag) {
	if err := a.v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// setup loads the configuration and opens the store and the identifier. On failure
// whatever was already opened is released.
func (a *app) setup(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			_ = a.close(ctx)
		}
	}()

	var opts []cfgloader.Option
	if path := a.v.GetString("config"); path != "" {
		opts = append(opts, cfgloader.WithPath(path))
	}

	if !a.v.GetBool("print-config") {
		opts = append(opts, cfgloader.WithSilent())
	}

	cfg, err := cfgloader.Load[Config](opts...)
	if err != nil {
		return errx.Wrap(err)
	}
	if driver := a.v.GetString("driver"); driver != "" {
		cfg.Store.Driver = driver
		if err = val.ValidateSchema(cfg.Store); err != nil {
			return errx.Wrap(err)
		}
	}
	a.cfg = cfg

	loggerOnce.Do(func() { err = logger.SetGlobal(cfg.Logger) })
	if err != nil {
		return errx.Wrap(err)
	}

	shutdown, err := tracing.InitGlobalTracer(ctx, cfg.Tracing, serviceName, serviceVersion)
	if err != nil {
		return errx.Wrap(err)
	}
	a.closers = append(a.closers, shutdown)

	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return errx.Wrap(err)
	}
	a.store = store
	a.closers = append(a.closers, func(context.Context) error { return closeStore() })

	a.identifier, err = identify.New(store, nil, cfg.Identify)
	if err != nil {
		return errx.Wrap(err)
	}
	return nil
}

// close releases everything setup opened, newest first.
func (a *app) close(ctx context.Context) error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = errx.Wrap(err)
		}
	}
	a.closers = nil
	_ = logger.Sync()
	return firstErr
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}
	return f, nil
}
