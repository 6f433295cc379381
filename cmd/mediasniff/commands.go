package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/code19m/errx"
	"github.com/spf13/cobra"

	"github.com/rise-and-shine/mediasniff/filestore"
	"github.com/rise-and-shine/mediasniff/filestore/fakes3"
	"github.com/rise-and-shine/mediasniff/hasher"
	"github.com/rise-and-shine/mediasniff/logger"
	"github.com/rise-and-shine/mediasniff/sniff"
)

// storeCommand marks cmd as needing the store and releases the store after it runs,
// whether or not it succeeds.
func storeCommand(a *app, cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[needsStore] = "true"

	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if closeErr := a.close(cmd.Context()); err == nil {
				err = closeErr
			}
		}()
		return run(cmd, args)
	}
	return cmd
}

func newIdentifyCmd(a *app) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "identify <bucket> <key> [key...]",
		Short: "Print the media type of stored objects",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, keys := args[0], args[1:]
			out := cmd.OutOrStdout()

			if len(keys) == 1 && !verbose {
				mt, err := a.identifier.Identify(cmd.Context(), filestore.Ref(bucket, keys[0]))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, mt.String())
				return err
			}

			refs := make([]filestore.BlobRef, 0, len(keys))
			for _, key := range keys {
				refs = append(refs, filestore.Ref(bucket, key))
			}

			failed := 0
			for _, o := range a.identifier.IdentifyMany(cmd.Context(), refs) {
				if o.Err != nil {
					failed++
					printFailure(out, o.Ref.String(), o.Err)
					continue
				}
				printReport(out, o.Report, verbose)
			}
			if failed > 0 {
				return errx.New(fmt.Sprintf("%d of %d objects could not be identified", failed, len(refs)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print confidence, probe and stored content type")
	return storeCommand(a, cmd)
}

func newSniffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sniff <file> [file...]",
		Short: "Print the media type of local files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			chain := sniff.Default()

			for _, path := range args {
				in, err := openInput(path)
				if err != nil {
					return err
				}
				res, _, err := chain.DetectReader(in)
				_ = in.Close()
				if err != nil {
					return errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
				}
				printSniff(out, path, res)
			}
			return nil
		},
	}
}

func newPutCmd(a *app) *cobra.Command {
	var createBucket bool

	cmd := &cobra.Command{
		Use:   "put <bucket> <key> <file>",
		Short: "Upload a file (\"-\" reads stdin)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := filestore.Ref(args[0], args[1])

			if creator, ok := a.store.(bucketCreator); ok && createBucket {
				if err := creator.EnsureBucket(cmd.Context(), ref.Bucket); err != nil {
					return err
				}
			}

			in, err := openInput(args[2])
			if err != nil {
				return err
			}
			defer in.Close()

			info, err := a.store.Put(cmd.Context(), ref, in)
			if err != nil {
				return err
			}
			printStored(cmd.OutOrStdout(), info)
			return nil
		},
	}
	cmd.Flags().BoolVar(&createBucket, "create-bucket", false, "create the bucket when missing")
	return storeCommand(a, cmd)
}

func newGetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <bucket> <key>",
		Short: "Write an object to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := a.store.Get(cmd.Context(), filestore.Ref(args[0], args[1]))
			if err != nil {
				return err
			}
			defer file.Content.Close()

			etag, err := hasher.ETagReader(io.TeeReader(file.Content, cmd.OutOrStdout()))
			if err != nil {
				return err
			}
			return verifyETag(file.Info, etag)
		},
	}
	return storeCommand(a, cmd)
}

const codeETagMismatch = "ETAG_MISMATCH"

// verifyETag compares the digest of the downloaded bytes with the stored ETag.
// Multipart ETags ("<digest>-<parts>") are not content digests and are skipped.
func verifyETag(info filestore.FileInfo, computed string) error {
	if info.ETag == "" || strings.Contains(info.ETag, "-") || hasher.Match(info.ETag, computed) {
		return nil
	}
	return errx.New("downloaded content does not match the stored ETag",
		errx.WithCode(codeETagMismatch),
		errx.WithDetails(errx.D{
			"ref":      info.Ref.String(),
			"stored":   info.ETag,
			"computed": computed,
		}),
	)
}

func newDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <bucket> <key>",
		Short: "Delete an object. Deleting a missing object succeeds",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.Delete(cmd.Context(), filestore.Ref(args[0], args[1]))
		},
	}
	return storeCommand(a, cmd)
}

func newServeFakeCmd() *cobra.Command {
	var (
		addr    string
		buckets []string
	)

	cmd := &cobra.Command{
		Use:   "serve-fake",
		Short: "Run an in-memory S3-compatible server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := fakes3.Start(addr, buckets...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "serving fake S3 on %s (region %s)\n", srv.URL(), fakes3.Region)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case <-ctx.Done():
				logger.Info("shutting down fake S3 server")
				return srv.Close()
			case err = <-waitChan(srv):
				return err
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9000", "listen address")
	cmd.Flags().StringSliceVar(&buckets, "bucket", nil, "bucket to create at start (repeatable)")
	return cmd
}

func waitChan(srv *fakes3.Server) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- srv.Wait() }()
	return ch
}
