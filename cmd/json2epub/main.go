package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Xunop/json2epub/internal/config"
	"github.com/Xunop/json2epub/internal/convert"
	"github.com/Xunop/json2epub/internal/epub"
	"github.com/Xunop/json2epub/internal/log"
	"github.com/Xunop/json2epub/internal/model"
	"github.com/Xunop/json2epub/internal/render"
	"github.com/Xunop/json2epub/internal/server"
	"github.com/Xunop/json2epub/internal/storage"
	"github.com/Xunop/json2epub/internal/version"
	"github.com/Xunop/json2epub/internal/worker"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile  string
	renderer *render.Renderer

	rootCmd = &cobra.Command{
		Use:           "json2epub",
		Short:         "json2epub converts JSON book documents into EPUB archives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(cfgFile, cmd.Flags()); err != nil {
				return err
			}
			log.Setup()

			var err error
			renderer, err = newRenderer(config.Opts)
			return err
		},
	}

	convertCmd = &cobra.Command{
		Use:   "convert <input.json> [output.epub]",
		Short: "Convert one book document",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := config.Opts.OutputFile
			if len(args) == 2 {
				output = args[1]
			}
			input, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "unable to read input")
			}

			stored, err := storage.StoreFile(output, func(w io.Writer) error {
				return convert.BuildTo(input, w, convertOptions()...)
			})
			if err != nil {
				return err
			}

			log.Info("Converted book",
				zap.String("input", args[0]),
				zap.String("output", stored.Path),
				zap.String("sha256", stored.Hash))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", stored.Path, humanize.Bytes(uint64(stored.Size)))
			return nil
		},
	}

	batchCmd = &cobra.Command{
		Use:   "batch <input.json>...",
		Short: "Convert several book documents, each next to its input",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs := make([]model.Job, 0, len(args))
			for i, input := range args {
				jobs = append(jobs, model.Job{
					ID:     i,
					Input:  input,
					Output: strings.TrimSuffix(input, filepath.Ext(input)) + ".epub",
					Status: model.JobStatusPending,
				})
			}

			opts := convertOptions()
			pool := worker.NewConvertPool(config.Opts.WorkerPoolSize, func(input []byte, w io.Writer) error {
				return convert.BuildTo(input, w, opts...)
			})
			done := pool.Run(jobs)

			out := cmd.OutOrStdout()
			for _, job := range done {
				if job.Status == model.JobStatusFailed {
					fmt.Fprintf(out, "%s: failed: %v\n", job.Input, job.Err)
					continue
				}
				fmt.Fprintf(out, "%s: %s in %s\n", job.Output, humanize.Bytes(uint64(job.Size)), job.Duration.Round(time.Millisecond))
			}
			if failed := done.Failed(); failed > 0 {
				return errors.Errorf("%d of %d conversions failed", failed, done.Len())
			}
			return nil
		},
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect <file.epub>",
		Short: "Show the metadata and structure of an EPUB archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := epub.Open(args[0])
			if err != nil {
				return err
			}
			defer book.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:      %s\n", book.GetTitle())
			fmt.Fprintf(out, "Author:     %s\n", book.GetAuthor())
			fmt.Fprintf(out, "Language:   %s\n", book.GetLanguage())
			fmt.Fprintf(out, "Identifier: %s\n", book.GetIdentifier())
			fmt.Fprintln(out, "Spine:")
			for i, href := range book.SpineHrefs() {
				fmt.Fprintf(out, "  %3d  %s\n", i+1, href)
			}
			fmt.Fprintln(out, "Contents:")
			for _, p := range book.Ncx.Points {
				fmt.Fprintf(out, "  %s  (%s)\n", p.Text, p.Content.Src)
			}
			if len(book.Opf.Guide) > 0 {
				fmt.Fprintln(out, "Guide:")
				for _, ref := range book.Opf.Guide {
					fmt.Fprintf(out, "  %-10s %s\n", ref.Type, ref.Href)
				}
			}
			return nil
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, errc := server.StartServer(config.Opts, renderer)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sig)

			select {
			case err := <-errc:
				return err
			case s := <-sig:
				log.Info("Shutting down", zap.String("signal", s.String()))
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetCurrentVersion())
			return nil
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (toml or yaml)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-file", "", "log file, rotated by size")
	flags.String("packager", "", "archive writer: native, or go-epub for compatibility (no guide, landmarks or reference types)")
	flags.String("template-dir", "", "directory of templates overriding the built-in ones")
	flags.String("default-language", "", "language tag used when a book names none")

	batchCmd.Flags().Int("worker-pool-size", 0, "number of concurrent conversions")
	serveCmd.Flags().String("host", "", "host to listen on")
	serveCmd.Flags().Int("port", 0, "port to listen on")
	serveCmd.Flags().Bool("metrics-collector", false, "expose Prometheus metrics on /metrics")

	rootCmd.AddCommand(convertCmd, batchCmd, inspectCmd, serveCmd, versionCmd)
}

func newRenderer(opts *config.Options) (*render.Renderer, error) {
	lang := render.WithLanguage(opts.DefaultLanguage)
	if opts.TemplateDir != "" {
		return render.FromDir(opts.TemplateDir, lang)
	}
	return render.Default(lang)
}

func convertOptions() []convert.Option {
	return []convert.Option{
		convert.WithRenderer(renderer),
		convert.WithPackager(config.Opts.Packager),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error("Command failed", zap.Error(err))
		log.Logger.Sync()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	log.Logger.Sync()
}
