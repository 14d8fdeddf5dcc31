// Command mangaread reads a zipped manga volume: it extracts the archive,
// infers the right-to-left reading order of every page, runs OCR over each
// text region, and writes the transcripts to disk.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"go-manga-reader/internal/archive"
	"go-manga-reader/internal/detector"
	"go-manga-reader/internal/logger"
	"go-manga-reader/internal/observer"
	"go-manga-reader/internal/output"
	"go-manga-reader/internal/pipeline"
	"go-manga-reader/internal/recognizer"
)

type options struct {
	outputDir    string
	format       string
	language     string
	workers      int
	tempDir      string
	abortOnError bool
	verbose      bool
	quiet        bool
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "mangaread <archive.zip>",
		Short: "OCR a manga volume in reading order",
		Long: `mangaread extracts a zip archive of manga pages, infers the
right-to-left reading order of the text regions on every page, recognizes
each region with Tesseract, and writes the transcripts as JSON and/or text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), args[0], opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.outputDir, "output-dir", "o", ".", "directory for result files")
	flags.StringVarP(&opts.format, "format", "f", "both", "output format: json, txt or both")
	flags.StringVarP(&opts.language, "language", "l", "jpn+jpn_vert", "tesseract language string")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "parallel page workers (0 = CPU count)")
	flags.StringVar(&opts.tempDir, "temp-dir", "", "directory for archive extraction (default system temp)")
	flags.BoolVar(&opts.abortOnError, "abort-on-error", false, "stop at the first page that fails instead of skipping it")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "log errors only")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, archivePath string, opts *options) error {
	switch {
	case opts.verbose:
		logger.SetLevel("debug")
	case opts.quiet:
		logger.SetLevel("error")
	}

	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	root, cleanup, err := archive.Extract(archivePath, opts.tempDir)
	if err != nil {
		return err
	}
	defer cleanup()

	files, err := archive.ListImages(root)
	if err != nil {
		return err
	}
	logger.WithField("pages", len(files)).Info("Archive extracted")

	det, err := detector.NewTesseractDetector(opts.language)
	if err != nil {
		return err
	}
	defer det.Close()

	rec, err := recognizer.NewTesseractRecognizer(opts.language, nil)
	if err != nil {
		return err
	}
	defer rec.Close()

	var readerOpts []pipeline.Option
	if opts.abortOnError {
		readerOpts = append(readerOpts, pipeline.WithAbortOnError())
	}
	reader := pipeline.NewPageReader(det, rec, readerOpts...)

	metrics := observer.NewMetricsObserver()
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))
	publisher.Subscribe(metrics)

	batch := pipeline.NewBatchProcessor(reader, opts.workers, publisher)
	results, err := batch.ProcessPages(ctx, files)
	if err != nil && opts.abortOnError {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(archivePath), filepath.Ext(archivePath))
	paths, werr := output.Write(results, opts.outputDir, stem, format)
	if werr != nil {
		return werr
	}

	for _, path := range paths {
		fmt.Println(path)
	}
	logger.WithFields(logrus.Fields(metrics.GetMetrics())).Info("Volume processed")
	return err
}
