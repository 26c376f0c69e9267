package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"arxivepub/internal/history"
	"arxivepub/internal/logging"
	"arxivepub/internal/pipeline"
)

const version = "0.3.0"

func newRootCommand() *cobra.Command {
	var configFlag string
	var outputFlag string
	var mainFileFlag string
	var languageFlag string
	var keepIntermediates bool

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "arxivepub <arxiv-url>",
		Short:         "Convert arXiv papers to EPUB",
		Long:          "arxivepub downloads the LaTeX source of an arXiv paper and converts it to an EPUB via latexml, latexmlpost, and ebook-convert.",
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.Conversion.OutputTemplate = outputFlag
			}
			if cmd.Flags().Changed("main-file") {
				cfg.Conversion.MainFile = mainFileFlag
			}
			if cmd.Flags().Changed("language") {
				cfg.Conversion.Language = languageFlag
			}
			if keepIntermediates {
				cfg.Conversion.CleanIntermediates = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logWriter := cmd.ErrOrStderr()
			logFile, fileErr := logging.OpenLogFile(filepath.Join(cfg.Paths.LogDir, "arxivepub.log"))
			if fileErr == nil {
				defer logFile.Close()
				logWriter = io.MultiWriter(logWriter, logFile)
			}
			logger, err := logging.NewFromConfig(cfg, logWriter)
			if err != nil {
				return err
			}
			if fileErr != nil {
				logger.Warn("log file unavailable", logging.Error(fileErr))
			}

			opts := []pipeline.Option{
				pipeline.WithLogger(logger),
				pipeline.WithPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()),
			}
			store, storeErr := history.Open(cfg)
			if storeErr != nil {
				logger.Warn("history store unavailable", logging.Error(storeErr))
			} else {
				defer store.Close()
				opts = append(opts, pipeline.WithStore(store))
			}

			result, err := pipeline.New(cfg, opts...).Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", result.OutputPath)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "out/$1.epub", "Output path template; $1 is replaced with the paper title")
	rootCmd.Flags().StringVarP(&mainFileFlag, "main-file", "m", "main.tex", "Expected main document filename")
	rootCmd.Flags().StringVar(&languageFlag, "language", "en", "Language tag passed to ebook-convert")
	rootCmd.Flags().BoolVar(&keepIntermediates, "keep-intermediates", false, "Keep non-EPUB files in the output directory")

	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
