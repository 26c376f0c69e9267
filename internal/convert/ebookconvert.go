package convert

import (
	"context"
	"log/slog"

	"arxivepub/internal/logging"
	"arxivepub/internal/services"
)

// EbookConvert produces the final EPUB from the rendered HTML using
// Calibre's ebook-convert.
type EbookConvert struct {
	binary   string
	language string
	executor services.Executor
	logger   *slog.Logger
}

// EbookConvertOption configures the ebook-convert client.
type EbookConvertOption func(*EbookConvert)

// WithEbookConvertExecutor injects a command executor (primarily for tests).
func WithEbookConvertExecutor(executor services.Executor) EbookConvertOption {
	return func(c *EbookConvert) {
		if executor != nil {
			c.executor = executor
		}
	}
}

// WithEbookConvertLogger attaches a logger to the client.
func WithEbookConvertLogger(logger *slog.Logger) EbookConvertOption {
	return func(c *EbookConvert) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "ebook-convert")
		}
	}
}

// NewEbookConvert constructs an ebook-convert client tagging output with
// the given language.
func NewEbookConvert(binary, language string, opts ...EbookConvertOption) *EbookConvert {
	client := &EbookConvert{
		binary:   binary,
		language: language,
		executor: services.NewCommandExecutor(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BuildArgs returns the argument vector for an HTML to EPUB conversion.
func (c *EbookConvert) BuildArgs(htmlPath, epubPath string) []string {
	return []string{htmlPath, epubPath, "--language", c.language, "--no-default-epub-cover"}
}

// Convert runs ebook-convert, writing the EPUB to epubPath.
func (c *EbookConvert) Convert(ctx context.Context, htmlPath, epubPath string) error {
	c.logger.Info("converting html to epub",
		logging.String("input", htmlPath),
		logging.String("output", epubPath),
		logging.String("language", c.language),
	)
	err := c.executor.Run(ctx, c.binary, c.BuildArgs(htmlPath, epubPath), func(line string) {
		c.logger.Debug("ebook-convert output", logging.String("line", line))
	})
	if err != nil {
		return services.Wrap(services.ErrConversion, "ebook-convert", "html to epub", htmlPath, err)
	}
	return nil
}
