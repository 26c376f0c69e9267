package convert

import (
	"context"
	"fmt"
	"log/slog"

	"arxivepub/internal/logging"
	"arxivepub/internal/services"
)

// LaTeXMLPost converts LaTeXML's XML representation into HTML.
type LaTeXMLPost struct {
	binary   string
	executor services.Executor
	logger   *slog.Logger
}

// LaTeXMLPostOption configures the latexmlpost client.
type LaTeXMLPostOption func(*LaTeXMLPost)

// WithLaTeXMLPostExecutor injects a command executor (primarily for tests).
func WithLaTeXMLPostExecutor(executor services.Executor) LaTeXMLPostOption {
	return func(c *LaTeXMLPost) {
		if executor != nil {
			c.executor = executor
		}
	}
}

// WithLaTeXMLPostLogger attaches a logger to the client.
func WithLaTeXMLPostLogger(logger *slog.Logger) LaTeXMLPostOption {
	return func(c *LaTeXMLPost) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "latexmlpost")
		}
	}
}

// NewLaTeXMLPost constructs a latexmlpost client using the given binary name.
func NewLaTeXMLPost(binary string, opts ...LaTeXMLPostOption) *LaTeXMLPost {
	client := &LaTeXMLPost{
		binary:   binary,
		executor: services.NewCommandExecutor(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BuildArgs returns the argument vector for an XML to HTML conversion.
func (c *LaTeXMLPost) BuildArgs(xmlPath, htmlPath string) []string {
	return []string{fmt.Sprintf("--dest=%s", htmlPath), xmlPath}
}

// Convert runs latexmlpost, writing the HTML document to htmlPath.
func (c *LaTeXMLPost) Convert(ctx context.Context, xmlPath, htmlPath string) error {
	c.logger.Info("converting xml to html",
		logging.String("input", xmlPath),
		logging.String("output", htmlPath),
	)
	err := c.executor.Run(ctx, c.binary, c.BuildArgs(xmlPath, htmlPath), func(line string) {
		c.logger.Debug("latexmlpost output", logging.String("line", line))
	})
	if err != nil {
		return services.Wrap(services.ErrConversion, "latexmlpost", "xml to html", xmlPath, err)
	}
	return nil
}
