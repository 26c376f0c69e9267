package convert

import (
	"context"
	"fmt"
	"log/slog"

	"arxivepub/internal/logging"
	"arxivepub/internal/services"
)

// LaTeXML converts a LaTeX document into LaTeXML's XML representation.
type LaTeXML struct {
	binary   string
	executor services.Executor
	logger   *slog.Logger
}

// LaTeXMLOption configures the latexml client.
type LaTeXMLOption func(*LaTeXML)

// WithLaTeXMLExecutor injects a command executor (primarily for tests).
func WithLaTeXMLExecutor(executor services.Executor) LaTeXMLOption {
	return func(c *LaTeXML) {
		if executor != nil {
			c.executor = executor
		}
	}
}

// WithLaTeXMLLogger attaches a logger to the client.
func WithLaTeXMLLogger(logger *slog.Logger) LaTeXMLOption {
	return func(c *LaTeXML) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "latexml")
		}
	}
}

// NewLaTeXML constructs a latexml client using the given binary name.
func NewLaTeXML(binary string, opts ...LaTeXMLOption) *LaTeXML {
	client := &LaTeXML{
		binary:   binary,
		executor: services.NewCommandExecutor(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BuildArgs returns the argument vector for a TeX to XML conversion.
func (c *LaTeXML) BuildArgs(texPath, xmlPath string) []string {
	return []string{fmt.Sprintf("--dest=%s", xmlPath), texPath}
}

// Convert runs latexml, writing the XML document to xmlPath.
func (c *LaTeXML) Convert(ctx context.Context, texPath, xmlPath string) error {
	c.logger.Info("converting tex to xml",
		logging.String("input", texPath),
		logging.String("output", xmlPath),
	)
	err := c.executor.Run(ctx, c.binary, c.BuildArgs(texPath, xmlPath), func(line string) {
		c.logger.Debug("latexml output", logging.String("line", line))
	})
	if err != nil {
		return services.Wrap(services.ErrConversion, "latexml", "tex to xml", texPath, err)
	}
	return nil
}
