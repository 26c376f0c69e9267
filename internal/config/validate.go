package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	var problems []string

	if c.Paths.DownloadDir == "" {
		problems = append(problems, "paths.download_dir must not be empty")
	}
	if c.Paths.ExtractDir == "" {
		problems = append(problems, "paths.extract_dir must not be empty")
	}
	if c.Paths.OutputDir == "" {
		problems = append(problems, "paths.output_dir must not be empty")
	}
	if c.Conversion.MainFile == "" {
		problems = append(problems, "conversion.main_file must not be empty")
	}
	if c.Conversion.OutputTemplate == "" {
		problems = append(problems, "conversion.output_template must not be empty")
	}
	if c.Conversion.ToolTimeout <= 0 {
		problems = append(problems, "conversion.tool_timeout must be positive")
	}
	if c.Conversion.Language == "" {
		problems = append(problems, "conversion.language must not be empty")
	} else if _, err := language.Parse(c.Conversion.Language); err != nil {
		problems = append(problems, fmt.Sprintf("conversion.language %q is not a valid BCP 47 tag", c.Conversion.Language))
	}

	for name, value := range map[string]string{
		"tools.tar":           c.Tools.Tar,
		"tools.latexml":       c.Tools.LaTeXML,
		"tools.latexmlpost":   c.Tools.LaTeXMLPost,
		"tools.ebook_convert": c.Tools.EbookConvert,
	} {
		if value == "" {
			problems = append(problems, name+" must not be empty")
		}
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format %q is not supported (console or json)", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
