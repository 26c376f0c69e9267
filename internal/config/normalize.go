package config

import "strings"

// normalize expands tilde shortcuts and trims whitespace on string fields.
// Working directories stay relative to the invocation directory when given
// as relative paths; only the home shortcut is expanded.
func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.DownloadDir,
		&c.Paths.ExtractDir,
		&c.Paths.OutputDir,
		&c.Paths.LogDir,
	} {
		trimmed := strings.TrimSpace(*field)
		expanded, err := expandPath(trimmed)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Conversion.MainFile = strings.TrimSpace(c.Conversion.MainFile)
	c.Conversion.OutputTemplate = strings.TrimSpace(c.Conversion.OutputTemplate)
	c.Conversion.Language = strings.TrimSpace(c.Conversion.Language)

	c.Tools.Tar = strings.TrimSpace(c.Tools.Tar)
	c.Tools.LaTeXML = strings.TrimSpace(c.Tools.LaTeXML)
	c.Tools.LaTeXMLPost = strings.TrimSpace(c.Tools.LaTeXMLPost)
	c.Tools.EbookConvert = strings.TrimSpace(c.Tools.EbookConvert)

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
