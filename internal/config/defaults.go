package config

const (
	defaultDownloadDir    = "downloads"
	defaultExtractDir     = "unzipped"
	defaultOutputDir      = "out"
	defaultLogDir         = "~/.local/share/arxivepub/logs"
	defaultMainFile       = "main.tex"
	defaultOutputTemplate = "out/$1.epub"
	defaultLanguage       = "en"
	defaultToolTimeout    = 1800
	defaultTarBinary      = "tar"
	defaultLaTeXML        = "latexml"
	defaultLaTeXMLPost    = "latexmlpost"
	defaultEbookConvert   = "ebook-convert"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir: defaultDownloadDir,
			ExtractDir:  defaultExtractDir,
			OutputDir:   defaultOutputDir,
			LogDir:      defaultLogDir,
		},
		Conversion: Conversion{
			MainFile:           defaultMainFile,
			OutputTemplate:     defaultOutputTemplate,
			Language:           defaultLanguage,
			CleanIntermediates: true,
			ToolTimeout:        defaultToolTimeout,
		},
		Tools: Tools{
			Tar:          defaultTarBinary,
			LaTeXML:      defaultLaTeXML,
			LaTeXMLPost:  defaultLaTeXMLPost,
			EbookConvert: defaultEbookConvert,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
