// Package convert wraps the three external converters that turn a LaTeX
// document into an EPUB: latexml (TeX to XML), latexmlpost (XML to HTML),
// and ebook-convert (HTML to EPUB). Each tool gets a small client with a
// typed argument builder; the clients share the services.Executor so tests
// can intercept the command lines.
package convert
