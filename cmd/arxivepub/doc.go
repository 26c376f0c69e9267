// Command arxivepub converts arXiv papers into EPUB files by downloading
// the LaTeX source and chaining latexml, latexmlpost, and ebook-convert.
package main
