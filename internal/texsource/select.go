// Package texsource locates the main LaTeX document in an unpacked source
// tree and extracts its title.
package texsource

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"arxivepub/internal/services"
)

// ListCandidates returns the names of .tex files directly under dir, in
// directory-listing order.
func ListCandidates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrSelection, "select", "list candidates",
				fmt.Sprintf("source directory %s does not exist", dir), err)
		}
		return nil, services.Wrap(services.ErrSelection, "select", "list candidates", dir, err)
	}
	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".tex") {
			candidates = append(candidates, entry.Name())
		}
	}
	return candidates, nil
}

// SelectMain picks the main document from candidates. When expected is
// present it wins immediately; otherwise the candidates are enumerated on
// out and a numeric index is read from prompter. An out-of-range or
// non-numeric answer is an error, not a retry.
func SelectMain(candidates []string, expected string, prompter io.Reader, out io.Writer) (string, error) {
	if len(candidates) == 0 {
		return "", services.Wrap(services.ErrSelection, "select", "pick main file",
			"no .tex files found in source directory", nil)
	}
	for _, name := range candidates {
		if name == expected {
			return name, nil
		}
	}

	fmt.Fprintf(out, "%s not found, choose the main document:\n", expected)
	for i, name := range candidates {
		fmt.Fprintf(out, "  [%d] %s\n", i, name)
	}
	fmt.Fprint(out, "index: ")

	var answer string
	if _, err := fmt.Fscan(prompter, &answer); err != nil {
		return "", services.Wrap(services.ErrSelection, "select", "read index",
			"no selection provided", err)
	}
	index, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return "", services.Wrap(services.ErrSelection, "select", "parse index",
			fmt.Sprintf("%q is not a number", answer), err)
	}
	if index < 0 || index >= len(candidates) {
		return "", services.Wrap(services.ErrSelection, "select", "parse index",
			fmt.Sprintf("index %d out of range 0..%d", index, len(candidates)-1), nil)
	}
	return candidates[index], nil
}

// MainFilePath joins the source directory with the selected file name.
func MainFilePath(dir, name string) string {
	return filepath.Join(dir, name)
}
