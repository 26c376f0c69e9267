// Package deps reports the availability of the external binaries the
// conversion pipeline shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"arxivepub/internal/config"
)

// Requirement defines an external dependency the pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries needed for a full conversion run, using
// the configured binary names.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{Name: "tar", Command: cfg.Tools.Tar, Description: "unpacks the downloaded source archive"},
		{Name: "latexml", Command: cfg.Tools.LaTeXML, Description: "converts LaTeX to XML"},
		{Name: "latexmlpost", Command: cfg.Tools.LaTeXMLPost, Description: "converts XML to HTML"},
		{Name: "ebook-convert", Command: cfg.Tools.EbookConvert, Description: "converts HTML to EPUB"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of required binaries that are unavailable.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if status.Optional || status.Available {
			continue
		}
		missing = append(missing, status.Name)
	}
	return missing
}
