package style

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
)

// Status is what a deploy run did with one repository
type Status string

const (
	StatusFetched  Status = "fetched"
	StatusSkipped  Status = "skipped"
	StatusExcluded Status = "excluded"
	StatusFound    Status = "found"
)

// StatusStyle returns the pterm style for a status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusFetched:
		return pterm.NewStyle(pterm.FgGreen)
	case StatusSkipped:
		return pterm.NewStyle(pterm.FgCyan)
	case StatusExcluded:
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// RepoStatus is one line of the deploy summary
type RepoStatus struct {
	// Path of the descriptor, shown relative to the work directory
	Path   string
	Status Status
}

// RenderRepoStatus renders one summary line
func RenderRepoStatus(workDir string, rs RepoStatus) string {
	path := rs.Path
	if rel, err := filepath.Rel(workDir, rs.Path); err == nil && !strings.HasPrefix(rel, "..") {
		path = rel
	}
	styled := StatusStyle(rs.Status).Sprint(fmt.Sprintf("%-9s", rs.Status))
	return fmt.Sprintf("    %s : %s", styled, path)
}

// RenderRepoStatuses renders the summary, one repository per line
func RenderRepoStatuses(workDir string, statuses []RepoStatus) string {
	if len(statuses) == 0 {
		return Get("muted").Render("No repositories found")
	}
	var b strings.Builder
	for _, rs := range statuses {
		b.WriteString(RenderRepoStatus(workDir, rs) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
