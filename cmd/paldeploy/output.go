package paldeploy

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/paldeploy/pkg/commands"
	"github.com/arthur-debert/paldeploy/pkg/style"
	"github.com/arthur-debert/paldeploy/pkg/walker"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validFormat(format string) bool {
	switch format {
	case formatText, formatJSON, formatYAML:
		return true
	}
	return false
}

// flagOverrides maps the flags the user set to configuration keys. Unset
// flags are left out so the file and environment layers still apply.
func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	overrides := map[string]interface{}{}
	flags := cmd.Flags()

	for flag, key := range map[string]string{
		"os":        "selection.os",
		"device":    "selection.device",
		"sdk":       "selection.sdk",
		"toolchain": "selection.toolchain",
	} {
		if flags.Lookup(flag) != nil && flags.Changed(flag) {
			v, _ := flags.GetString(flag)
			overrides[key] = v
		}
	}
	for flag, key := range map[string]string{
		"force":         "fetch.force",
		"skip-update":   "fetch.skip_update",
		"shallow":       "fetch.shallow",
		"fetch-mbed-os": "fetch.allow_large_os",
	} {
		if flags.Lookup(flag) != nil && flags.Changed(flag) {
			v, _ := flags.GetBool(flag)
			overrides[key] = v
		}
	}
	if flags.Lookup("mw") != nil && flags.Changed("mw") {
		v, _ := flags.GetStringArray("mw")
		overrides["selection.middleware"] = v
	}
	return overrides
}

// repoStatuses lists every discovered descriptor with what the run did
func repoStatuses(report walker.Report) []style.RepoStatus {
	status := map[string]style.Status{}
	for _, p := range report.Fetched {
		status[p] = style.StatusFetched
	}
	for _, p := range report.Skipped {
		status[p] = style.StatusSkipped
	}
	for _, p := range report.Excluded {
		status[p] = style.StatusExcluded
	}

	statuses := make([]style.RepoStatus, 0, len(report.Discovered))
	for _, p := range report.Discovered {
		s, ok := status[p]
		if !ok {
			s = style.StatusFound
		}
		statuses = append(statuses, style.RepoStatus{Path: p, Status: s})
	}
	return statuses
}

func renderClean(workDir string, result *commands.CleanResult) string {
	var lines []string
	if result.MadeClean {
		lines = append(lines, style.RenderTemplate(MsgCleanMake, map[string]string{"dir": workDir}))
	}
	for _, p := range result.Restored {
		lines = append(lines, style.RenderTemplate(MsgCleanRestored, map[string]string{"path": p}))
	}
	for _, p := range result.Deleted {
		lines = append(lines, style.RenderTemplate(MsgCleanDeleted, map[string]string{"path": p}))
	}
	if len(lines) == 0 {
		return style.Render(MsgCleanNothing)
	}
	return strings.Join(lines, "\n")
}

func writeInfo(w io.Writer, result *commands.InfoResult, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Fprintln(w, style.RenderTemplate(MsgInfoRoot, map[string]string{
		"url": result.Root.URL,
		"ref": result.Root.Ref,
	}))
	data := pterm.TableData{{"Axis", "Supported"}}
	for _, axis := range result.Axes {
		supported := style.Render(MsgInfoNone)
		if len(axis.Supported) > 0 {
			supported = strings.Join(axis.Supported, ", ")
		}
		data = append(data, []string{string(axis.Axis), supported})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, table)
	return nil
}
