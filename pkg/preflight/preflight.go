// Package preflight verifies the external tools a command needs before it
// touches the work directory.
package preflight

import (
	"os/exec"
	"strings"

	"github.com/arthur-debert/paldeploy/pkg/config"
	"github.com/arthur-debert/paldeploy/pkg/errors"
)

// LookPath resolves an executable name, exec.LookPath in production
type LookPath func(file string) (string, error)

// Need selects which tools a command requires
type Need struct {
	Git   bool
	Patch bool
	Make  bool
}

// Check fails with ErrToolMissing naming every required tool that lookPath
// cannot find. A nil lookPath means exec.LookPath.
func Check(cfg config.Config, need Need, lookPath LookPath) error {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	var wanted []string
	if need.Git {
		wanted = append(wanted, cfg.Tools.Git)
	}
	if need.Patch {
		wanted = append(wanted, cfg.Tools.Patch)
	}
	if need.Make {
		wanted = append(wanted, cfg.Tools.Make)
	}

	var missing []string
	for _, tool := range wanted {
		if _, err := lookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return errors.Newf(errors.ErrToolMissing, "required tools not found in PATH: %s", strings.Join(missing, ", ")).
			WithDetail("missing", missing)
	}
	return nil
}
