package config

import (
	"strings"

	"github.com/arthur-debert/paldeploy/pkg/errors"
)

// IsEmpty reports whether no axis was selected
func (s Selection) IsEmpty() bool {
	return s.SDK == "" && s.OS == "" && s.Device == "" && s.Toolchain == "" && len(s.Middleware) == 0
}

// Validate requires OS and Device whenever no SDK is selected
func (s Selection) Validate() error {
	if s.SDK != "" {
		return nil
	}
	var missing []string
	if s.OS == "" {
		missing = append(missing, "OS")
	}
	if s.Device == "" {
		missing = append(missing, "Device")
	}
	if len(missing) > 0 {
		return errors.Newf(errors.ErrSelectionInvalid, "OS and Device are mandatory if SDK is not given (missing %s)",
			strings.Join(missing, ", "))
	}
	return nil
}
