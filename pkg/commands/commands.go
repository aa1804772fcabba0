// Package commands provides the high-level operations behind the CLI.
//
// Each command is implemented in its own subdirectory:
//   - deploy/ - fetch the dependency graph and compose the platform
//   - clean/  - remove build outputs and, optionally, deployed repositories
//   - info/   - list what the platform tree supports
//   - internal/ - component wiring shared by the commands
//
// This file re-exports the command functions so callers import one package.
package commands

import (
	"context"

	"github.com/arthur-debert/paldeploy/pkg/commands/clean"
	"github.com/arthur-debert/paldeploy/pkg/commands/deploy"
	"github.com/arthur-debert/paldeploy/pkg/commands/info"
)

// Deploy fetches repositories and composes the selected platforms.
type DeployOptions = deploy.Options
type DeployResult = deploy.Result

func Deploy(ctx context.Context, opts DeployOptions) (*DeployResult, error) {
	return deploy.Deploy(ctx, opts)
}

// Clean removes build outputs and deployed repositories.
type CleanOptions = clean.Options
type CleanResult = clean.Result

func Clean(ctx context.Context, opts CleanOptions) (*CleanResult, error) {
	return clean.Clean(ctx, opts)
}

// Info lists the names each platform axis supports.
type InfoOptions = info.Options
type InfoResult = info.Result
type AxisInfo = info.AxisInfo

func Info(ctx context.Context, opts InfoOptions) (*InfoResult, error) {
	return info.Info(ctx, opts)
}
