package patch

import (
	"context"
	"strconv"

	"github.com/arthur-debert/paldeploy/pkg/executor"
)

// Tool is the external patch applier
type Tool interface {
	// Integrated reports whether p is currently applied
	Integrated(ctx context.Context, p Patch) bool
	// Check dry-runs a forward apply
	Check(ctx context.Context, p Patch) error
	Apply(ctx context.Context, p Patch) error
	Revert(ctx context.Context, p Patch) error
}

// GNUPatch drives the patch executable
type GNUPatch struct {
	runner  executor.Runner
	name    string
	verbose bool
}

// NewGNUPatch creates a GNUPatch running the named executable
func NewGNUPatch(runner executor.Runner, name string, verbose bool) *GNUPatch {
	return &GNUPatch{runner: runner, name: name, verbose: verbose}
}

// Integrated dry-runs a forced reverse apply
func (g *GNUPatch) Integrated(ctx context.Context, p Patch) bool {
	return g.run(ctx, p, "--reverse", "--dry-run", "--force") == nil
}

func (g *GNUPatch) Check(ctx context.Context, p Patch) error {
	return g.run(ctx, p, "--dry-run")
}

func (g *GNUPatch) Apply(ctx context.Context, p Patch) error {
	return g.run(ctx, p)
}

func (g *GNUPatch) Revert(ctx context.Context, p Patch) error {
	return g.run(ctx, p, "--reverse", "--force")
}

func (g *GNUPatch) run(ctx context.Context, p Patch, extra ...string) error {
	args := []string{"-p", strconv.Itoa(p.Strip), "-i", p.File, "--binary"}
	if g.verbose {
		args = append(args, "--verbose")
	} else {
		args = append(args, "--quiet")
	}
	args = append(args, extra...)
	_, err := g.runner.Run(ctx, executor.Command{Name: g.name, Args: args, Dir: p.Dir})
	return err
}
