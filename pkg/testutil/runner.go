package testutil

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arthur-debert/paldeploy/pkg/errors"
	"github.com/arthur-debert/paldeploy/pkg/executor"
	"github.com/arthur-debert/paldeploy/pkg/types"
)

type rule struct {
	match  string
	result executor.Result
	err    error
	hook   func(executor.Command)
}

// FakeRunner records commands instead of running them. Responses are
// scripted with On/OnHook; the most recently added matching rule wins and
// unmatched commands succeed with empty output.
type FakeRunner struct {
	mu    sync.Mutex
	rules []rule
	Calls []executor.Command
}

// NewFakeRunner creates an empty FakeRunner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On scripts the response for commands whose rendered line contains match
func (f *FakeRunner) On(match string, stdout string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{match: match, result: executor.Result{Stdout: stdout}, err: err})
	return f
}

// Fail scripts a failing response carrying stderr text
func (f *FakeRunner) Fail(match, stderr string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := errors.New(errors.ErrCommandExecute, "exit status 1").WithDetail("stderr", stderr)
	f.rules = append(f.rules, rule{match: match, result: executor.Result{Stderr: stderr, ExitCode: 1}, err: err})
	return f
}

// OnHook runs hook for matching commands, typically to emulate the side
// effects of a clone on an in-memory filesystem
func (f *FakeRunner) OnHook(match string, hook func(executor.Command)) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{match: match, hook: hook})
	return f
}

// Run implements executor.Runner
func (f *FakeRunner) Run(_ context.Context, cmd executor.Command) (executor.Result, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	rules := append([]rule(nil), f.rules...)
	f.mu.Unlock()

	line := cmd.String()
	var hooks []func(executor.Command)
	for i := len(rules) - 1; i >= 0; i-- {
		r := rules[i]
		if !strings.Contains(line, r.match) {
			continue
		}
		if r.hook != nil {
			hooks = append(hooks, r.hook)
			continue
		}
		for _, h := range hooks {
			h(cmd)
		}
		return r.result, r.err
	}
	for _, h := range hooks {
		h(cmd)
	}
	return executor.Result{}, nil
}

// Lines returns every recorded command rendered as a command line
func (f *FakeRunner) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	lines := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		lines[i] = c.String()
	}
	return lines
}

// Count returns how many recorded command lines contain match
func (f *FakeRunner) Count(match string) int {
	n := 0
	for _, line := range f.Lines() {
		if strings.Contains(line, match) {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls but keeps scripted rules
func (f *FakeRunner) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = nil
}

// CloneHook emulates "git clone" on fsys: the target directory gets a .git
// folder plus the files registered for it in trees.
func CloneHook(fsys types.FS, trees map[string]map[string]string) func(executor.Command) {
	return func(cmd executor.Command) {
		args := cmd.Args
		if len(args) > 0 && args[len(args)-1] == "--depth=1" {
			args = args[:len(args)-1]
		}
		if len(args) == 0 {
			return
		}
		dir := args[len(args)-1]
		_ = fsys.MkdirAll(filepath.Join(dir, ".git"), 0755)
		for name, content := range trees[dir] {
			path := filepath.Join(dir, name)
			_ = fsys.MkdirAll(filepath.Dir(path), 0755)
			_ = fsys.WriteFile(path, []byte(content), 0644)
		}
	}
}
