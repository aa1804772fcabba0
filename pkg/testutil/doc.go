// Package testutil provides utilities for testing paldeploy components.
//
// Key components:
//   - FakeRunner: scripted stand-in for executor.Runner that records every
//     git/patch/make invocation
//   - WriteFiles and friends: build descriptor trees on an in-memory
//     types.FS (see filesystem.NewMemory)
package testutil
