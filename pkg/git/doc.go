// Package git fetches repositories by driving the installed git client.
//
// The fetch is a small state machine keyed on whether the target directory
// already holds a .git folder. Fresh directories are cloned, existing ones
// are verified against the expected origin and updated in place; both end
// on an exact checkout of the pinned ref, so running it twice converges.
package git
