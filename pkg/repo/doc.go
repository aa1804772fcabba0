// Package repo turns descriptor files into repository handles.
//
// A handle is identified by the path of the descriptor that declared it and
// owns the sibling directory of the same stem. Library handles (.lib) must
// point at the trusted host and are always fetched with git. Reference
// handles (.ref) check the URL first and fall back to copying local paths or
// downloading plain files when it is not a git remote; the mode that
// produced the directory is remembered in a marker file next to the
// descriptor so later runs update the directory the same way.
package repo
