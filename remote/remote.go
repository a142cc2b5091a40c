// Package remote names the interface boundary for a remote deployment's
// status checker. spec.md's Non-goals exclude implementing it; the
// interface is kept so a future implementation has a defined seam
// (original_source/src/remote.rs).
package remote

import "context"

// Status is a remote deployment's reported health at a point in time.
type Status struct {
	Healthy bool
	Detail  string
}

// StatusChecker reports on a remote tabulation deployment's health. Not
// implemented in this repo — spec.md scopes remote deployment management
// out.
type StatusChecker interface {
	CheckStatus(ctx context.Context, endpoint string) (Status, error)
}
