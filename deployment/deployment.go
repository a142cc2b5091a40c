// Package deployment names the interface boundary for inspecting a deployed
// instance's configuration and version skew. spec.md's Non-goals exclude
// implementing it; the interface is kept as a defined seam
// (original_source/src/deployment.rs).
package deployment

import "context"

// Info describes a deployed instance as Inspector reports it.
type Info struct {
	Version   string
	DataRoots []string
}

// Inspector reports on a deployed instance. Not implemented in this repo —
// spec.md scopes deployment inspection out.
type Inspector interface {
	Inspect(ctx context.Context, target string) (Info, error)
}
