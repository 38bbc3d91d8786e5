// Package clusterscheduler defines the collaborator that maps data hosts
// (hosts that hold a replica of some scan input) to execution hosts (worker
// nodes that can run fragment instances). The coordinator treats it purely
// as an external dependency — out of scope per spec §1.
package clusterscheduler

import (
	"context"

	"github.com/shardedsql/qcoord/pkg/plan"
)

// Scheduler maps data hosts to execution hosts, preserving both order and
// length of the input slice.
type Scheduler interface {
	GetHosts(ctx context.Context, dataHosts []plan.HostPort) ([]plan.HostPort, error)
}

// Identity is a reference Scheduler for tests and for deployments with no
// real co-location scheduler: every data host is its own execution host.
type Identity struct{}

func (Identity) GetHosts(_ context.Context, dataHosts []plan.HostPort) ([]plan.HostPort, error) {
	out := make([]plan.HostPort, len(dataHosts))
	copy(out, dataHosts)
	return out, nil
}
