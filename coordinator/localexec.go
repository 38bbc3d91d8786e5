package coordinator

import "context"

// LocalExecutor is the coordinator fragment's local execution path: when
// fragment 0 is unpartitioned, it runs on the coordinator itself instead of
// being dispatched remotely, so results can stream straight to the caller
// without a round trip through the RPC transport.
type LocalExecutor interface {
	// Prepare registers the local exchange node with the data-stream
	// manager. It must complete before any remote fragment is dispatched,
	// so senders never emit into a receiver that isn't listening yet.
	Prepare(ctx context.Context) error

	// GetNext returns the next result batch, or a nil batch once the
	// fragment is exhausted.
	GetNext(ctx context.Context) ([]byte, error)

	// Cancel tells the local fragment to stop producing batches. Safe to
	// call more than once.
	Cancel()
}

// noopLocalExecutor is used when fragment 0 is unpartitioned but the
// caller supplied no local executor (e.g. a DDL-shaped query with no rows
// to stream). It behaves as an immediately-exhausted fragment.
type noopLocalExecutor struct{}

func (noopLocalExecutor) Prepare(context.Context) error            { return nil }
func (noopLocalExecutor) GetNext(context.Context) ([]byte, error) { return nil, nil }
func (noopLocalExecutor) Cancel()                                  {}
