package coordinator

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sethvargo/go-retry"

	"github.com/shardedsql/qcoord/pkg/plan"
)

// callWithReopen runs call against a pooled client for host, and on
// transport failure reopens the connection and retries once, after a short
// constant backoff, before giving up. The reopen happens inside the second
// (last) attempt, so a failure to reopen ends the call with that error.
func (c *Coordinator) callWithReopen(ctx context.Context, host plan.HostPort, call func(BackendClient) error) error {
	client, err := c.opts.ClientPool.GetClient(host)
	if err != nil {
		return errors.Wrapf(err, "getting client for %s", host)
	}
	defer c.opts.ClientPool.ReleaseClient(host, client)

	b := retry.WithMaxRetries(1, retry.NewConstant(10*time.Millisecond))
	attempt := 0
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		if attempt > 0 {
			reopened, reopenErr := c.opts.ClientPool.ReopenClient(host, client)
			if reopenErr != nil {
				attempt++
				return retry.RetryableError(errors.Wrapf(reopenErr, "reopening client for %s", host))
			}
			client = reopened
		}
		attempt++
		if callErr := call(client); callErr != nil {
			return retry.RetryableError(callErr)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "calling backend %s after %d attempt(s)", host, attempt)
	}
	return nil
}
