// Package backendclient caches gRPC connections to backend workers, keyed
// by host:port, so repeated dispatch to the same worker across queries
// reuses one connection instead of dialing fresh each time.
package backendclient

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shardedsql/qcoord/pkg/plan"
	"github.com/shardedsql/qcoord/pkg/qlog"
	"github.com/shardedsql/qcoord/pkg/rpcpb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	defaultMaxIdle  = 5 * time.Minute
	defaultMaxConns = 256
)

// Client is everything a coordinator needs from a cached connection: the
// generated stub plus a way to return or discard it.
type Client struct {
	rpcpb.BackendExecServiceClient

	pool *Pool
	host plan.HostPort
	conn *grpc.ClientConn
}

type entry struct {
	conn     *grpc.ClientConn
	refs     int
	lastUsed time.Time
}

// Pool is a process-wide cache of backend connections. The zero value is
// not usable; construct with NewPool.
//
// Connections are reference counted: GetClient increments, ReleaseClient
// decrements and stamps lastUsed. An entry is only ever evicted while its
// refs are zero, either by the background idle sweep or, on a cache miss
// with the pool at maxConns, by evictOneIdleLocked. ReopenClient is the
// exception: it closes and replaces its host's entry whatever its refs.
type Pool struct {
	mu       sync.Mutex
	entries  map[plan.HostPort]*entry
	maxIdle  time.Duration
	maxConns int

	stop     chan struct{}
	stopOnce sync.Once
}

func NewPool() *Pool {
	p := &Pool{
		entries:  map[plan.HostPort]*entry{},
		maxIdle:  defaultMaxIdle,
		maxConns: defaultMaxConns,
		stop:     make(chan struct{}),
	}
	go p.evictIdleLoop()
	return p
}

// GetClient returns a cached or freshly dialed client for host. Every
// successful call must be matched with exactly one ReleaseClient.
func (p *Pool) GetClient(host plan.HostPort) (*Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[host]
	if !ok {
		if len(p.entries) >= p.maxConns {
			p.evictOneIdleLocked()
		}
		conn, err := dial(host)
		if err != nil {
			return nil, errors.Wrapf(err, "dialing backend %s", host)
		}
		e = &entry{conn: conn}
		p.entries[host] = e
	}
	e.refs++
	return &Client{
		BackendExecServiceClient: rpcpb.NewBackendExecServiceClient(e.conn),
		pool:                     p,
		host:                     host,
		conn:                     e.conn,
	}, nil
}

// ReleaseClient returns c to the pool. It never closes the underlying
// connection — connections live for the lifetime of the pool so that
// later queries can reuse them, until the idle sweep reclaims them.
func (p *Pool) ReleaseClient(c *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.entries[c.host]; ok {
		e.refs--
		e.lastUsed = time.Now()
	}
}

// ReopenClient discards the cached connection for c's host and dials a
// fresh one, for the single retry-after-transport-failure the dispatcher
// performs before giving up on a backend.
func (p *Pool) ReopenClient(c *Client) (*Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.entries[c.host]; ok {
		_ = e.conn.Close()
		delete(p.entries, c.host)
	}

	conn, err := dial(c.host)
	if err != nil {
		return nil, errors.Wrapf(err, "reopening backend %s", c.host)
	}
	e := &entry{conn: conn, refs: 1, lastUsed: time.Now()}
	p.entries[c.host] = e
	return &Client{
		BackendExecServiceClient: rpcpb.NewBackendExecServiceClient(conn),
		pool:                     p,
		host:                     c.host,
		conn:                     conn,
	}, nil
}

// evictOneIdleLocked closes and drops the least-recently-released entry
// with no outstanding references, making room for a new connection when
// the pool is at maxConns. Callers must hold p.mu. A no-op if every
// connection is currently in use — the pool is allowed to temporarily
// exceed maxConns rather than fail dispatch.
func (p *Pool) evictOneIdleLocked() {
	var oldestHost plan.HostPort
	var oldest *entry
	for host, e := range p.entries {
		if e.refs > 0 {
			continue
		}
		if oldest == nil || e.lastUsed.Before(oldest.lastUsed) {
			oldestHost, oldest = host, e
		}
	}
	if oldest == nil {
		return
	}
	_ = oldest.conn.Close()
	delete(p.entries, oldestHost)
}

// evictIdleLoop periodically closes connections that have sat idle (zero
// refs) for longer than maxIdle, so a pool serving a bursty workload
// doesn't hold workers it no longer talks to open indefinitely.
func (p *Pool) evictIdleLoop() {
	ticker := time.NewTicker(p.maxIdle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.evictIdle(time.Now())
		case <-p.stop:
			return
		}
	}
}

func (p *Pool) evictIdle(now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for host, e := range p.entries {
		if e.refs > 0 {
			continue
		}
		if now.Sub(e.lastUsed) < p.maxIdle {
			continue
		}
		if err := e.conn.Close(); err != nil {
			qlog.Zero.Warn().Err(err).Str("host", host.String()).Msg("error closing idle backend connection")
		}
		delete(p.entries, host)
	}
}

// Close tears down every cached connection and stops the idle sweep.
// Callers with outstanding clients must release them first; Close does
// not wait for refs to drain.
func (p *Pool) Close() {
	p.stopOnce.Do(func() { close(p.stop) })

	p.mu.Lock()
	defer p.mu.Unlock()
	for host, e := range p.entries {
		if err := e.conn.Close(); err != nil {
			qlog.Zero.Warn().Err(err).Str("host", host.String()).Msg("error closing backend connection")
		}
	}
	p.entries = map[plan.HostPort]*entry{}
}

func dial(host plan.HostPort) (*grpc.ClientConn, error) {
	return grpc.NewClient(host.String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
}
