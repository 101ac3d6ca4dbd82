// Package lifecycle coordinates subsystem startup and shutdown around a
// single cancellable context.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Coordinator tracks startup and shutdown hooks. Subsystems register hooks
// during wiring; the process waits for startup to settle, then later cancels
// the shared context and drains the shutdown hooks.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	startup  sync.WaitGroup
	shutdown sync.WaitGroup
	ready    atomic.Bool
}

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context is cancelled when Shutdown begins. Shutdown hooks block on its
// Done channel before cleaning up.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup runs fn concurrently; WaitForStartup blocks until every
// registered fn returns.
func (c *Coordinator) OnStartup(fn func()) {
	c.startup.Go(fn)
}

// OnShutdown runs fn concurrently; Shutdown waits for every registered fn.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdown.Go(fn)
}

// Ready reports whether WaitForStartup has completed.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks until all startup hooks finish, then marks the
// coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.startup.Wait()
	c.ready.Store(true)
}

// Shutdown cancels the context and waits up to timeout for shutdown hooks
// to drain.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	drained := make(chan struct{})
	go func() {
		c.shutdown.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown hooks still running after %v", timeout)
	}
}
