// Package async runs best-effort side effects off the request path.
package async

import (
	"context"
	"log"
	"runtime/debug"
	"sync"
	"time"
)

// Runner schedules a named task. Tasks never report back to the caller.
type Runner interface {
	Go(name string, task func(ctx context.Context) error)
}

// Pool runs every task on its own goroutine with a detached, time-bounded context.
type Pool struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewPool(timeout time.Duration) *Pool {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Pool{timeout: timeout}
}

func (p *Pool) Go(name string, task func(ctx context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[async] %s panicked: %v\n%s", name, r, debug.Stack())
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		if err := task(ctx); err != nil {
			log.Printf("[async] %s failed: %v", name, err)
		}
	}()
}

// Wait blocks until every scheduled task has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Inline runs tasks synchronously on the caller's goroutine.
// Errors are still only logged.
type Inline struct{}

func (Inline) Go(name string, task func(ctx context.Context) error) {
	if err := task(context.Background()); err != nil {
		log.Printf("[async] %s failed: %v", name, err)
	}
}
