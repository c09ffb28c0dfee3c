// Package swap coordinates asynchronous model loading and hand-off to the
// scene. Every request is stamped with a monotonically increasing sequence
// number; only the completion carrying the newest sequence is attached, and
// completions overtaken by a newer request are released without ever
// becoming visible.
package swap

import (
	"context"
	"log"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/oxy-view/engine/model"
)

// Loader produces a model from a file path. It is satisfied by loader.Loader.
type Loader interface {
	Load(ctx context.Context, path string) (model.Model, error)
}

// Stage receives the winning model. Attach returns the previously attached
// model so the coordinator can release it. It is satisfied by scene.Scene.
type Stage interface {
	Attach(m model.Model) model.Model
}

// FailureHandler is invoked once per failed request that was still the
// newest at completion time. Failures of superseded requests are dropped.
type FailureHandler func(path string, err error)

// completion is the result of one load task, stamped with the sequence
// number of the request that started it.
type completion struct {
	seq   uint64
	path  string
	model model.Model
	err   error
}

type coordinatorImpl struct {
	mu        sync.Mutex
	seq       uint64
	inFlight  uint64
	cancel    context.CancelFunc
	closed    bool
	pool      worker.DynamicWorkerPool
	loader    Loader
	stage     Stage
	onFailure FailureHandler

	completions chan completion
}

// Coordinator schedules model loads on a worker pool and applies results on
// the caller's tick thread via Drain.
type Coordinator interface {
	// Request schedules an asynchronous load of the model at path. Any
	// in-flight load is cancelled; its result, should it still arrive, is
	// discarded. Safe to call from any goroutine.
	//
	// Parameters:
	//   - path: path to a .gltf or .glb file
	//
	// Returns:
	//   - uint64: the sequence number stamped on this request
	Request(path string) uint64

	// Drain applies all completions received since the last call. The
	// newest successful completion is attached to the stage and the model
	// it replaces is released. Stale completions are released without
	// attaching. Call from a single goroutine, typically the tick loop.
	//
	// Returns:
	//   - int: the number of models attached this call
	Drain() int

	// Pending reports whether the newest request has not yet resolved.
	//
	// Returns:
	//   - bool: true while a load is outstanding
	Pending() bool

	// Close cancels any in-flight load and releases models from
	// undelivered completions. The coordinator must not be used after.
	Close()
}

var _ Coordinator = &coordinatorImpl{}

func (c *coordinatorImpl) Request(path string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.seq
	}

	if c.cancel != nil {
		c.cancel()
	}

	c.seq++
	seq := c.seq
	c.inFlight = seq

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.pool.SubmitTask(worker.Task{
		ID: int(seq),
		Do: func() (any, error) {
			m, err := c.loader.Load(ctx, path)
			c.completions <- completion{seq: seq, path: path, model: m, err: err}
			return nil, nil
		},
	})

	return seq
}

func (c *coordinatorImpl) Drain() int {
	attached := 0
	for {
		select {
		case result := <-c.completions:
			if c.apply(result) {
				attached++
			}
		default:
			return attached
		}
	}
}

// apply resolves one completion. Returns true when the model was attached.
func (c *coordinatorImpl) apply(result completion) bool {
	c.mu.Lock()
	newest := result.seq == c.seq && !c.closed
	if newest {
		c.inFlight = 0
		c.cancel = nil
	}
	c.mu.Unlock()

	if !newest {
		// Overtaken by a newer request. The model never becomes visible.
		if result.model != nil {
			result.model.Release()
		}
		return false
	}

	if result.err != nil {
		if c.onFailure != nil {
			c.onFailure(result.path, result.err)
		}
		return false
	}

	if previous := c.stage.Attach(result.model); previous != nil {
		previous.Release()
	}
	return true
}

func (c *coordinatorImpl) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight != 0
}

func (c *coordinatorImpl) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.inFlight = 0
	c.mu.Unlock()

	for {
		select {
		case result := <-c.completions:
			if result.model != nil {
				result.model.Release()
			}
		default:
			return
		}
	}
}

// logFailure is the default failure handler.
func logFailure(path string, err error) {
	log.Printf("failed to load model %s: %v", path, err)
}
