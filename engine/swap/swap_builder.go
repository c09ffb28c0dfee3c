package swap

import (
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

const (
	defaultWorkers          = 2
	defaultQueueDepth       = 16
	defaultWorkerIdle       = 1 * time.Second
	defaultCompletionBuffer = 32
)

// CoordinatorBuilderOption is a functional option for configuring a
// coordinator. Use the With* functions to create options.
type CoordinatorBuilderOption func(c *coordinatorImpl)

// NewCoordinator creates a Coordinator that loads through the given loader
// and hands winning models to the given stage.
//
// Parameters:
//   - l: the model loader, must not be nil
//   - stage: the attach target, must not be nil
//   - options: optional configuration
//
// Returns:
//   - Coordinator: the configured coordinator
func NewCoordinator(l Loader, stage Stage, options ...CoordinatorBuilderOption) Coordinator {
	if l == nil {
		panic("coordinator requires a loader")
	}
	if stage == nil {
		panic("coordinator requires a stage")
	}

	c := &coordinatorImpl{
		loader:    l,
		stage:     stage,
		onFailure: logFailure,
	}

	for _, opt := range options {
		opt(c)
	}
	if c.pool == nil {
		c.pool = worker.NewDynamicWorkerPool(defaultWorkers, defaultQueueDepth, defaultWorkerIdle)
	}
	if c.completions == nil {
		c.completions = make(chan completion, defaultCompletionBuffer)
	}

	return c
}

// WithWorkerPool substitutes the worker pool used for load tasks.
//
// Parameters:
//   - pool: the pool to submit load tasks to
//
// Returns:
//   - CoordinatorBuilderOption: option function to apply
func WithWorkerPool(pool worker.DynamicWorkerPool) CoordinatorBuilderOption {
	return func(c *coordinatorImpl) {
		if pool == nil {
			return
		}
		c.pool = pool
	}
}

// WithFailureHandler sets the handler invoked when the newest request fails.
// Passing nil silences failure reporting.
//
// Parameters:
//   - handler: the failure handler
//
// Returns:
//   - CoordinatorBuilderOption: option function to apply
func WithFailureHandler(handler FailureHandler) CoordinatorBuilderOption {
	return func(c *coordinatorImpl) {
		c.onFailure = handler
	}
}

// WithCompletionBuffer sets the capacity of the completion channel.
//
// Parameters:
//   - size: buffer capacity, must be at least 1
//
// Returns:
//   - CoordinatorBuilderOption: option function to apply
func WithCompletionBuffer(size int) CoordinatorBuilderOption {
	return func(c *coordinatorImpl) {
		if size < 1 {
			return
		}
		c.completions = make(chan completion, size)
	}
}
