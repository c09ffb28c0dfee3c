package swap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/material"
)

type trackedModel struct {
	mu       sync.Mutex
	name     string
	released int
}

func (m *trackedModel) Name() string                             { return m.name }
func (m *trackedModel) Meshes() []model.Mesh                     { return nil }
func (m *trackedModel) Materials() []material.Material           { return nil }
func (m *trackedModel) ApplyMaterial(material.Material)          {}
func (m *trackedModel) MaterialFor(model.Mesh) material.Material { return nil }

func (m *trackedModel) Release() {
	m.mu.Lock()
	m.released++
	m.mu.Unlock()
}

func (m *trackedModel) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released > 0
}

func (m *trackedModel) releaseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// gatedLoader blocks each Load until its gate is released, letting tests
// force completion order.
type gatedLoader struct {
	mu      sync.Mutex
	gates   map[string]chan struct{}
	errs    map[string]error
	ignores map[string]bool
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{
		gates:   make(map[string]chan struct{}),
		errs:    make(map[string]error),
		ignores: make(map[string]bool),
	}
}

func (l *gatedLoader) gate(path string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.gates[path]; !ok {
		l.gates[path] = make(chan struct{})
	}
	return l.gates[path]
}

func (l *gatedLoader) release(path string) {
	close(l.gate(path))
}

func (l *gatedLoader) failWith(path string, err error) {
	l.mu.Lock()
	l.errs[path] = err
	l.mu.Unlock()
}

// ignoreCancel makes Load for path finish normally even after its context
// was cancelled, simulating a load that completes before observing the
// cancellation.
func (l *gatedLoader) ignoreCancel(path string) {
	l.mu.Lock()
	l.ignores[path] = true
	l.mu.Unlock()
}

func (l *gatedLoader) Load(ctx context.Context, path string) (model.Model, error) {
	gate := l.gate(path)

	l.mu.Lock()
	ignoreCancel := l.ignores[path]
	loadErr := l.errs[path]
	l.mu.Unlock()

	if ignoreCancel {
		<-gate
	} else {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if loadErr != nil {
		return nil, loadErr
	}
	return &trackedModel{name: path}, nil
}

type recordingStage struct {
	mu       sync.Mutex
	attached []model.Model
	live     model.Model
}

func (s *recordingStage) Attach(m model.Model) model.Model {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.live
	s.live = m
	s.attached = append(s.attached, m)
	return previous
}

func (s *recordingStage) liveName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.live == nil {
		return ""
	}
	return s.live.Name()
}

// drainUntil polls Drain until the condition holds or the timeout elapses.
func drainUntil(t *testing.T, c Coordinator, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		c.Drain()
		return cond()
	}, 2*time.Second, time.Millisecond)
}

func TestRequestAttachesOnDrain(t *testing.T) {
	l := newGatedLoader()
	stage := &recordingStage{}
	c := NewCoordinator(l, stage)
	defer c.Close()

	c.Request("a")
	assert.True(t, c.Pending())

	l.release("a")
	drainUntil(t, c, func() bool { return stage.liveName() == "a" })
	assert.False(t, c.Pending())
}

func TestNewestRequestWinsRegardlessOfCompletionOrder(t *testing.T) {
	l := newGatedLoader()
	l.ignoreCancel("a")
	stage := &recordingStage{}
	c := NewCoordinator(l, stage)
	defer c.Close()

	c.Request("a")
	c.Request("b")

	// b finishes first and becomes live.
	l.release("b")
	drainUntil(t, c, func() bool { return stage.liveName() == "b" })

	// a finishes late. It must be discarded and released, never attached.
	l.release("a")
	require.Eventually(t, func() bool {
		c.Drain()
		stage.mu.Lock()
		defer stage.mu.Unlock()
		return len(stage.attached) == 1
	}, 2*time.Second, time.Millisecond)

	assert.Equal(t, "b", stage.liveName())
}

func TestStaleCompletionIsReleased(t *testing.T) {
	l := newGatedLoader()
	l.ignoreCancel("a")
	stage := &recordingStage{}
	c := NewCoordinator(l, stage)
	defer c.Close()

	c.Request("a")
	c.Request("b")
	l.release("a")
	l.release("b")

	drainUntil(t, c, func() bool { return stage.liveName() == "b" })

	// The stale model is the only one not attached; the attached model must
	// stay alive.
	b := stage.live.(*trackedModel)
	assert.Equal(t, 0, b.releaseCount())
}

func TestFailureKeepsPriorModelAndReportsOnce(t *testing.T) {
	l := newGatedLoader()
	loadErr := errors.New("corrupt file")
	l.failWith("bad", loadErr)

	var failures []error
	var failureMu sync.Mutex
	stage := &recordingStage{}
	c := NewCoordinator(l, stage, WithFailureHandler(func(path string, err error) {
		failureMu.Lock()
		defer failureMu.Unlock()
		failures = append(failures, err)
	}))
	defer c.Close()

	c.Request("a")
	l.release("a")
	drainUntil(t, c, func() bool { return stage.liveName() == "a" })

	c.Request("bad")
	l.release("bad")
	drainUntil(t, c, func() bool {
		failureMu.Lock()
		defer failureMu.Unlock()
		return len(failures) == 1
	})

	assert.Equal(t, "a", stage.liveName())
	failureMu.Lock()
	assert.ErrorIs(t, failures[0], loadErr)
	failureMu.Unlock()
}

func TestSupersededFailureIsNotReported(t *testing.T) {
	l := newGatedLoader()
	var failureCount int
	var failureMu sync.Mutex
	stage := &recordingStage{}
	c := NewCoordinator(l, stage, WithFailureHandler(func(path string, err error) {
		failureMu.Lock()
		defer failureMu.Unlock()
		failureCount++
	}))
	defer c.Close()

	// a blocks until its context is cancelled by the b request.
	c.Request("a")
	c.Request("b")
	l.release("b")

	drainUntil(t, c, func() bool { return stage.liveName() == "b" })

	failureMu.Lock()
	assert.Equal(t, 0, failureCount)
	failureMu.Unlock()
}

func TestAttachReleasesPreviousModel(t *testing.T) {
	l := newGatedLoader()
	stage := &recordingStage{}
	c := NewCoordinator(l, stage)
	defer c.Close()

	c.Request("a")
	l.release("a")
	drainUntil(t, c, func() bool { return stage.liveName() == "a" })
	a := stage.live.(*trackedModel)

	c.Request("b")
	l.release("b")
	drainUntil(t, c, func() bool { return stage.liveName() == "b" })

	assert.Equal(t, 1, a.releaseCount())
}

func TestSequenceNumbersAreMonotonic(t *testing.T) {
	l := newGatedLoader()
	c := NewCoordinator(l, &recordingStage{})
	defer c.Close()

	first := c.Request("a")
	second := c.Request("b")
	assert.Greater(t, second, first)
	l.release("a")
	l.release("b")
}

func TestCloseStopsNewRequests(t *testing.T) {
	l := newGatedLoader()
	stage := &recordingStage{}
	c := NewCoordinator(l, stage)

	c.Close()
	c.Request("a")
	assert.False(t, c.Pending())
	assert.Equal(t, 0, c.Drain())
}
